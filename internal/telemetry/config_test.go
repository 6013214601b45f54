package telemetry

import (
	"testing"
	"time"

	"github.com/DaviTostes/bruno-language-server/internal/errdef"
)

func TestConfigFromEnv(t *testing.T) {
	env := map[string]string{
		envEndpoint:    "localhost:4317",
		envInsecure:    "true",
		envService:     "bruno-ls-ci",
		envDialTimeout: "10s",
		envHeaders:     "x-api-key=secret, x-tenant = demo",
	}
	cfg := ConfigFromEnv(func(key string) string { return env[key] })
	if !cfg.Enabled() {
		t.Fatalf("expected telemetry to be enabled")
	}
	if cfg.Endpoint != "localhost:4317" {
		t.Fatalf("unexpected endpoint %q", cfg.Endpoint)
	}
	if !cfg.Insecure {
		t.Fatalf("expected insecure to be true")
	}
	if cfg.ServiceName != "bruno-ls-ci" {
		t.Fatalf("unexpected service name %q", cfg.ServiceName)
	}
	if cfg.DialTimeout != 10*time.Second {
		t.Fatalf("unexpected dial timeout %s", cfg.DialTimeout)
	}
	if len(cfg.Headers) != 2 || cfg.Headers["x-api-key"] != "secret" ||
		cfg.Headers["x-tenant"] != "demo" {
		t.Fatalf("unexpected headers: %#v", cfg.Headers)
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg := ConfigFromEnv(func(string) string { return "" })
	if cfg.Enabled() {
		t.Fatalf("expected telemetry to be disabled")
	}
	if cfg.ServiceName != "" {
		t.Fatalf("expected unset service name, got %q", cfg.ServiceName)
	}
	env := map[string]string{envInsecure: "maybe", envDialTimeout: "soon", envHeaders: "broken"}
	cfg = ConfigFromEnv(func(key string) string { return env[key] })
	if cfg.Insecure || cfg.DialTimeout != 0 || cfg.Headers != nil {
		t.Fatalf("expected malformed values to be ignored: %#v", cfg)
	}
}

func TestConfigMerge(t *testing.T) {
	base := Config{Endpoint: "file:4317", ServiceName: "from-file", DialTimeout: time.Second}
	got := base.Merge(Config{Endpoint: "flag:4317", Insecure: true})
	if got.Endpoint != "flag:4317" || !got.Insecure || got.ServiceName != "from-file" ||
		got.DialTimeout != time.Second {
		t.Fatalf("unexpected merge result %#v", got)
	}
}

func TestParseHeaders(t *testing.T) {
	headers, err := ParseHeaders("a=1, b=2,empty=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if headers["a"] != "1" || headers["b"] != "2" || headers["empty"] != "" {
		t.Fatalf("unexpected headers: %#v", headers)
	}

	headers, err = ParseHeaders("   ")
	if err != nil || headers != nil {
		t.Fatalf("expected nil headers, got %#v (%v)", headers, err)
	}

	if _, err := ParseHeaders("novalue"); errdef.CodeOf(err) != errdef.CodeTelemetry {
		t.Fatalf("expected telemetry error, got %v", err)
	}
}
