package telemetry

import (
	"strconv"
	"strings"
	"time"

	"github.com/DaviTostes/bruno-language-server/internal/errdef"
)

const DefaultServiceName = "bruno-ls"

const (
	envEndpoint    = "BRUNO_LS_OTEL_ENDPOINT"
	envInsecure    = "BRUNO_LS_OTEL_INSECURE"
	envService     = "BRUNO_LS_OTEL_SERVICE"
	envDialTimeout = "BRUNO_LS_OTEL_DIAL_TIMEOUT"
	envHeaders     = "BRUNO_LS_OTEL_HEADERS"
)

// Config selects the OTLP/gRPC collector. An empty Endpoint disables tracing.
type Config struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
	Version     string
	DialTimeout time.Duration
	Headers     map[string]string
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// ConfigFromEnv reads BRUNO_LS_OTEL_* variables through getenv. Malformed
// values are ignored. Unset variables stay zero so Merge can layer the result
// over the settings file; the resource falls back to DefaultServiceName.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		Endpoint:    strings.TrimSpace(getenv(envEndpoint)),
		ServiceName: strings.TrimSpace(getenv(envService)),
	}
	if raw := strings.TrimSpace(getenv(envInsecure)); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.Insecure = v
		}
	}
	if raw := strings.TrimSpace(getenv(envDialTimeout)); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.DialTimeout = d
		}
	}
	if headers, err := ParseHeaders(getenv(envHeaders)); err == nil {
		cfg.Headers = headers
	}
	return cfg
}

// Merge overlays the non-zero fields of o on c.
func (c Config) Merge(o Config) Config {
	if strings.TrimSpace(o.Endpoint) != "" {
		c.Endpoint = o.Endpoint
	}
	if o.Insecure {
		c.Insecure = true
	}
	if strings.TrimSpace(o.ServiceName) != "" {
		c.ServiceName = o.ServiceName
	}
	if strings.TrimSpace(o.Version) != "" {
		c.Version = o.Version
	}
	if o.DialTimeout > 0 {
		c.DialTimeout = o.DialTimeout
	}
	if len(o.Headers) > 0 {
		c.Headers = o.Headers
	}
	return c
}

// ParseHeaders parses "k=v, k2=v2". Blank input yields nil.
func ParseHeaders(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	headers := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errdef.New(errdef.CodeTelemetry, "invalid telemetry header %q", part)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}
