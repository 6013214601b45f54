package telemetry

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/DaviTostes/bruno-language-server/internal/errdef"
)

var tracerName = "github.com/DaviTostes/bruno-language-server/internal/telemetry"

const (
	OpValidate = "validate"
	OpComplete = "complete"
)

var (
	uriKey       = attribute.Key("bruno.document.uri")
	versionKey   = attribute.Key("bruno.document.version")
	bytesKey     = attribute.Key("bruno.document.bytes")
	sessionKey   = attribute.Key("bruno.session.id")
	countKey     = attribute.Key("bruno.result.count")
	contextKey   = attribute.Key("bruno.completion.context")
	errorsKey    = attribute.Key("bruno.diagnostics.errors")
	warningsKey  = attribute.Key("bruno.diagnostics.warnings")
	spanPrefix   = "bruno."
	fallbackSpan = "bruno.operation"
)

type Instrumenter interface {
	Start(ctx context.Context, info OperationStart) (context.Context, OperationSpan)
	Shutdown(ctx context.Context) error
}

// OperationStart describes one validation or completion run.
type OperationStart struct {
	Op        string
	URI       string
	Version   int32
	Bytes     int
	SessionID string
}

type OperationResult struct {
	Err error
	// Count is the number of diagnostics or completion items produced.
	Count    int
	Errors   int
	Warnings int
	Context  string
}

type OperationSpan interface {
	End(result OperationResult)
}

type providerOptions struct {
	exporter       sdktrace.SpanExporter
	spanProcessors []sdktrace.SpanProcessor
}

type Option func(*providerOptions)

func WithSpanProcessor(proc sdktrace.SpanProcessor) Option {
	return func(opts *providerOptions) {
		if proc != nil {
			opts.spanProcessors = append(opts.spanProcessors, proc)
		}
	}
}

func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(opts *providerOptions) {
		if exp != nil {
			opts.exporter = exp
		}
	}
}

type manager struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	shutdown sync.Once
}

func New(cfg Config, opts ...Option) (Instrumenter, error) {
	builder := providerOptions{}
	for _, opt := range opts {
		opt(&builder)
	}

	if !cfg.Enabled() && builder.exporter == nil && len(builder.spanProcessors) == 0 {
		return Noop(), nil
	}

	res, err := resource.New(
		context.Background(),
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(buildResourceAttributes(cfg)...),
	)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeTelemetry, err, "build telemetry resource")
	}

	exporter := builder.exporter
	if exporter == nil && cfg.Enabled() {
		exporter, err = newExporter(cfg)
		if err != nil {
			return nil, err
		}
	}

	var tpOpts []sdktrace.TracerProviderOption
	tpOpts = append(tpOpts, sdktrace.WithResource(res))
	if exporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	for _, proc := range builder.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(proc))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	return &manager{tracer: tp.Tracer(tracerName), provider: tp}, nil
}

func (m *manager) Start(ctx context.Context, info OperationStart) (context.Context, OperationSpan) {
	ctx, span := m.tracer.Start(
		ctx,
		spanNameFor(info),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(buildSpanAttributes(info)...),
	)
	return ctx, &operationSpan{span: span}
}

func (m *manager) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	var shutdownErr error
	m.shutdown.Do(func() {
		shutdownErr = m.provider.Shutdown(ctx)
	})
	return shutdownErr
}

type operationSpan struct {
	span trace.Span
}

func (s *operationSpan) End(result OperationResult) {
	if s == nil || s.span == nil {
		return
	}

	s.span.SetAttributes(countKey.Int(result.Count))
	if result.Errors > 0 || result.Warnings > 0 {
		s.span.SetAttributes(errorsKey.Int(result.Errors), warningsKey.Int(result.Warnings))
	}
	if ctx := strings.TrimSpace(result.Context); ctx != "" {
		s.span.SetAttributes(contextKey.String(ctx))
	}

	if result.Err != nil {
		s.span.RecordError(result.Err)
		s.span.SetStatus(codes.Error, result.Err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "OK")
	}
	s.span.End()
}

func Noop() Instrumenter {
	return noopInstrumenter{}
}

type noopInstrumenter struct{}

type noopSpan struct{}

func (noopInstrumenter) Start(ctx context.Context, _ OperationStart) (context.Context, OperationSpan) {
	return ctx, noopSpan{}
}

func (noopInstrumenter) Shutdown(context.Context) error { return nil }

func (noopSpan) End(OperationResult) {}

func newExporter(cfg Config) (sdktrace.SpanExporter, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errdef.New(errdef.CodeTelemetry, "telemetry endpoint is required")
	}

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		clientOpts = append(clientOpts, otlptracegrpc.WithHeaders(cfg.Headers))
	}

	client := otlptracegrpc.NewClient(clientOpts...)
	exp, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeTelemetry, err, "start otlp exporter")
	}
	return exp, nil
}

func buildResourceAttributes(cfg Config) []attribute.KeyValue {
	name := cfg.ServiceName
	if strings.TrimSpace(name) == "" {
		name = DefaultServiceName
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceName(name),
	}
	if strings.TrimSpace(cfg.Version) != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.Version))
	}
	return attrs
}

func buildSpanAttributes(info OperationStart) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		bytesKey.Int(info.Bytes),
	}
	if info.URI != "" {
		attrs = append(attrs, uriKey.String(info.URI))
	}
	if info.Version != 0 {
		attrs = append(attrs, versionKey.Int64(int64(info.Version)))
	}
	if info.SessionID != "" {
		attrs = append(attrs, sessionKey.String(info.SessionID))
	}
	return attrs
}

func spanNameFor(info OperationStart) string {
	if op := strings.TrimSpace(info.Op); op != "" {
		return spanPrefix + op
	}
	return fallbackSpan
}

const defaultDialTimeout = 5 * time.Second
