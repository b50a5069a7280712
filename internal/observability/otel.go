package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

const defaultServiceName = "eduhub"

// OtelConfig selects where spans go. With no Endpoint and Stdout unset,
// spans are sampled but dropped.
type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Version     string
	SampleRatio float64
	Endpoint    string
	Headers     map[string]string
	Insecure    bool
	Stdout      bool
}

var (
	otelOnce     sync.Once
	otelShutdown = noopShutdown
)

func noopShutdown(context.Context) error { return nil }

// InitOTel installs the global tracer provider on first call. Later calls
// return the same shutdown func.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	if log == nil {
		log = logger.Nop()
	}
	otelOnce.Do(func() {
		if !cfg.Enabled {
			log.Debug("tracing disabled")
			return
		}
		tp, sink, err := newTracerProvider(ctx, cfg)
		if err != nil {
			log.Warn("trace exporter unavailable, spans will be dropped", "exporter", sink, "error", err)
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		otelShutdown = tp.Shutdown
		log.Info("tracing enabled",
			"service", serviceName(cfg),
			"exporter", sink,
			"sample_ratio", clampRatio(cfg.SampleRatio),
		)
	})
	return otelShutdown
}

func serviceName(cfg OtelConfig) string {
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		return name
	}
	return defaultServiceName
}

func newTracerProvider(ctx context.Context, cfg OtelConfig) (*sdktrace.TracerProvider, string, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(cfg.SampleRatio)))),
		sdktrace.WithResource(newResource(cfg)),
	}
	exp, sink, err := newExporter(ctx, cfg)
	if exp != nil {
		opts = append(opts, sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(2*time.Second)))
	}
	return sdktrace.NewTracerProvider(opts...), sink, err
}

func newResource(cfg OtelConfig) *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(serviceName(cfg))}
	if v := strings.TrimSpace(cfg.Version); v != "" {
		attrs = append(attrs, semconv.ServiceVersion(v))
	}
	if env := strings.TrimSpace(cfg.Environment); env != "" {
		attrs = append(attrs, attribute.String("deployment.environment", env))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

// newExporter prefers OTLP/HTTP when an endpoint is set and falls back to
// pretty-printed stdout when asked to.
func newExporter(ctx context.Context, cfg OtelConfig) (sdktrace.SpanExporter, string, error) {
	switch endpoint := strings.TrimSpace(cfg.Endpoint); {
	case endpoint != "":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, "otlp", err
		}
		return exp, "otlp", nil
	case cfg.Stdout:
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, "stdout", err
		}
		return exp, "stdout", nil
	default:
		return nil, "none", nil
	}
}

func clampRatio(v float64) float64 { return max(0, min(1, v)) }

// ParseHeaders reads the OTLP "k1=v1,k2=v2" header format. Entries without
// a key or a value are skipped.
func ParseHeaders(raw string) map[string]string {
	var headers map[string]string
	for _, part := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(part, "=")
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if !ok || key == "" || val == "" {
			continue
		}
		if headers == nil {
			headers = map[string]string{}
		}
		headers[key] = val
	}
	return headers
}
