package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/yungbote/eduhub-backend"

// Start opens a span named op and returns a finish func that ends it and
// records the outcome in the metrics registry.
func Start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	started := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		Current().ObserveOperation(op, status, time.Since(started))
	}
}
