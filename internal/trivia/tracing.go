package trivia

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gokatarajesh/trivia-api/internal/trivia"

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "trivia."+name, trace.WithAttributes(attrs...))
}

// endSpan marks the span failed only for internal errors; client errors are
// expected outcomes.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetAttributes(attribute.String("trivia.error_kind", KindOf(err).String()))
		if KindOf(err) == KindInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
