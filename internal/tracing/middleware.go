package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RunFunc is a command body.
type RunFunc func(ctx context.Context, args []string) error

// Traced runs next inside a span named SpanPrefixCommand+name. The span
// is handed to next through ctx and closed with the outcome.
func Traced(tracer trace.Tracer, name string, next RunFunc) RunFunc {
	if tracer == nil {
		return next
	}
	return func(ctx context.Context, args []string) error {
		ctx, span := tracer.Start(ctx, SpanPrefixCommand+name, trace.WithSpanKind(trace.SpanKindInternal))
		defer span.End()

		span.SetAttributes(
			attribute.String(AttrCommand, name),
			attribute.Int(AttrArgCount, len(args)),
		)

		err := next(ctx, args)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
