package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/idkit/prefixid"
)

// FailureObserver records each parse failure as an event on span.
func FailureObserver(span trace.Span) prefixid.Observer {
	return func(f prefixid.ParseFailure) {
		span.AddEvent(EventParseFailed, trace.WithAttributes(
			attribute.String(AttrKind, f.Kind),
			attribute.String(AttrCandidate, f.Candidate),
			attribute.StringSlice(AttrAccepted, f.Accepted),
		))
	}
}
