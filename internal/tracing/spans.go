package tracing

// Span attribute keys.
const (
	AttrCommand   = "cli.command"
	AttrArgCount  = "cli.args"
	AttrKind      = "id.kind"
	AttrPrefix    = "id.prefix"
	AttrCandidate = "id.candidate"
	AttrAccepted  = "id.accepted"
	AttrCount     = "id.count"
	AttrBatchID   = "ledger.batch_id"
)

// Span name prefixes.
const (
	SpanPrefixCommand = "cli."
)

// Event names.
const (
	EventParseFailed = "id.parse_failed"
	EventRecorded    = "ledger.recorded"
)
