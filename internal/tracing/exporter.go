package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var errExporterClosed = errors.New("trace file closed")

// FileExporter appends one CommandRecord per finished span to a JSONL file.
type FileExporter struct {
	mu  sync.Mutex
	out io.WriteCloser
	enc *json.Encoder
}

// NewFileExporter opens path for appending, creating parent directories.
func NewFileExporter(path string) (*FileExporter, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- path is cleaned above
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileExporter{out: f, enc: json.NewEncoder(f)}, nil
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *FileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(spans) == 0 {
		return nil
	}
	if e.out == nil {
		return errExporterClosed
	}
	for _, s := range spans {
		if err := e.enc.Encode(newCommandRecord(s)); err != nil {
			return fmt.Errorf("encode span %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter. It is safe to call twice.
func (e *FileExporter) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.out == nil {
		return nil
	}
	err := e.out.Close()
	e.out, e.enc = nil, nil
	return err
}

// CommandRecord is one traced command. Identifier attributes and the
// parse-failure and ledger events are lifted into typed fields; anything
// else stays in Attrs.
type CommandRecord struct {
	Trace    string         `json:"trace"`
	Span     string         `json:"span"`
	Parent   string         `json:"parent,omitempty"`
	Command  string         `json:"command"`
	Started  time.Time      `json:"started"`
	Elapsed  float64        `json:"elapsed_ms"`
	Failed   bool           `json:"failed"`
	Error    string         `json:"error,omitempty"`
	Kind     string         `json:"kind,omitempty"`
	Count    int64          `json:"count,omitempty"`
	Batch    string         `json:"batch,omitempty"`
	Rejected []Rejection    `json:"rejected,omitempty"`
	Attrs    map[string]any `json:"attrs,omitempty"`
}

// Rejection is one id.parse_failed event.
type Rejection struct {
	Kind      string   `json:"kind"`
	Candidate string   `json:"candidate"`
	Accepted  []string `json:"accepted,omitempty"`
}

func newCommandRecord(s sdktrace.ReadOnlySpan) CommandRecord {
	sc := s.SpanContext()
	r := CommandRecord{
		Trace:   sc.TraceID().String(),
		Span:    sc.SpanID().String(),
		Command: strings.TrimPrefix(s.Name(), SpanPrefixCommand),
		Started: s.StartTime().UTC(),
		Elapsed: float64(s.EndTime().Sub(s.StartTime()).Microseconds()) / 1000,
		Failed:  s.Status().Code == codes.Error,
		Error:   s.Status().Description,
	}
	if p := s.Parent(); p.IsValid() {
		r.Parent = p.SpanID().String()
	}

	for _, kv := range s.Attributes() {
		switch string(kv.Key) {
		case AttrKind:
			r.Kind = kv.Value.AsString()
		case AttrCount:
			r.Count = kv.Value.AsInt64()
		case AttrBatchID:
			r.Batch = kv.Value.AsString()
		default:
			if r.Attrs == nil {
				r.Attrs = make(map[string]any)
			}
			r.Attrs[string(kv.Key)] = kv.Value.AsInterface()
		}
	}

	for _, ev := range s.Events() {
		switch ev.Name {
		case EventParseFailed:
			r.Rejected = append(r.Rejected, rejectionFrom(ev.Attributes))
		case EventRecorded:
			if v, ok := lookup(ev.Attributes, AttrBatchID); ok {
				r.Batch = v.AsString()
			}
		}
	}
	return r
}

func rejectionFrom(attrs []attribute.KeyValue) Rejection {
	var rej Rejection
	if v, ok := lookup(attrs, AttrKind); ok {
		rej.Kind = v.AsString()
	}
	if v, ok := lookup(attrs, AttrCandidate); ok {
		rej.Candidate = v.AsString()
	}
	if v, ok := lookup(attrs, AttrAccepted); ok {
		rej.Accepted = v.AsStringSlice()
	}
	return rej
}

func lookup(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}
