// Package diag rate-limits the parse-failure echo emitted by prefixid.
//
// A client that keeps sending the same bad identifier would otherwise write
// one log line per request. Throttle forwards the first failure for each
// (kind, candidate) pair and counts the repeats until the window expires.
package diag

import (
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/idkit/internal/log"
	"github.com/zjrosen/idkit/prefixid"
)

// DefaultWindow is used when NewThrottle is given a non-positive window.
const DefaultWindow = time.Minute

// Throttle wraps a sink and drops repeated failures within a window.
// It is safe for concurrent use.
type Throttle struct {
	sink       prefixid.Observer
	window     time.Duration
	seen       *gocache.Cache
	forwarded  atomic.Int64
	suppressed atomic.Int64
}

// NewThrottle creates a Throttle forwarding to sink. A nil sink only counts.
func NewThrottle(sink prefixid.Observer, window time.Duration) *Throttle {
	if window <= 0 {
		window = DefaultWindow
	}
	t := &Throttle{
		sink:   sink,
		window: window,
		seen:   gocache.New(window, 2*window),
	}
	t.seen.OnEvicted(t.evicted)
	return t
}

// Observe handles one failure.
func (t *Throttle) Observe(f prefixid.ParseFailure) {
	key := failureKey(f)
	if err := t.seen.Add(key, 0, gocache.DefaultExpiration); err != nil {
		// Already seen within the window.
		if _, err := t.seen.IncrementInt(key, 1); err == nil {
			t.suppressed.Add(1)
			return
		}
		// Expired between Add and IncrementInt; treat as new.
		t.seen.Set(key, 0, gocache.DefaultExpiration)
	}

	t.forwarded.Add(1)
	if t.sink != nil {
		t.sink(f)
	}
}

// Observer returns t as a prefixid.Observer, ready for prefixid.SetObserver.
func (t *Throttle) Observer() prefixid.Observer {
	return t.Observe
}

// Forwarded returns how many failures reached the sink.
func (t *Throttle) Forwarded() int64 { return t.forwarded.Load() }

// Suppressed returns how many failures were dropped as repeats.
func (t *Throttle) Suppressed() int64 { return t.suppressed.Load() }

// Window returns the suppression window.
func (t *Throttle) Window() time.Duration { return t.window }

// Flush forgets every pair, so the next failure of each is forwarded again.
// Pending repeat counts are logged first.
func (t *Throttle) Flush() {
	for key, item := range t.seen.Items() {
		if n, ok := item.Object.(int); ok {
			t.evicted(key, n)
		}
	}
	t.seen.Flush()
}

func (t *Throttle) evicted(key string, value any) {
	n, ok := value.(int)
	if !ok || n == 0 {
		return
	}
	kind, candidate, _ := strings.Cut(key, "\x00")
	log.Info(log.CatCache, "suppressed repeated bad id", "kind", kind, "candidate", candidate, "repeats", n)
}

func failureKey(f prefixid.ParseFailure) string {
	return f.Kind + "\x00" + f.Candidate
}
