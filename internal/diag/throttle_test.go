package diag

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/idkit/internal/log"
	"github.com/zjrosen/idkit/prefixid"
)

type recorder struct {
	mu   sync.Mutex
	seen []prefixid.ParseFailure
}

func (r *recorder) observe(f prefixid.ParseFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, f)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func failure(kind, candidate string) prefixid.ParseFailure {
	return prefixid.ParseFailure{Kind: kind, Candidate: candidate, Accepted: []string{"usr"}}
}

func TestThrottle_SuppressesRepeats(t *testing.T) {
	rec := &recorder{}
	th := NewThrottle(rec.observe, time.Hour)

	for i := 0; i < 5; i++ {
		th.Observe(failure("UserID", "ord_1"))
	}

	require.Equal(t, 1, rec.len())
	require.Equal(t, int64(1), th.Forwarded())
	require.Equal(t, int64(4), th.Suppressed())
}

func TestThrottle_DistinctPairsForwarded(t *testing.T) {
	rec := &recorder{}
	th := NewThrottle(rec.observe, time.Hour)

	th.Observe(failure("UserID", "ord_1"))
	th.Observe(failure("UserID", "ord_2"))
	th.Observe(failure("OrderID", "ord_1"))

	require.Equal(t, 3, rec.len())
	require.Zero(t, th.Suppressed())
}

func TestThrottle_WindowExpiry(t *testing.T) {
	rec := &recorder{}
	th := NewThrottle(rec.observe, 20*time.Millisecond)

	th.Observe(failure("UserID", "x"))
	th.Observe(failure("UserID", "x"))
	require.Equal(t, 1, rec.len())

	time.Sleep(40 * time.Millisecond)
	th.Observe(failure("UserID", "x"))
	require.Equal(t, 2, rec.len())
}

func TestThrottle_DefaultWindow(t *testing.T) {
	th := NewThrottle(nil, 0)
	require.Equal(t, DefaultWindow, th.Window())

	th.Observe(failure("UserID", "x"))
	require.Equal(t, int64(1), th.Forwarded(), "nil sink still counts")
}

func TestThrottle_FlushLogsRepeats(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(nil) })

	rec := &recorder{}
	th := NewThrottle(rec.observe, time.Hour)
	th.Observe(failure("UserID", "ord_1"))
	th.Observe(failure("UserID", "ord_1"))
	th.Observe(failure("UserID", "ord_1"))

	th.Flush()
	require.Contains(t, buf.String(), "suppressed repeated bad id")
	require.Contains(t, buf.String(), "candidate=ord_1")
	require.Contains(t, buf.String(), "repeats=2")

	th.Observe(failure("UserID", "ord_1"))
	require.Equal(t, 2, rec.len(), "flushed pairs are forwarded again")
}

func TestThrottle_WiredIntoParse(t *testing.T) {
	rec := &recorder{}
	th := NewThrottle(rec.observe, time.Hour)
	prev := prefixid.SetObserver(th.Observer())
	t.Cleanup(func() { prefixid.SetObserver(prev) })

	for i := 0; i < 3; i++ {
		_, err := prefixid.ParseRaw("UserID", "ord_abc", "usr")
		require.ErrorIs(t, err, prefixid.ErrMalformedPrefix)
	}

	require.Equal(t, 1, rec.len())
	require.Equal(t, "ord_abc", rec.seen[0].Candidate)
	require.Equal(t, int64(2), th.Suppressed())
}

func TestThrottle_Concurrent(t *testing.T) {
	rec := &recorder{}
	th := NewThrottle(rec.observe, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				th.Observe(failure("UserID", "dup"))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, rec.len())
	require.Equal(t, int64(1599), th.Suppressed())
}
