package prefixid

import (
	"strings"
	"sync/atomic"

	"github.com/zjrosen/idkit/internal/log"
)

// ParseFailure is the diagnostic record handed to the Observer when a
// candidate is rejected.
type ParseFailure struct {
	Kind      string
	Candidate string
	Accepted  []string
}

// Observer receives parse failures. It is advisory only: the error is
// always returned to the caller regardless of what the observer does.
// Observers may be called from many goroutines at once.
type Observer func(ParseFailure)

// LogObserver writes each failure to the structured log at warn level.
func LogObserver(f ParseFailure) {
	log.Warn(log.CatID, "bad id", "kind", f.Kind, "candidate", f.Candidate, "expected", strings.Join(f.Accepted, "|"))
}

type observerBox struct{ fn Observer }

var currentObserver atomic.Pointer[observerBox]

func init() {
	currentObserver.Store(&observerBox{fn: LogObserver})
}

// SetObserver installs o as the parse-failure observer and returns the
// previous one. A nil o disables the echo.
func SetObserver(o Observer) Observer {
	prev := currentObserver.Swap(&observerBox{fn: o})
	return prev.fn
}

// ParseRaw accepts candidate iff it starts with one of the accepted
// prefixes immediately followed by Separator. Only the tag is checked; the
// suffix is not validated. name is the display name used in the error.
func ParseRaw(name, candidate string, accepted ...string) (string, error) {
	if _, ok := matchPrefix(candidate, accepted); ok {
		return candidate, nil
	}

	if o := currentObserver.Load().fn; o != nil {
		o(ParseFailure{Kind: name, Candidate: candidate, Accepted: accepted})
	}
	return "", &ParseError{
		TypeName:  name,
		Expected:  expectedPrefixes(accepted),
		Candidate: candidate,
	}
}

// matchPrefix returns the accepted prefix candidate starts with.
func matchPrefix(candidate string, accepted []string) (string, bool) {
	for _, p := range accepted {
		if len(candidate) > len(p) && candidate[len(p)] == Separator[0] && strings.HasPrefix(candidate, p) {
			return p, true
		}
	}
	return "", false
}
