package diag

import (
	"strings"

	"github.com/zjrosen/idkit/internal/log"
	"github.com/zjrosen/idkit/prefixid"
)

// LogSink returns an observer writing failures to the debug log at level.
func LogSink(level log.Level) prefixid.Observer {
	emit := log.Warn
	switch level {
	case log.LevelDebug:
		emit = log.Debug
	case log.LevelInfo:
		emit = log.Info
	case log.LevelError:
		emit = log.Error
	}
	return func(f prefixid.ParseFailure) {
		emit(log.CatID, "bad id", "kind", f.Kind, "candidate", f.Candidate, "expected", strings.Join(f.Accepted, "|"))
	}
}

// Tee fans one failure out to every non-nil observer in order.
func Tee(observers ...prefixid.Observer) prefixid.Observer {
	live := make([]prefixid.Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			live = append(live, o)
		}
	}
	return func(f prefixid.ParseFailure) {
		for _, o := range live {
			o(f)
		}
	}
}
