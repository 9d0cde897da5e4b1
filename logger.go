package avepace

import (
	"log"
	"time"

	"golang.org/x/time/rate"
)

var pkgLogger Logger = log.Default()

type Logger interface {
	Printf(format string, v ...any)
}

func SetLogger(logger Logger) {
	pkgLogger = logger
}

// a warning that can fire once per tick during long stalls
type throttledWarning struct {
	sometimes rate.Sometimes
	dropped   int
}

func newThrottledWarning(interval time.Duration) *throttledWarning {
	return &throttledWarning{sometimes: rate.Sometimes{First: 1, Interval: interval}}
}

func (w *throttledWarning) Printf(format string, v ...any) {
	logged := false
	w.sometimes.Do(func() {
		if w.dropped > 0 {
			pkgLogger.Printf("WARNING: "+format+" (%d similar warnings suppressed)", append(v, w.dropped)...)
		} else {
			pkgLogger.Printf("WARNING: "+format, v...)
		}
		w.dropped = 0
		logged = true
	})
	if !logged {
		w.dropped += 1
	}
}
