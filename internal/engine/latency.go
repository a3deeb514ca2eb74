package engine

import (
	"math/rand"
	"time"
)

// latencyWindow models a consensus/network round-trip as a uniformly
// distributed delay within [min, max). Zero bounds disable the wait, which
// tests rely on.
type latencyWindow struct {
	min time.Duration
	max time.Duration
}

// wait blocks for a random duration inside the window. Once started the wait
// is not cancellable; callers retry only after the operation settles.
func (w latencyWindow) wait() {
	if w.max <= 0 {
		return
	}

	d := w.min
	if span := w.max - w.min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}

	time.Sleep(d)
}
