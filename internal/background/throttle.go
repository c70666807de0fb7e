package background

import (
	"time"

	"github.com/iburimskiy/particle-portfolio/internal/particles"
)

// pointerThrottle accepts at most one pointer sample per interval. A sample
// that arrives too early is parked and applied by flush once the interval
// has elapsed, so the last position is never lost.
type pointerThrottle struct {
	interval time.Duration
	last     time.Time
	pending  particles.Pointer
	current  particles.Pointer
}

func newPointerThrottle(interval time.Duration) *pointerThrottle {
	return &pointerThrottle{interval: interval}
}

// move offers a sample taken at now. It reports whether the sample was
// applied immediately.
func (t *pointerThrottle) move(now time.Time, x, y float64) bool {
	p := particles.Pointer{X: x, Y: y, Present: true}
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.pending = p
		return false
	}
	t.last = now
	t.current = p
	t.pending = particles.Absent
	return true
}

// flush applies a parked sample if the interval has elapsed.
func (t *pointerThrottle) flush(now time.Time) {
	if !t.pending.Present || now.Sub(t.last) < t.interval {
		return
	}
	t.last = now
	t.current = t.pending
	t.pending = particles.Absent
}

// leave clears the pointer immediately and forgets any parked sample.
func (t *pointerThrottle) leave() {
	t.current = particles.Absent
	t.pending = particles.Absent
}

func (t *pointerThrottle) pointer() particles.Pointer { return t.current }
