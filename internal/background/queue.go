package background

import (
	"slices"
	"time"
)

// FrameQueue holds frame callbacks until the host's next repaint. Hosts
// embed one to implement RequestFrame/CancelFrame.
type FrameQueue struct {
	nextID  FrameID
	pending []queuedFrame
}

type queuedFrame struct {
	id FrameID
	fn func(time.Time)
}

func (q *FrameQueue) Request(fn func(time.Time)) FrameID {
	q.nextID++
	q.pending = append(q.pending, queuedFrame{id: q.nextID, fn: fn})
	return q.nextID
}

// Cancel removes a pending callback and reports whether it was found.
func (q *FrameQueue) Cancel(id FrameID) bool {
	for i, f := range q.pending {
		if f.id == id {
			q.pending = slices.Delete(q.pending, i, i+1)
			return true
		}
	}
	return false
}

// Run invokes every callback queued before the call, in request order.
// Callbacks requested while running wait for the next Run.
func (q *FrameQueue) Run(now time.Time) int {
	due := q.pending
	q.pending = nil
	for _, f := range due {
		f.fn(now)
	}
	return len(due)
}

func (q *FrameQueue) Len() int { return len(q.pending) }

// Listeners is a registry of event handlers that can each be removed.
type Listeners[F any] struct {
	next int
	fns  map[int]F
}

// Add registers fn and returns its remove func.
func (l *Listeners[F]) Add(fn F) (remove func()) {
	if l.fns == nil {
		l.fns = make(map[int]F)
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() { delete(l.fns, id) }
}

// Each calls fn for every handler in registration order.
func (l *Listeners[F]) Each(call func(F)) {
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := l.fns[id]; ok {
			call(fn)
		}
	}
}

func (l *Listeners[F]) Len() int { return len(l.fns) }
