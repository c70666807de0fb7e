package background

import (
	"time"

	"github.com/iburimskiy/particle-portfolio/internal/particles"
)

// ManualHost is a Host driven by explicit calls. It backs the headless
// bench command and the tests: frames run only when Tick is called and
// events fire only when injected.
type ManualHost struct {
	Width, Height int
	Drawable      particles.Surface // nil = no surface available

	Requested int
	Cancelled int

	queue  FrameQueue
	resize Listeners[func(int, int)]
	move   Listeners[func(float64, float64)]
	leave  Listeners[func()]
}

// NewManualHost returns a host of the given size drawing onto a Recorder.
func NewManualHost(width, height int) *ManualHost {
	return &ManualHost{
		Width:    width,
		Height:   height,
		Drawable: particles.NewRecorder(width, height),
	}
}

func (h *ManualHost) Viewport() (int, int) { return h.Width, h.Height }

func (h *ManualHost) Surface() (particles.Surface, bool) {
	return h.Drawable, h.Drawable != nil
}

func (h *ManualHost) RequestFrame(fn func(time.Time)) FrameID {
	h.Requested++
	return h.queue.Request(fn)
}

func (h *ManualHost) CancelFrame(id FrameID) {
	if h.queue.Cancel(id) {
		h.Cancelled++
	}
}

func (h *ManualHost) OnResize(fn func(int, int)) func() { return h.resize.Add(fn) }

func (h *ManualHost) OnPointerMove(fn func(float64, float64)) func() { return h.move.Add(fn) }

func (h *ManualHost) OnPointerLeave(fn func()) func() { return h.leave.Add(fn) }

// Tick runs the frame callbacks queued so far and returns how many ran.
func (h *ManualHost) Tick(now time.Time) int { return h.queue.Run(now) }

// Pending is the number of queued frame callbacks.
func (h *ManualHost) Pending() int { return h.queue.Len() }

// Listeners is the number of subscribed event handlers.
func (h *ManualHost) Listeners() int {
	return h.resize.Len() + h.move.Len() + h.leave.Len()
}

// Resize changes the viewport and notifies subscribers.
func (h *ManualHost) Resize(width, height int) {
	h.Width, h.Height = width, height
	h.resize.Each(func(fn func(int, int)) { fn(width, height) })
}

func (h *ManualHost) PointerMove(x, y float64) {
	h.move.Each(func(fn func(float64, float64)) { fn(x, y) })
}

func (h *ManualHost) PointerLeave() {
	h.leave.Each(func(fn func()) { fn() })
}
