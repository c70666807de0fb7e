package background

import (
	"time"

	"github.com/iburimskiy/particle-portfolio/internal/particles"
)

// FrameID identifies a pending frame request.
type FrameID uint64

// Host is the environment a Component is mounted into. All callbacks,
// frame and event alike, must be invoked from a single goroutine; the
// component does no locking of its own.
type Host interface {
	// Viewport reports the current drawable size.
	Viewport() (width, height int)
	// Surface acquires the drawing surface. ok is false when none is
	// available, in which case the component stays inert.
	Surface() (s particles.Surface, ok bool)

	// RequestFrame schedules fn to run once before the next repaint.
	RequestFrame(fn func(now time.Time)) FrameID
	// CancelFrame drops a pending request. Unknown ids are ignored.
	CancelFrame(id FrameID)

	OnResize(fn func(width, height int)) (remove func())
	OnPointerMove(fn func(x, y float64)) (remove func())
	OnPointerLeave(fn func()) (remove func())
}
