// Package background drives the animated particle field on top of a Host:
// it mounts onto a surface, steps and renders once per scheduled frame,
// reacts to resize and pointer events, and tears everything down on
// unmount.
package background

import (
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/particle-portfolio/internal/config"
	"github.com/iburimskiy/particle-portfolio/internal/particles"
)

var (
	ErrAlreadyMounted = errors.New("background: already mounted")
	ErrTornDown       = errors.New("background: component was unmounted")
)

type lifecycle uint8

const (
	idle lifecycle = iota
	running
	inert // mounted without a surface
	torn
)

// Component is the animated background. It is not safe for concurrent use;
// the Host serialises every callback.
type Component struct {
	host   Host
	tuning particles.Tuning
	style  particles.Style
	rng    *rand.Rand
	now    func() time.Time
	log    *zap.Logger

	state   lifecycle
	surface particles.Surface
	sim     *particles.Simulation
	pointer *pointerThrottle
	frameID FrameID
	queued  bool
	removes []func()
	frames  int
	links   int
}

type Option func(*Component)

func WithTuning(t particles.Tuning) Option {
	return func(c *Component) { c.tuning = t.WithDefaults() }
}

func WithStyle(s particles.Style) Option {
	return func(c *Component) { c.style = s }
}

func WithRand(r *rand.Rand) Option {
	return func(c *Component) { c.rng = r }
}

// WithClock replaces time.Now for pointer throttling.
func WithClock(now func() time.Time) Option {
	return func(c *Component) { c.now = now }
}

func WithThrottle(d time.Duration) Option {
	return func(c *Component) { c.pointer = newPointerThrottle(d) }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Component) { c.log = l }
}

// New returns an unmounted component.
func New(host Host, opts ...Option) *Component {
	c := &Component{
		host:    host,
		tuning:  particles.DefaultTuning(),
		style:   particles.DefaultStyle(),
		now:     time.Now,
		log:     zap.NewNop(),
		pointer: newPointerThrottle(config.PointerThrottle),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sim = particles.NewSimulation(c.tuning, c.rng)
	return c
}

// Mount attaches the component to its host and schedules the first frame.
// A host without a drawable surface leaves the component inert: nothing is
// drawn or scheduled and Mount still succeeds.
func (c *Component) Mount() error {
	switch c.state {
	case running, inert:
		return ErrAlreadyMounted
	case torn:
		return ErrTornDown
	}

	surface, ok := c.host.Surface()
	if !ok || surface == nil {
		c.state = inert
		c.log.Debug("no drawing surface, background disabled")
		return nil
	}
	c.surface = surface

	width, height := c.host.Viewport()
	c.resize(width, height)

	c.removes = append(c.removes,
		c.host.OnResize(c.resize),
		c.host.OnPointerMove(c.pointerMove),
		c.host.OnPointerLeave(c.pointerLeave),
	)

	c.state = running
	c.schedule()
	c.log.Debug("background mounted",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("particles", len(c.sim.Particles())))
	return nil
}

// Unmount cancels the pending frame and removes every listener. Calling it
// again, or on a component that never mounted, does nothing.
func (c *Component) Unmount() {
	switch c.state {
	case running:
		if c.queued {
			c.host.CancelFrame(c.frameID)
			c.queued = false
		}
		for _, remove := range c.removes {
			if remove != nil {
				remove()
			}
		}
		c.removes = nil
		c.log.Debug("background unmounted", zap.Int("frames", c.frames))
	case torn:
		return
	}
	c.state = torn
}

// Mounted reports whether frames are being scheduled.
func (c *Component) Mounted() bool { return c.state == running }

// Frames is the number of frames rendered so far.
func (c *Component) Frames() int { return c.frames }

// Links is the number of connections drawn in the last frame.
func (c *Component) Links() int { return c.links }

// Pointer returns the pointer state the next frame will read.
func (c *Component) Pointer() particles.Pointer { return c.pointer.pointer() }

// Simulation exposes the underlying particle set.
func (c *Component) Simulation() *particles.Simulation { return c.sim }

func (c *Component) schedule() {
	c.frameID = c.host.RequestFrame(c.frame)
	c.queued = true
}

// frame runs one complete update and render pass, then reschedules itself.
func (c *Component) frame(time.Time) {
	c.queued = false
	if c.state != running {
		return
	}

	c.pointer.flush(c.now())
	ptr := c.pointer.pointer()

	c.sim.Step(ptr)
	c.links = c.sim.Render(c.surface, c.style)
	c.frames++

	c.schedule()
}

func (c *Component) resize(width, height int) {
	c.surface.Resize(width, height)
	c.sim.Resize(width, height)
	c.log.Debug("background resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("particles", len(c.sim.Particles())))
}

func (c *Component) pointerMove(x, y float64) {
	c.pointer.move(c.now(), x, y)
}

func (c *Component) pointerLeave() {
	c.pointer.leave()
}
