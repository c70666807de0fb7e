// Package game hosts the animated background in an ebiten window, with the
// portfolio text drawn on top.
package game

import (
	"context"
	"errors"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-portfolio/internal/background"
	"github.com/iburimskiy/particle-portfolio/internal/config"
	"github.com/iburimskiy/particle-portfolio/internal/particles"
)

var backdrop = color.RGBA{R: 10, G: 12, B: 20, A: 255}

// Options configures a Host. Zero values use the real ebiten input and an
// offscreen ebiten surface.
type Options struct {
	Width, Height int
	Input         Input
	NewSurface    func(width, height int) particles.Surface // returning nil disables drawing
	Overlay       *Overlay
	Clock         func() time.Time
	Logger        *zap.Logger
	Background    []background.Option
}

// Host is an ebiten.Game that provides frames, resize and pointer events to
// a background.Component. ebiten calls Update and Draw from one goroutine,
// which is the single-threaded dispatch the component expects.
type Host struct {
	width, height    int
	layoutW, layoutH int
	input            Input
	newSurface       func(int, int) particles.Surface
	surface          particles.Surface
	overlay          *Overlay
	clock            func() time.Time
	log              *zap.Logger

	bg      *background.Component
	mounted bool

	queue  background.FrameQueue
	resize background.Listeners[func(int, int)]
	move   background.Listeners[func(float64, float64)]
	leave  background.Listeners[func()]

	inside       bool
	lastX, lastY int
	quit         atomic.Bool
}

func NewHost(opts Options) *Host {
	h := &Host{
		width:      opts.Width,
		height:     opts.Height,
		input:      opts.Input,
		newSurface: opts.NewSurface,
		overlay:    opts.Overlay,
		clock:      opts.Clock,
		log:        opts.Logger,
	}
	if h.width <= 0 || h.height <= 0 {
		h.width, h.height = config.WindowWidth, config.WindowHeight
	}
	h.layoutW, h.layoutH = h.width, h.height
	if h.input == nil {
		h.input = ebitenInput{}
	}
	if h.newSurface == nil {
		h.newSurface = func(width, height int) particles.Surface { return NewSurface(width, height) }
	}
	if h.clock == nil {
		h.clock = time.Now
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	bgOpts := append([]background.Option{
		background.WithClock(h.clock),
		background.WithLogger(h.log),
	}, opts.Background...)
	h.bg = background.New(h, bgOpts...)
	return h
}

// Background returns the hosted component.
func (h *Host) Background() *background.Component { return h.bg }

// Stop makes the next Update end the game.
func (h *Host) Stop() { h.quit.Store(true) }

// Run opens the window and blocks until it is closed, Esc/Q is pressed or
// ctx is cancelled.
func (h *Host) Run(ctx context.Context, title string) error {
	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	stop := context.AfterFunc(ctx, h.Stop)
	defer stop()

	err := ebiten.RunGame(h)
	h.bg.Unmount()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// background.Host

func (h *Host) Viewport() (int, int) { return h.width, h.height }

func (h *Host) Surface() (particles.Surface, bool) {
	if h.surface == nil {
		h.surface = h.newSurface(h.width, h.height)
	}
	return h.surface, h.surface != nil
}

func (h *Host) RequestFrame(fn func(time.Time)) background.FrameID { return h.queue.Request(fn) }

func (h *Host) CancelFrame(id background.FrameID) { h.queue.Cancel(id) }

func (h *Host) OnResize(fn func(int, int)) func() { return h.resize.Add(fn) }

func (h *Host) OnPointerMove(fn func(float64, float64)) func() { return h.move.Add(fn) }

func (h *Host) OnPointerLeave(fn func()) func() { return h.leave.Add(fn) }

// ebiten.Game

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.layoutW, h.layoutH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (h *Host) Update() error {
	if h.quit.Load() {
		return ebiten.Termination
	}
	if h.input.JustPressed(ebiten.KeyEscape) || h.input.JustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if h.overlay != nil {
		switch {
		case h.input.JustPressed(ebiten.KeyRight):
			h.overlay.NextSection()
		case h.input.JustPressed(ebiten.KeyLeft):
			h.overlay.PrevSection()
		case h.input.JustPressed(ebiten.KeyL):
			h.overlay.NextLocale()
			h.log.Debug("locale switched", zap.String("locale", h.overlay.Locale()))
		}
	}

	if h.layoutW != h.width || h.layoutH != h.height {
		h.width, h.height = h.layoutW, h.layoutH
		if h.mounted {
			h.resize.Each(func(fn func(int, int)) { fn(h.width, h.height) })
		}
	}

	// The window only has its real size once ebiten is running.
	if !h.mounted {
		h.mounted = true
		if err := h.bg.Mount(); err != nil {
			h.log.Warn("background mount failed", zap.Error(err))
		}
	}

	h.dispatchPointer()
	h.queue.Run(h.clock())
	return nil
}

func (h *Host) dispatchPointer() {
	x, y := h.input.CursorPosition()
	inside := h.input.Focused() && x >= 0 && y >= 0 && x < h.width && y < h.height
	switch {
	case inside && (!h.inside || x != h.lastX || y != h.lastY):
		h.move.Each(func(fn func(float64, float64)) { fn(float64(x), float64(y)) })
	case !inside && h.inside:
		h.leave.Each(func(fn func()) { fn() })
	}
	h.inside, h.lastX, h.lastY = inside, x, y
}

func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(backdrop)
	if s, ok := h.surface.(*Surface); ok && s.Image() != nil {
		screen.DrawImage(s.Image(), nil)
	}
	if h.overlay != nil {
		h.overlay.Draw(screen)
	}
}
