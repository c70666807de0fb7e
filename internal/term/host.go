// Package term hosts the animated background in a terminal. Cells are
// mapped onto a virtual pixel grid so the particle simulation runs with
// the same tuning as in a window.
package term

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/particle-portfolio/internal/background"
	"github.com/iburimskiy/particle-portfolio/internal/config"
	"github.com/iburimskiy/particle-portfolio/internal/particles"
)

var errQuit = errors.New("quit")

type Options struct {
	FrameInterval time.Duration
	Caption       []string // drawn centred over the field
	Clock         func() time.Time
	Logger        *zap.Logger
	Background    []background.Option
}

// Host drives a background.Component on an initialised tcell.Screen. Events
// are read by a poller goroutine and handed to the loop goroutine, which
// owns the component and runs every callback.
type Host struct {
	screen   tcell.Screen
	surface  *BrailleSurface
	interval time.Duration
	caption  []string
	clock    func() time.Time
	log      *zap.Logger
	bg       *background.Component

	width, height int

	queue  background.FrameQueue
	resize background.Listeners[func(int, int)]
	move   background.Listeners[func(float64, float64)]
	leave  background.Listeners[func()]
}

func NewHost(screen tcell.Screen, opts Options) *Host {
	h := &Host{
		screen:   screen,
		interval: opts.FrameInterval,
		caption:  opts.Caption,
		clock:    opts.Clock,
		log:      opts.Logger,
	}
	if h.interval <= 0 {
		h.interval = config.TerminalFrameDur
	}
	if h.clock == nil {
		h.clock = time.Now
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	cols, rows := screen.Size()
	h.width, h.height = cols*config.CellPixelWidth, rows*config.CellPixelHeight
	h.surface = NewBrailleSurface(h.width, h.height)

	bgOpts := append([]background.Option{
		background.WithClock(h.clock),
		background.WithLogger(h.log),
	}, opts.Background...)
	h.bg = background.New(h, bgOpts...)
	return h
}

func (h *Host) Background() *background.Component { return h.bg }

func (h *Host) Braille() *BrailleSurface { return h.surface }

// Run mounts the background and animates it until Esc, q or Ctrl-C is
// pressed or ctx is cancelled. The screen is finalised on return.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse(tcell.MouseMotionEvents)
	h.screen.EnableFocus()
	h.screen.HideCursor()

	if err := h.bg.Mount(); err != nil {
		h.screen.Fini()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, 64)

	// PollEvent returns nil once the loop has called Fini.
	g.Go(func() error {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer h.screen.Fini()
		defer h.bg.Unmount()

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case ev := <-events:
				if !h.handle(ev) {
					return errQuit
				}
			case <-ticker.C:
				h.tick(h.clock())
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// handle dispatches one terminal event and reports whether to keep going.
func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		}

	case *tcell.EventResize:
		cols, rows := ev.Size()
		h.width, h.height = cols*config.CellPixelWidth, rows*config.CellPixelHeight
		h.resize.Each(func(fn func(int, int)) { fn(h.width, h.height) })
		h.screen.Sync()

	case *tcell.EventMouse:
		col, row := ev.Position()
		x := float64(col*config.CellPixelWidth) + config.CellPixelWidth/2
		y := float64(row*config.CellPixelHeight) + config.CellPixelHeight/2
		h.move.Each(func(fn func(float64, float64)) { fn(x, y) })

	case *tcell.EventFocus:
		if !ev.Focused {
			h.leave.Each(func(fn func()) { fn() })
		}
	}
	return true
}

// tick runs the queued frame callbacks and paints the result.
func (h *Host) tick(now time.Time) {
	if h.queue.Run(now) == 0 {
		return
	}
	h.screen.Clear()
	h.surface.Blit(h.screen, tcell.StyleDefault)
	h.drawCaption()
	h.screen.Show()
}

func (h *Host) drawCaption() {
	if len(h.caption) == 0 {
		return
	}
	cols, rows := h.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	top := (rows - len(h.caption)) / 2
	for i, line := range h.caption {
		runes := []rune(line)
		x := max((cols-len(runes))/2, 0)
		for j, r := range runes {
			if x+j >= cols {
				break
			}
			h.screen.SetContent(x+j, top+i, r, nil, style)
		}
		if i == 0 {
			style = style.Bold(false).Foreground(tcell.ColorSilver)
		}
	}
}

// background.Host

func (h *Host) Viewport() (int, int) { return h.width, h.height }

func (h *Host) Surface() (particles.Surface, bool) { return h.surface, true }

func (h *Host) RequestFrame(fn func(time.Time)) background.FrameID { return h.queue.Request(fn) }

func (h *Host) CancelFrame(id background.FrameID) { h.queue.Cancel(id) }

func (h *Host) OnResize(fn func(int, int)) func() { return h.resize.Add(fn) }

func (h *Host) OnPointerMove(fn func(float64, float64)) func() { return h.move.Add(fn) }

func (h *Host) OnPointerLeave(fn func()) func() { return h.leave.Add(fn) }
