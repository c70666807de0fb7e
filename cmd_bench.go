package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-portfolio/internal/background"
	"github.com/iburimskiy/particle-portfolio/internal/config"
)

var (
	benchFrames int
	benchWidth  int
	benchHeight int
	benchSweep  bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the background headless and report frame cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runBench(benchParams{
			Frames:  benchFrames,
			Width:   benchWidth,
			Height:  benchHeight,
			Sweep:   benchSweep,
			Options: backgroundOptions(cfg),
		})
		if err != nil {
			return err
		}
		logger.Info("bench finished",
			zap.Int("frames", res.Frames),
			zap.Int("particles", res.Particles),
			zap.Duration("elapsed", res.Elapsed))
		printBench(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchFrames, "frames", 600, "Frames to simulate")
	benchCmd.Flags().IntVar(&benchWidth, "width", config.WindowWidth, "Viewport width")
	benchCmd.Flags().IntVar(&benchHeight, "height", config.WindowHeight, "Viewport height")
	benchCmd.Flags().BoolVar(&benchSweep, "sweep", true, "Sweep a pointer across the viewport")
}

type benchParams struct {
	Frames        int
	Width, Height int
	Sweep         bool
	Options       []background.Option
}

type benchResult struct {
	Frames    int
	Particles int
	Links     int // total over all frames
	Elapsed   time.Duration
}

func (r benchResult) perFrame() time.Duration {
	if r.Frames == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Frames)
}

// runBench mounts a component on a manual host and drives it with a
// synthetic 60 Hz clock. The pointer, if enabled, circles the centre.
func runBench(p benchParams) (benchResult, error) {
	if p.Frames <= 0 {
		return benchResult{}, fmt.Errorf("frames must be positive, got %d", p.Frames)
	}
	host := background.NewManualHost(p.Width, p.Height)

	clock := time.Unix(0, 0)
	opts := append([]background.Option{
		background.WithClock(func() time.Time { return clock }),
	}, p.Options...)
	bg := background.New(host, opts...)
	if err := bg.Mount(); err != nil {
		return benchResult{}, err
	}
	defer bg.Unmount()

	cx, cy := float64(p.Width)/2, float64(p.Height)/2
	r := math.Min(cx, cy) / 2

	var res benchResult
	start := time.Now()
	for i := range p.Frames {
		clock = clock.Add(config.TerminalFrameDur)
		if p.Sweep {
			a := float64(i) / 60
			host.PointerMove(cx+r*math.Cos(a), cy+r*math.Sin(a))
		}
		if host.Tick(clock) == 0 {
			break
		}
		res.Links += bg.Links()
	}
	res.Elapsed = time.Since(start)
	res.Frames = bg.Frames()
	res.Particles = len(bg.Simulation().Particles())
	return res, nil
}

func printBench(out io.Writer, r benchResult) {
	key := lipgloss.NewStyle().Foreground(mutedColor).Width(12)
	val := lipgloss.NewStyle().Bold(true)
	row := func(k string, v any) {
		fmt.Fprintln(out, key.Render(k)+val.Render(fmt.Sprint(v)))
	}
	fmt.Fprintln(out, titleStyle.Render("background bench"))
	row("frames", r.Frames)
	row("particles", r.Particles)
	row("links/frame", r.Links/max(r.Frames, 1))
	row("elapsed", r.Elapsed.Round(time.Microsecond))
	row("per frame", r.perFrame())
}
