package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/particle-portfolio/internal/profile"
	"github.com/iburimskiy/particle-portfolio/internal/term"
)

var frameInterval string

var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Animate the background in the terminal",
	Long: `Draws the particle field with braille glyphs and the profile headline
in the middle. Mouse motion repels particles. Esc, q or Ctrl-C quits.
Logs go to a file (see --log-file) while the terminal is in use.`,
	RunE: runTerminal,
}

func init() {
	terminalCmd.Flags().StringVar(&frameInterval, "frame", "16ms", "Frame interval")
}

func runTerminal(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	profiles, err := openProfiles()
	if err != nil {
		return err
	}
	interval, err := parseInterval(frameInterval)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	host := term.NewHost(screen, term.Options{
		FrameInterval: interval,
		Caption:       caption(profiles.Get().Localized(cfg.Locale)),
		Logger:        logger.Named("terminal"),
		Background:    backgroundOptions(cfg),
	})
	return host.Run(ctx)
}

func caption(p profile.Profile) []string {
	lines := []string{p.Name, p.Title}
	if q := table.Lookup(cfg.Locale, "hero.quote"); q != "" {
		lines = append(lines, "", q)
	}
	return lines
}

func parseInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid frame interval %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("frame interval must be positive, got %s", d)
	}
	return d, nil
}
