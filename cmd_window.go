package main

import (
	"context"

	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-portfolio/internal/config"
	"github.com/iburimskiy/particle-portfolio/internal/game"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the portfolio window (default)",
	RunE:  runWindow,
}

func runWindow(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	profiles, err := openProfiles()
	if err != nil {
		return err
	}

	// Live-reload the profile while the window is open.
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := profiles.Watch(watchCtx); err != nil {
			logger.Warn("profile watcher stopped", zap.Error(err))
		}
	}()

	host := game.NewHost(game.Options{
		Width:      config.WindowWidth,
		Height:     config.WindowHeight,
		Overlay:    game.NewOverlay(table, profiles, cfg.Locale),
		Logger:     logger.Named("window"),
		Background: backgroundOptions(cfg),
	})

	title := profiles.Get().Localized(cfg.Locale).Name + " · " + table.Lookup(cfg.Locale, "hero.hint")
	if err := host.Run(ctx, title); err != nil {
		logger.Error("window failed", zap.Error(err))
		// There may be no terminal attached to a windowed app.
		_ = zenity.Error(err.Error(), zenity.Title("Portfolio"), zenity.ErrorIcon)
		return err
	}
	return nil
}
