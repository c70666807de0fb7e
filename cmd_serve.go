package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/particle-portfolio/internal/chat"
	"github.com/iburimskiy/particle-portfolio/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the profile, translations and chat relay over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	profiles, err := openProfiles()
	if err != nil {
		return err
	}
	relay := chat.NewRelay(chat.OptionsFrom(cfg), table, logger.Named("relay"))
	srv := server.New(profiles, table, relay, logger.Named("http"))

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, addr) })
	g.Go(func() error { return profiles.Watch(gctx) })
	return g.Wait()
}
