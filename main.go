package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-portfolio/internal/background"
	"github.com/iburimskiy/particle-portfolio/internal/config"
	"github.com/iburimskiy/particle-portfolio/internal/i18n"
	"github.com/iburimskiy/particle-portfolio/internal/logging"
	"github.com/iburimskiy/particle-portfolio/internal/particles"
	"github.com/iburimskiy/particle-portfolio/internal/profile"
)

var (
	// Global flags
	configPath string
	lang       string
	verbose    bool
	logFile    string

	// Set up in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
	table  *i18n.Table
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio with an interactive particle background",
	Long: `A personal portfolio: profile sections, translations and a chat
assistant, drawn over an animated field of drifting, linked particles that
shy away from the pointer.

Run without a subcommand to open the window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if lang != "" {
			cfg.Locale = lang
		}

		path := logFile
		// tcell owns the tty, so the terminal view always logs to a file
		if path == "" && cmd.Name() == terminalCmd.Name() {
			path = filepath.Join(os.TempDir(), "particle-portfolio.log")
		}
		if path != "" {
			logger, err = logging.NewFile(path, cfg.Logging.Level, verbose)
		} else {
			logger, err = logging.New(cfg.Logging.Level, verbose)
		}
		if err != nil {
			return err
		}

		table = i18n.Default()
		cfg.Locale = table.Resolve(cfg.Locale)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWindow,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "portfolio.yaml", "Config file")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "Locale (en, de, ar, tr); overrides the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(windowCmd, terminalCmd, serveCmd, chatCmd, benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func openProfiles() (*profile.Store, error) {
	return profile.NewStore(cfg.Server.ProfilePath, logger.Named("profile"))
}

func tuningFrom(bc config.BackgroundConfig) particles.Tuning {
	return particles.Tuning{
		Density:         bc.Density,
		MaxParticles:    bc.MaxParticles,
		Speed:           bc.Speed,
		MinRadius:       bc.MinRadius,
		MaxRadius:       bc.MaxRadius,
		ConnectDistance: bc.ConnectDistance,
		PointerRadius:   bc.PointerRadius,
		PushDamping:     bc.PushDamping,
	}.WithDefaults()
}

// backgroundOptions maps the background section of c onto component options.
func backgroundOptions(c *config.Config) []background.Option {
	opts := []background.Option{
		background.WithTuning(tuningFrom(c.Background)),
		background.WithThrottle(c.ThrottleDuration()),
	}
	if seed := c.Background.Seed; seed != 0 {
		opts = append(opts, background.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	return opts
}
