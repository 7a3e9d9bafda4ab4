package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/config"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "odense-concerts",
		Short: "Collect upcoming concerts in Odense into one page",
		Long: `A tool that scrapes the concert listings of Odense's venues,
merges them into one chronological list and publishes it as a static page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.DefaultPath+" if present)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newSourcesCmd(),
		newServeCmd(),
	)

	return cmd
}

// loadConfig reads --config, or the default file when it exists, and
// applies the logging and time zone settings
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, config.ErrNotFound) && flagConfig == "":
		cfg = config.Default()
	case err != nil:
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	if err := concert.SetLocation(cfg.Locale.Timezone); err != nil {
		return nil, fmt.Errorf("setting time zone: %w", err)
	}

	logger.Debug("Loaded configuration", logger.Fields{"config": cfg.String()})
	return cfg, nil
}

// Execute runs the CLI until it finishes or ctx is cancelled
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
