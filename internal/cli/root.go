// Package cli implements the grind command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grindset/grindset/internal/daemon"
)

var (
	flagHome    string
	flagVerbose bool
	flagFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "grind",
	Short: "Track habits and score your discipline",
	Long: `grind tracks daily habits and turns your check-in history into a
discipline score, a level, suggestions and a weekly review.

Data lives in ~/.grindset (override with --home or $GRIND_HOME).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch flagFormat {
		case formatText, formatJSON, formatYAML:
			return nil
		}
		return fmt.Errorf("unknown --format %q: want text, json or yaml", flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "grindset home directory (default $GRIND_HOME or ~/.grindset)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "o", formatText, "output format: text, json, yaml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func homeDir() string {
	if flagHome != "" {
		return flagHome
	}
	return daemon.Home()
}

// openDaemon loads config and opens storage in-process. Short-lived commands
// log at warn unless --verbose is set.
func openDaemon(quiet bool) (*daemon.Daemon, *zap.Logger, error) {
	cfg, err := daemon.LoadConfig(homeDir())
	if err != nil {
		return nil, nil, err
	}

	lc := cfg.Log
	if quiet {
		lc.Level = "warn"
	}
	logger, err := daemon.NewLogger(lc, flagVerbose)
	if err != nil {
		return nil, nil, err
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Sync()
		return nil, nil, err
	}
	return d, logger, nil
}

// withDaemon runs fn against an in-process daemon and closes it afterwards.
func withDaemon(fn func(d *daemon.Daemon) error) error {
	d, logger, err := openDaemon(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer d.Close()
	return fn(d)
}
