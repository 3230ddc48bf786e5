package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ystepanoff/pktsched/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pktschedctl",
	Short: "Control surface for the deadline-aware packet batching scheduler.",
	Long: `pktschedctl configures and runs a multi-class, deadline-aware packet ` +
		`batching scheduler. Configuration subcommands edit a YAML state file; ` +
		`"start" loads it and runs the scheduler until interrupted.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pktsched.yaml",
		"path to the scheduler's persisted control-surface state")
}

// loadConfig reads --config, falling back to compiled-in defaults if the
// file does not yet exist.
func loadConfig() (*config.Scheduler, error) {
	return config.Load(configPath)
}

// saveConfig persists cfg to --config.
func saveConfig(cfg *config.Scheduler) error {
	return config.Save(configPath, cfg)
}

// mutate loads the config, applies fn, and saves it back — unless fn
// returns an error, in which case the file is left untouched and the
// rejection is printed.
func mutate(fn func(cfg *config.Scheduler) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		fmt.Println("rejected:", err)
		return err
	}
	return saveConfig(cfg)
}
