package main

import (
	"github.com/spf13/cobra"

	"github.com/ystepanoff/pktsched/config"
	"github.com/ystepanoff/pktsched/control"
)

var thresholdCmd = &cobra.Command{
	Use:   "threshold <ms>",
	Short: "Set the processing horizon: how far ahead of now a deadline triggers emission.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := parseInt64Arg(args[0])
		if err != nil {
			return err
		}
		return mutate(func(cfg *config.Scheduler) error {
			control.SetThreshold(cfg, ms)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(thresholdCmd)
}
