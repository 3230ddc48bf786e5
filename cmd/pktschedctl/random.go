// Commands governing class Random: rpacket (enable + inter-arrival
// range), rtype, rsize, rdeadline, rburst.
package main

import (
	"github.com/spf13/cobra"

	"github.com/ystepanoff/pktsched/config"
	"github.com/ystepanoff/pktsched/control"
)

var rpacketCmd = &cobra.Command{
	Use:   "rpacket <on|off> [min_ms] [max_ms]",
	Short: "Enable or disable the random producer and set its inter-arrival range.",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled := args[0] == "on"
		return mutate(func(cfg *config.Scheduler) error {
			control.SetRandomEnabled(cfg, enabled)
			if len(args) >= 3 {
				minMs, err := parseInt64Arg(args[1])
				if err != nil {
					return err
				}
				maxMs, err := parseInt64Arg(args[2])
				if err != nil {
					return err
				}
				control.SetRandomInterval(cfg, minMs, maxMs)
			}
			return nil
		})
	},
}

var rtypeCmd = &cobra.Command{
	Use:   "rtype <datatype>",
	Short: "Set the random class's data type.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(func(cfg *config.Scheduler) error {
			return control.SetRandomType(cfg, args[0])
		})
	},
}

var rsizeCmd = &cobra.Command{
	Use:   "rsize <n>",
	Short: "Set the random class's element count per fire.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseIntArg(args[0])
		if err != nil {
			return err
		}
		return mutate(func(cfg *config.Scheduler) error {
			control.SetRandomSize(cfg, n)
			return nil
		})
	},
}

var rdeadlineCmd = &cobra.Command{
	Use:   "rdeadline <ms>",
	Short: "Set the random class's relative deadline.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := parseInt64Arg(args[0])
		if err != nil {
			return err
		}
		return mutate(func(cfg *config.Scheduler) error {
			control.SetRandomDeadline(cfg, ms)
			return nil
		})
	},
}

var rburstCmd = &cobra.Command{
	Use:   "rburst <on|off> [period_ms] [interval_ms]",
	Short: "Configure the random class's burst mode.",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled := args[0] == "on"
		var periodMs, intervalMs int64
		if len(args) >= 3 {
			var err error
			periodMs, err = parseInt64Arg(args[1])
			if err != nil {
				return err
			}
			intervalMs, err = parseInt64Arg(args[2])
			if err != nil {
				return err
			}
		}
		return mutate(func(cfg *config.Scheduler) error {
			control.SetRandomBurst(cfg, enabled, periodMs, intervalMs)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rpacketCmd, rtypeCmd, rsizeCmd, rdeadlineCmd, rburstCmd)
}
