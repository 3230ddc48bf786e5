package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ystepanoff/pktsched/config"
	"github.com/ystepanoff/pktsched/control"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current class configuration, threshold, and random/TX-power settings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printStatus(cfg)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore every class, the random producer and the TX-power controller to defaults.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(func(cfg *config.Scheduler) error {
			control.Reset(cfg)
			return nil
		})
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show the compiled-in default configuration, ignoring any persisted file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		printStatus(config.Default())
		return nil
	},
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Assign fresh random periods, deadlines, types and counts to classes A, B and C.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result *config.Scheduler
		err := mutate(func(cfg *config.Scheduler) error {
			control.Randomize(cfg)
			result = cfg
			return nil
		})
		if err != nil {
			return err
		}
		printStatus(result)
		return nil
	},
}

func printStatus(cfg *config.Scheduler) {
	fmt.Println("Current Class Configuration:")
	fmt.Printf("Class A: Type=%s, Period=%dms, Deadline=%dms, Count=%d\n",
		cfg.ClassA.DataType, cfg.ClassA.PeriodMs, cfg.ClassA.DeadlineMs, cfg.ClassA.Count)
	fmt.Printf("Class B: Type=%s, Period=%dms, Deadline=%dms, Count=%d\n",
		cfg.ClassB.DataType, cfg.ClassB.PeriodMs, cfg.ClassB.DeadlineMs, cfg.ClassB.Count)
	fmt.Printf("Class C: Type=%s, Period=%dms, Deadline=%dms, Count=%d\n",
		cfg.ClassC.DataType, cfg.ClassC.PeriodMs, cfg.ClassC.DeadlineMs, cfg.ClassC.Count)
	fmt.Printf("\nProcessing Threshold: %dms\n", cfg.ThresholdMs)
	fmt.Printf("\nRandom class: enabled=%v type=%s count=%d deadline=%dms interval=[%d,%d]ms burst=%v(period=%dms,interval=%dms)\n",
		cfg.Random.Enabled, cfg.Random.DataType, cfg.Random.Count, cfg.Random.DeadlineMs,
		cfg.Random.MinIntervalMs, cfg.Random.MaxIntervalMs,
		cfg.Random.BurstEnabled, cfg.Random.BurstPeriodMs, cfg.Random.BurstIntervalMs)
	fmt.Printf("TX power: manual=%d autotx=%v interval=%dms psmode=%s protocol=%s\n",
		cfg.TxPower.ManualLevel, cfg.TxPower.AutoEnabled, cfg.TxPower.IntervalMs,
		cfg.TxPower.PSMode, cfg.TxPower.Protocol)
}

func init() {
	rootCmd.AddCommand(statusCmd, resetCmd, randomCmd, describeCmd)
}
