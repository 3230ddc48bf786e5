package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/config"
	"github.com/ystepanoff/pktsched/control"
)

func parseClassArg(s string) (classconf.ClassID, error) {
	class, ok := classconf.ParseClassID(s)
	if !ok {
		return 0, fmt.Errorf("unknown class %q (want A, B or C)", s)
	}
	return class, nil
}

// parsePeriodOrDeadlineArg accepts "-a" (auto-generate) or a literal
// millisecond value, matching cmd_set_class's argv handling.
func parsePeriodOrDeadlineArg(s string) (ms int64, auto bool, err error) {
	if s == "-a" {
		return 0, true, nil
	}
	ms, err = parseInt64Arg(s)
	return ms, false, err
}

var setCmd = &cobra.Command{
	Use:   "set <class> <period|-a> [deadline|-a]",
	Short: "Set period and deadline for a periodic class (A, B or C). -a draws a random value.",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := parseClassArg(args[0])
		if err != nil {
			return err
		}
		periodMs, periodAuto, err := parsePeriodOrDeadlineArg(args[1])
		if err != nil {
			return err
		}
		var deadlineMs int64
		deadlineAuto := true
		if len(args) >= 3 {
			deadlineMs, deadlineAuto, err = parsePeriodOrDeadlineArg(args[2])
			if err != nil {
				return err
			}
		}
		return mutate(func(cfg *config.Scheduler) error {
			return control.SetClassPeriodDeadline(cfg, class, periodMs, periodAuto, deadlineMs, deadlineAuto)
		})
	},
}

var typeCmd = &cobra.Command{
	Use:   "type <class> <datatype>",
	Short: "Set data type for a class (i8, i16, i32, f32, f64).",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := parseClassArg(args[0])
		if err != nil {
			return err
		}
		return mutate(func(cfg *config.Scheduler) error {
			return control.SetClassType(cfg, class, args[1])
		})
	},
}

var countCmd = &cobra.Command{
	Use:   "count <class> <n>",
	Short: "Set target element count per production event for a class.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := parseClassArg(args[0])
		if err != nil {
			return err
		}
		n, err := parseIntArg(args[1])
		if err != nil {
			return err
		}
		return mutate(func(cfg *config.Scheduler) error {
			return control.SetClassCount(cfg, class, n)
		})
	},
}

func init() {
	rootCmd.AddCommand(setCmd, typeCmd, countCmd)
}
