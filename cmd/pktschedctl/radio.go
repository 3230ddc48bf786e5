// Commands governing the radio surface: txpower, psmode, protocol,
// autotx, autotx-interval.
package main

import (
	"github.com/spf13/cobra"

	"github.com/ystepanoff/pktsched/config"
	"github.com/ystepanoff/pktsched/control"
)

var txpowerCmd = &cobra.Command{
	Use:   "txpower <v>",
	Short: "Record a manual transmit power level (0..3), shown by status; start does not apply it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseIntArg(args[0])
		if err != nil {
			return err
		}
		return mutate(func(cfg *config.Scheduler) error {
			return control.SetTxPowerLevel(cfg, v)
		})
	},
}

var psmodeCmd = &cobra.Command{
	Use:   "psmode <none|min|max>",
	Short: "Set the radio's power-save mode.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(func(cfg *config.Scheduler) error {
			return control.SetPSMode(cfg, args[0])
		})
	},
}

var protocolCmd = &cobra.Command{
	Use:   "protocol <b|bg|g|bgn|gn>",
	Short: "Set the radio's 802.11 protocol mode.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(func(cfg *config.Scheduler) error {
			return control.SetProtocol(cfg, args[0])
		})
	},
}

var autotxCmd = &cobra.Command{
	Use:   "autotx <on|off>",
	Short: "Enable or disable the adaptive TX-power control loop.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled := args[0] == "on"
		return mutate(func(cfg *config.Scheduler) error {
			control.SetAutoTx(cfg, enabled)
			return nil
		})
	},
}

var autotxIntervalCmd = &cobra.Command{
	Use:   "autotx-interval <ms>",
	Short: "Set the TX-power control loop's poll interval.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ms, err := parseInt64Arg(args[0])
		if err != nil {
			return err
		}
		return mutate(func(cfg *config.Scheduler) error {
			control.SetAutoTxInterval(cfg, ms)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(txpowerCmd, psmodeCmd, protocolCmd, autotxCmd, autotxIntervalCmd)
}
