// Command pktschedctl is the control surface for the packet batching
// scheduler, grounded on sarchlab-akita/akita/cmd's cobra tree.
// Configuration subcommands (set, type, count, threshold, rpacket,
// rtype, rsize, rdeadline, rburst, txpower, psmode, protocol, autotx,
// autotx-interval, reset, random) read-modify-write the YAML file named
// by --config; `start` loads that file and runs the scheduler, its
// producers, the receiver pipeline and the TX-power controller until
// interrupted.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
