package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/clock"
	"github.com/ystepanoff/pktsched/config"
	"github.com/ystepanoff/pktsched/internal/logx"
	"github.com/ystepanoff/pktsched/producer"
	"github.com/ystepanoff/pktsched/radio/host"
	"github.com/ystepanoff/pktsched/receiverpipe"
	"github.com/ystepanoff/pktsched/scheduler"
	"github.com/ystepanoff/pktsched/txpower"
	"github.com/ystepanoff/pktsched/wire"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler with the current configuration and run until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScheduler()
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

// buildAddressing resolves the hex MAC triple and direction from cfg.
func buildAddressing(cfg *config.Scheduler) (scheduler.Addressing, error) {
	self, err := wire.ParseMacAddr(cfg.Addressing.Self)
	if err != nil {
		return scheduler.Addressing{}, err
	}
	peer, err := wire.ParseMacAddr(cfg.Addressing.Peer)
	if err != nil {
		return scheduler.Addressing{}, err
	}
	bssid, err := wire.ParseMacAddr(cfg.Addressing.BSSID)
	if err != nil {
		return scheduler.Addressing{}, err
	}

	dir := wire.DirectionUplink
	if cfg.Addressing.Role == "ap" {
		dir = wire.DirectionDownlink
	}

	return scheduler.Addressing{Self: self, Peer: peer, BSSID: bssid, Direction: dir}, nil
}

// wantDirection is the direction frames must travel in to be accepted by
// our own receiver pipeline: the opposite of what we transmit.
func wantDirection(sent wire.Direction) wire.Direction {
	if sent == wire.DirectionUplink {
		return wire.DirectionDownlink
	}
	return wire.DirectionUplink
}

func runScheduler() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logx.Init(logLevel(cfg.Log.Level), cfg.Log.File)
	log := logx.L()
	log.Info("pktschedctl starting, session=%s", log.SessionID())

	addr, err := buildAddressing(cfg)
	if err != nil {
		return err
	}

	clk := clock.NewReal()
	drv := host.New()

	sched := scheduler.New(clk, addr)
	applyConfig(sched, cfg)

	printStatus(cfg)

	batcher := scheduler.NewBatcher(sched, drv)
	periodic := producer.NewPeriodic(sched)
	random := producer.NewRandom(sched, randomConfigFrom(cfg.Random))

	txCtrl := txpower.NewController(drv).WithInterval(cfg.TxPower.IntervalMs)
	txCtrl.SetEnabled(cfg.TxPower.AutoEnabled)

	pipeline := receiverpipe.New(clk, addr.Self, wantDirection(addr.Direction))
	for _, class := range []classconf.ClassID{classconf.ClassA, classconf.ClassB, classconf.ClassC, classconf.ClassRandom} {
		pipeline.SetHandler(class, func(class classconf.ClassID, dt classconf.DataType, count int, data []byte) {
			log.Debug("receiver: class=%s type=%s count=%d bytes=%d", class, dt, count, len(data))
		})
	}
	drv.OnReceive(pipeline.HandleFrame)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received, stopping scheduler tasks")
		cancel()
	}()

	go batcher.Run(ctx)
	go periodic.Run(ctx)
	if cfg.Random.Enabled {
		go random.Run(ctx)
	}
	go txCtrl.Run(ctx)

	<-ctx.Done()

	snap := sched.Snapshot()
	rstat := pipeline.Snapshot()
	fmt.Printf("\nFinal counters: processed=%d transmitted=%d deadline_misses=%d received=%d data_packets=%d error_packets=%d\n",
		snap.PacketsProcessed, snap.PacketsTransmitted, snap.DeadlineMisses,
		rstat.PacketsReceived, rstat.DataPackets, rstat.ErrorPackets)

	log.Close()
	return nil
}

func applyConfig(sched *scheduler.Context, cfg *config.Scheduler) {
	sched.SetThreshold(cfg.ThresholdMs)
	for _, cc := range []struct {
		class classconf.ClassID
		cfg   config.ClassConfig
	}{
		{classconf.ClassA, cfg.ClassA},
		{classconf.ClassB, cfg.ClassB},
		{classconf.ClassC, cfg.ClassC},
	} {
		dt, ok := classconf.ParseDataType(cc.cfg.DataType)
		if !ok {
			dt = classconf.DataTypeI32
		}
		sched.SetClassConfig(cc.class, classconf.Config{
			DataType:      dt,
			PeriodMs:      cc.cfg.PeriodMs,
			RelDeadlineMs: cc.cfg.DeadlineMs,
			TargetCount:   cc.cfg.Count,
		})
	}

	rc := sched.ClassConfig(classconf.ClassRandom)
	rc.RelDeadlineMs = cfg.Random.DeadlineMs
	sched.SetClassConfig(classconf.ClassRandom, rc)
}

func randomConfigFrom(rc config.RandomConfig) producer.RandomConfig {
	dt, ok := classconf.ParseDataType(rc.DataType)
	if !ok {
		dt = classconf.DataTypeI32
	}
	return producer.RandomConfig{
		Enabled:         rc.Enabled,
		MinIntervalMs:   rc.MinIntervalMs,
		MaxIntervalMs:   rc.MaxIntervalMs,
		BurstEnabled:    rc.BurstEnabled,
		BurstPeriodMs:   rc.BurstPeriodMs,
		BurstIntervalMs: rc.BurstIntervalMs,
		ElementCount:    rc.Count,
		DataType:        dt,
	}
}

func logLevel(s string) logx.Level {
	switch s {
	case "debug":
		return logx.Debug
	case "warn":
		return logx.Warn
	case "error":
		return logx.Error
	default:
		return logx.Info
	}
}
