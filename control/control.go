// Package control implements the validation, clamping and "auto" value
// generation behind every control-surface command, operating on a
// *config.Scheduler. cmd/pktschedctl's one-shot subcommands read-modify-
// write the YAML file through these functions; `start` applies the same
// file to a live *scheduler.Context at boot via applyConfig.
package control

import (
	"fmt"
	"math/rand"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/config"
	"github.com/ystepanoff/pktsched/scheduler"
)

// ErrInvalidConfig is returned when a command's input cannot be
// interpreted at all (as opposed to being merely out of range, which is
// clamped rather than rejected). The prior configuration is left
// untouched.
type ErrInvalidConfig struct {
	Command string
	Reason  string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config for %q: %s", e.Command, e.Reason)
}

// AutoPeriod draws a random period in [MinPeriodMs, MaxPeriodMs], for the
// `set class auto` form.
func AutoPeriod() int64 {
	return scheduler.MinPeriodMs + rand.Int63n(scheduler.MaxPeriodMs-scheduler.MinPeriodMs+1)
}

// AutoDeadline draws a deadline as a random fraction of period in
// [MinDeadlineFactor, MaxDeadlineFactor], matching cmd_set_class's
// auto-deadline behaviour.
func AutoDeadline(periodMs int64) int64 {
	span := scheduler.MaxDeadlineFactor - scheduler.MinDeadlineFactor
	factor := scheduler.MinDeadlineFactor + span*rand.Float64()
	return int64(float64(periodMs) * factor)
}

func classConfig(cfg *config.Scheduler, class classconf.ClassID) *config.ClassConfig {
	switch class {
	case classconf.ClassA:
		return &cfg.ClassA
	case classconf.ClassB:
		return &cfg.ClassB
	case classconf.ClassC:
		return &cfg.ClassC
	default:
		return nil
	}
}

// SetClassPeriodDeadline implements `set <class> <period|auto> [deadline|auto]`.
// periodAuto/deadlineAuto select the "auto" form for each value
// independently; deadlineMs is ignored when deadlineAuto is true.
func SetClassPeriodDeadline(cfg *config.Scheduler, class classconf.ClassID, periodMs int64, periodAuto bool, deadlineMs int64, deadlineAuto bool) error {
	cc := classConfig(cfg, class)
	if cc == nil {
		return &ErrInvalidConfig{Command: "set", Reason: "random class has no period/deadline; use rpacket/rdeadline"}
	}

	if periodAuto {
		periodMs = AutoPeriod()
	}
	periodMs = scheduler.ClampInt64(periodMs, scheduler.MinPeriodMs, scheduler.MaxPeriodMs)

	if deadlineAuto {
		deadlineMs = AutoDeadline(periodMs)
	}
	deadlineMs = scheduler.ClampInt64(deadlineMs,
		int64(float64(periodMs)*scheduler.MinDeadlineFactor),
		int64(float64(periodMs)*scheduler.MaxDeadlineFactor))

	cc.PeriodMs = periodMs
	cc.DeadlineMs = deadlineMs
	return nil
}

// SetClassType implements `type <class> <datatype>`.
func SetClassType(cfg *config.Scheduler, class classconf.ClassID, datatype string) error {
	dt, ok := classconf.ParseDataType(datatype)
	if !ok {
		return &ErrInvalidConfig{Command: "type", Reason: fmt.Sprintf("unknown data type %q", datatype)}
	}
	if class == classconf.ClassRandom {
		cfg.Random.DataType = dt.String()
		return nil
	}
	cc := classConfig(cfg, class)
	if cc == nil {
		return &ErrInvalidConfig{Command: "type", Reason: "unknown class"}
	}
	cc.DataType = dt.String()
	return nil
}

// SetClassCount implements `count <class> <n>`, clamping to
// [MinPacketCount, MaxPacketCount] rather than rejecting.
func SetClassCount(cfg *config.Scheduler, class classconf.ClassID, n int) error {
	n = scheduler.ClampInt(n, scheduler.MinPacketCount, scheduler.MaxPacketCount)
	if class == classconf.ClassRandom {
		cfg.Random.Count = n
		return nil
	}
	cc := classConfig(cfg, class)
	if cc == nil {
		return &ErrInvalidConfig{Command: "count", Reason: "unknown class"}
	}
	cc.Count = n
	return nil
}

// SetThreshold implements `threshold <ms>`.
func SetThreshold(cfg *config.Scheduler, ms int64) {
	cfg.ThresholdMs = scheduler.ClampInt64(ms, scheduler.MinThresholdMs, scheduler.MaxThresholdMs)
}

// SetRandomEnabled implements the on/off half of `rpacket`.
func SetRandomEnabled(cfg *config.Scheduler, enabled bool) {
	cfg.Random.Enabled = enabled
}

// SetRandomInterval implements the interval half of `rpacket`, coercing
// an inverted range exactly as producer.RandomConfig.Validate does.
func SetRandomInterval(cfg *config.Scheduler, minMs, maxMs int64) {
	if minMs >= maxMs {
		maxMs = minMs + 1000
	}
	cfg.Random.MinIntervalMs = minMs
	cfg.Random.MaxIntervalMs = maxMs
}

// SetRandomType implements `rtype <datatype>`.
func SetRandomType(cfg *config.Scheduler, datatype string) error {
	dt, ok := classconf.ParseDataType(datatype)
	if !ok {
		return &ErrInvalidConfig{Command: "rtype", Reason: fmt.Sprintf("unknown data type %q", datatype)}
	}
	cfg.Random.DataType = dt.String()
	return nil
}

// SetRandomSize implements `rsize <n>`.
func SetRandomSize(cfg *config.Scheduler, n int) {
	cfg.Random.Count = scheduler.ClampInt(n, scheduler.MinPacketCount, scheduler.MaxPacketCount)
}

// SetRandomDeadline implements `rdeadline <ms>`.
func SetRandomDeadline(cfg *config.Scheduler, ms int64) {
	cfg.Random.DeadlineMs = scheduler.ClampInt64(ms, scheduler.MinThresholdMs, scheduler.MaxPeriodMs)
}

// SetRandomBurst implements `rburst on|off <period> <interval>`.
func SetRandomBurst(cfg *config.Scheduler, enabled bool, periodMs, intervalMs int64) {
	cfg.Random.BurstEnabled = enabled
	if periodMs > 0 {
		cfg.Random.BurstPeriodMs = periodMs
	}
	if intervalMs > 0 {
		cfg.Random.BurstIntervalMs = intervalMs
	}
}

// SetTxPowerLevel implements `txpower <v>`: a manual override level
// recorded for `status`; the autotx loop is the normal source of the
// applied level.
func SetTxPowerLevel(cfg *config.Scheduler, level int) error {
	if level < 0 || level > 3 {
		return &ErrInvalidConfig{Command: "txpower", Reason: "level must be 0..3"}
	}
	cfg.TxPower.ManualLevel = level
	return nil
}

// SetPSMode implements `psmode none|min|max`.
func SetPSMode(cfg *config.Scheduler, mode string) error {
	switch mode {
	case "none", "min", "max":
		cfg.TxPower.PSMode = mode
		return nil
	default:
		return &ErrInvalidConfig{Command: "psmode", Reason: fmt.Sprintf("unknown mode %q", mode)}
	}
}

// SetProtocol implements `protocol b|bg|g|bgn|gn`.
func SetProtocol(cfg *config.Scheduler, proto string) error {
	switch proto {
	case "b", "bg", "g", "bgn", "gn":
		cfg.TxPower.Protocol = proto
		return nil
	default:
		return &ErrInvalidConfig{Command: "protocol", Reason: fmt.Sprintf("unknown protocol %q", proto)}
	}
}

// SetAutoTx implements `autotx on|off`.
func SetAutoTx(cfg *config.Scheduler, enabled bool) {
	cfg.TxPower.AutoEnabled = enabled
}

// SetAutoTxInterval implements `autotx-interval <ms>`.
func SetAutoTxInterval(cfg *config.Scheduler, ms int64) {
	cfg.TxPower.IntervalMs = scheduler.ClampInt64(ms, 100, 60_000)
}

// Randomize implements the standalone `random` command: it assigns a
// fresh random period/deadline/type/count to classes A, B and C and a
// fresh random threshold, matching cmd_random in terminal_cmd.c (which
// randomizes the periodic classes, not the aperiodic Random class
// despite the name collision).
func Randomize(cfg *config.Scheduler) {
	types := []classconf.DataType{
		classconf.DataTypeI8, classconf.DataTypeI16, classconf.DataTypeI32,
		classconf.DataTypeF32, classconf.DataTypeF64,
	}
	for _, class := range []classconf.ClassID{classconf.ClassA, classconf.ClassB, classconf.ClassC} {
		cc := classConfig(cfg, class)
		period := AutoPeriod()
		cc.PeriodMs = period
		cc.DeadlineMs = AutoDeadline(period)
		cc.DataType = types[rand.Intn(len(types))].String()
		cc.Count = scheduler.MinPacketCount + rand.Intn(scheduler.MaxPacketCount-scheduler.MinPacketCount+1)
	}
	cfg.ThresholdMs = scheduler.MinThresholdMs + rand.Int63n(scheduler.MaxThresholdMs-scheduler.MinThresholdMs+1)
}

// Reset implements the `reset` command: restore the compiled-in defaults
// for every class, the random producer and the TX-power controller.
func Reset(cfg *config.Scheduler) {
	defaults := config.Default()
	*cfg = *defaults
}
