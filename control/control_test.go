package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/pktsched/classconf"
	"github.com/ystepanoff/pktsched/config"
	"github.com/ystepanoff/pktsched/scheduler"
)

func TestSetClassPeriodDeadlineClampsOutOfRange(t *testing.T) {
	cfg := config.Default()

	err := SetClassPeriodDeadline(cfg, classconf.ClassA, 999_999, false, 1, false)
	require.NoError(t, err)

	assert.Equal(t, int64(scheduler.MaxPeriodMs), cfg.ClassA.PeriodMs)
	assert.Equal(t, int64(float64(scheduler.MaxPeriodMs)*scheduler.MinDeadlineFactor), cfg.ClassA.DeadlineMs)
}

func TestSetClassPeriodDeadlineRejectsRandomClass(t *testing.T) {
	cfg := config.Default()

	err := SetClassPeriodDeadline(cfg, classconf.ClassRandom, 2000, false, 2000, false)
	assert.Error(t, err)
	var invalid *ErrInvalidConfig
	assert.ErrorAs(t, err, &invalid)
}

func TestSetClassPeriodDeadlineAutoStaysInFactorRange(t *testing.T) {
	cfg := config.Default()

	for i := 0; i < 20; i++ {
		err := SetClassPeriodDeadline(cfg, classconf.ClassB, 0, true, 0, true)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, cfg.ClassB.PeriodMs, int64(scheduler.MinPeriodMs))
		assert.LessOrEqual(t, cfg.ClassB.PeriodMs, int64(scheduler.MaxPeriodMs))

		lo := int64(float64(cfg.ClassB.PeriodMs) * scheduler.MinDeadlineFactor)
		hi := int64(float64(cfg.ClassB.PeriodMs) * scheduler.MaxDeadlineFactor)
		assert.GreaterOrEqual(t, cfg.ClassB.DeadlineMs, lo)
		assert.LessOrEqual(t, cfg.ClassB.DeadlineMs, hi)
	}
}

func TestSetClassTypeRejectsUnknownDataType(t *testing.T) {
	cfg := config.Default()
	err := SetClassType(cfg, classconf.ClassA, "int128")
	assert.Error(t, err)
}

func TestSetClassTypeAcceptsAliases(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, SetClassType(cfg, classconf.ClassC, "double"))
	assert.Equal(t, "f64", cfg.ClassC.DataType)
}

func TestSetClassCountClamped(t *testing.T) {
	cfg := config.Default()
	SetClassCount(cfg, classconf.ClassA, scheduler.MaxPacketCount+50)
	assert.Equal(t, scheduler.MaxPacketCount, cfg.ClassA.Count)

	SetClassCount(cfg, classconf.ClassRandom, 0)
	assert.Equal(t, scheduler.MinPacketCount, cfg.Random.Count)
}

func TestSetThresholdClamped(t *testing.T) {
	cfg := config.Default()
	SetThreshold(cfg, -5)
	assert.Equal(t, int64(scheduler.MinThresholdMs), cfg.ThresholdMs)

	SetThreshold(cfg, scheduler.MaxThresholdMs*10)
	assert.Equal(t, int64(scheduler.MaxThresholdMs), cfg.ThresholdMs)
}

func TestSetRandomIntervalFixesInvertedBounds(t *testing.T) {
	cfg := config.Default()
	SetRandomInterval(cfg, 2000, 1000)
	assert.Less(t, cfg.Random.MinIntervalMs, cfg.Random.MaxIntervalMs)
}

func TestSetTxPowerLevelRejectsOutOfRange(t *testing.T) {
	cfg := config.Default()
	assert.Error(t, SetTxPowerLevel(cfg, 4))
	require.NoError(t, SetTxPowerLevel(cfg, 2))
	assert.Equal(t, 2, cfg.TxPower.ManualLevel)
}

func TestSetPSModeRejectsUnknown(t *testing.T) {
	cfg := config.Default()
	assert.Error(t, SetPSMode(cfg, "turbo"))
	require.NoError(t, SetPSMode(cfg, "min"))
	assert.Equal(t, "min", cfg.TxPower.PSMode)
}

func TestRandomizeKeepsPeriodicClassesInBounds(t *testing.T) {
	cfg := config.Default()
	Randomize(cfg)

	for _, cc := range []config.ClassConfig{cfg.ClassA, cfg.ClassB, cfg.ClassC} {
		assert.GreaterOrEqual(t, cc.PeriodMs, int64(scheduler.MinPeriodMs))
		assert.LessOrEqual(t, cc.PeriodMs, int64(scheduler.MaxPeriodMs))
		assert.GreaterOrEqual(t, cc.Count, scheduler.MinPacketCount)
		assert.LessOrEqual(t, cc.Count, scheduler.MaxPacketCount)
	}
	assert.GreaterOrEqual(t, cfg.ThresholdMs, int64(scheduler.MinThresholdMs))
	assert.LessOrEqual(t, cfg.ThresholdMs, int64(scheduler.MaxThresholdMs))
}

func TestResetRestoresDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.ThresholdMs = 4321
	cfg.ClassA.PeriodMs = 9999
	cfg.Random.Enabled = true

	Reset(cfg)
	assert.Equal(t, config.Default(), cfg)
}
