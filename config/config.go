// Package config loads and persists the scheduler's control-surface
// state as a YAML file, grounded on
// lkumar3-iitr-Sensor-Logger/utils/config_loader.go's LoadXConfig
// pattern. Unlike the embedded firmware's UART terminal, which mutates a
// single live in-memory scheduler_config_t, the control-surface
// subcommands here are separate OS processes; they read-modify-write
// this file, and `pktschedctl start` loads it once at boot.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ystepanoff/pktsched/txpower"
)

// ClassConfig is one periodic class's (A, B or C) control-surface state.
type ClassConfig struct {
	DataType   string `yaml:"data_type"`
	PeriodMs   int64  `yaml:"period_ms"`
	DeadlineMs int64  `yaml:"deadline_ms"`
	Count      int    `yaml:"count"`
}

// RandomConfig is the aperiodic random class's control-surface state,
// covering both rpacket's enable/interval knobs and rtype/rsize/rdeadline/
// rburst.
type RandomConfig struct {
	Enabled         bool   `yaml:"enabled"`
	DataType        string `yaml:"data_type"`
	Count           int    `yaml:"count"`
	DeadlineMs      int64  `yaml:"deadline_ms"`
	MinIntervalMs   int64  `yaml:"min_interval_ms"`
	MaxIntervalMs   int64  `yaml:"max_interval_ms"`
	BurstEnabled    bool   `yaml:"burst_enabled"`
	BurstPeriodMs   int64  `yaml:"burst_period_ms"`
	BurstIntervalMs int64  `yaml:"burst_interval_ms"`
}

// TxPowerConfig covers the txpower/psmode/protocol/autotx/autotx-interval
// commands. PSMode and Protocol are accepted and echoed back by `status`
// but, since radio bring-up/association is an external collaborator, do
// not feed any component built here; they are carried only as
// configuration surface.
type TxPowerConfig struct {
	AutoEnabled bool   `yaml:"auto_enabled"`
	IntervalMs  int64  `yaml:"interval_ms"`
	ManualLevel int    `yaml:"manual_level"`
	PSMode      string `yaml:"ps_mode"`
	Protocol    string `yaml:"protocol"`
}

// AddressingConfig fixes the MAC identity used to build and accept
// frames (wire.MacAddr triples, hex-encoded).
type AddressingConfig struct {
	// Role is "station" (uplink, ToDS) or "ap" (downlink, FromDS).
	Role  string `yaml:"role"`
	Self  string `yaml:"self"`
	Peer  string `yaml:"peer"`
	BSSID string `yaml:"bssid"`
}

// LogConfig configures internal/logx.Init.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Scheduler is the full persisted control-surface state: one YAML file
// captures everything the control surface's commands can mutate.
type Scheduler struct {
	ThresholdMs int64            `yaml:"threshold_ms"`
	ClassA      ClassConfig      `yaml:"class_a"`
	ClassB      ClassConfig      `yaml:"class_b"`
	ClassC      ClassConfig      `yaml:"class_c"`
	Random      RandomConfig     `yaml:"random"`
	TxPower     TxPowerConfig    `yaml:"tx_power"`
	Addressing  AddressingConfig `yaml:"addressing"`
	Log         LogConfig        `yaml:"log"`
}

// Default returns the firmware's compiled-in reset defaults (terminal_cmd.h's
// DEFAULT_CLASS1_PERIOD..DEFAULT_CLASS3_COUNT). The class A, B and C values
// match scheduler.Context's ResetDefaults; the threshold here is 1000ms,
// where ResetDefaults sets 0.
func Default() *Scheduler {
	return &Scheduler{
		ThresholdMs: 1000,
		ClassA:      ClassConfig{DataType: "i32", PeriodMs: 3000, DeadlineMs: 3000, Count: 5},
		ClassB:      ClassConfig{DataType: "f32", PeriodMs: 5000, DeadlineMs: 5000, Count: 4},
		ClassC:      ClassConfig{DataType: "i16", PeriodMs: 6000, DeadlineMs: 6000, Count: 6},
		Random: RandomConfig{
			Enabled:         false,
			DataType:        "i32",
			Count:           10,
			DeadlineMs:      1000,
			MinIntervalMs:   500,
			MaxIntervalMs:   3000,
			BurstEnabled:    true,
			BurstPeriodMs:   10000,
			BurstIntervalMs: 50,
		},
		TxPower: TxPowerConfig{
			AutoEnabled: true,
			IntervalMs:  txpower.DefaultPollIntervalMs,
			PSMode:      "none",
			Protocol:    "bgn",
		},
		Addressing: AddressingConfig{
			Role:  "station",
			Self:  "02:00:00:00:00:01",
			Peer:  "02:00:00:00:00:02",
			BSSID: "02:00:00:00:00:02",
		},
		Log: LogConfig{Level: "info", File: ""},
	}
}

// Load reads and parses path. If the file does not exist, it returns the
// compiled-in defaults (so a first `set`/`reset` invocation on a fresh
// machine has something sane to mutate) with no error.
func Load(path string) (*Scheduler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Scheduler) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
