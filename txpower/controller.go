// Package txpower implements the adaptive transmit-power feedback loop:
// it samples the radio's RSSI and maps it to a discrete power level,
// writing to the radio only when the mapped level actually changes. It
// shares no mutable state with the scheduler's batcher — the only
// collaborator is the radio.Driver capability interface.
package txpower

import (
	"context"
	"time"

	"github.com/ystepanoff/pktsched/internal/logx"
	"github.com/ystepanoff/pktsched/radio"
)

// RSSI bucket boundaries, in dBm. A reading at or above the excellent
// threshold gets the minimum power level; progressively weaker signal
// strengths escalate the level one step at a time.
const (
	RSSIExcellentDbm = -20
	RSSIGoodDbm      = -35
	RSSIFairDbm      = -60
)

// DefaultPollIntervalMs is the controller's poll period when none is
// configured.
const DefaultPollIntervalMs = 5000

// levelFor maps an RSSI reading to the power level that should be used
// for transmissions on that link.
func levelFor(rssi int8) radio.Level {
	switch {
	case int(rssi) >= RSSIExcellentDbm:
		return radio.PowerMin
	case int(rssi) >= RSSIGoodDbm:
		return radio.PowerLow
	case int(rssi) >= RSSIFairDbm:
		return radio.PowerMedium
	default:
		return radio.PowerHigh
	}
}

// Controller owns the current applied power level and decides when a new
// RSSI sample warrants a change.
type Controller struct {
	drv        radio.Driver
	intervalMs int64
	enabled    bool

	current     radio.Level
	haveCurrent bool
}

// NewController constructs a Controller against a radio driver, polling
// at DefaultPollIntervalMs. No power level is applied until the first
// successful RSSI sample.
func NewController(drv radio.Driver) *Controller {
	return &Controller{drv: drv, intervalMs: DefaultPollIntervalMs, enabled: true}
}

// WithInterval overrides the poll period, per the control surface's
// `autotx-interval` command.
func (c *Controller) WithInterval(ms int64) *Controller {
	c.intervalMs = ms
	return c
}

// SetEnabled toggles the controller, per the control surface's `autotx`
// command. A disabled controller's Tick is a no-op.
func (c *Controller) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// Run polls RSSI every configured interval until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(c.intervalMs) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Tick samples RSSI once and applies a new power level if the mapped
// bucket differs from the one currently in effect. Exported so tests can
// drive it deterministically against a host.Driver's injected RSSI.
func (c *Controller) Tick() {
	if !c.enabled {
		return
	}

	rssi, err := c.drv.QueryRSSI()
	if err != nil {
		logx.L().Debug("txpower: no RSSI sample available: %v", err)
		return
	}

	level := levelFor(rssi)
	if c.haveCurrent && level == c.current {
		return
	}

	if err := c.drv.SetPower(level); err != nil {
		logx.L().Warn("txpower: failed to set power level %s: %v", level, err)
		return
	}

	logx.L().Info("txpower: rssi=%ddBm -> power=%s", rssi, level)
	c.current = level
	c.haveCurrent = true
}

// Current returns the last power level successfully applied, and whether
// any level has been applied yet.
func (c *Controller) Current() (radio.Level, bool) {
	return c.current, c.haveCurrent
}
