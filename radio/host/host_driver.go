// Package host provides an in-memory radio.Driver for development and
// testing, with no hardware dependency: transmissions are recorded for
// assertions, RSSI is settable by the test, and received frames are
// injected directly.
package host

import (
	"errors"
	"sync"

	"github.com/ystepanoff/pktsched/radio"
)

// ErrNoRSSI is returned by QueryRSSI when no reading has been set.
var ErrNoRSSI = errors.New("host: no rssi reading available")

// Driver is a radio.Driver backed by plain Go slices, suitable for unit
// tests and host-mode example binaries.
type Driver struct {
	mu sync.Mutex

	txLog [][]byte
	cb    func(frame []byte)

	rssi     int8
	haveRSSI bool

	power       radio.Level
	powerWrites int
	sendErr     error
}

// New returns an empty host driver.
func New() *Driver {
	return &Driver{}
}

func (d *Driver) Send(frame []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sendErr != nil {
		return d.sendErr
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	d.txLog = append(d.txLog, cp)
	return nil
}

func (d *Driver) QueryRSSI() (int8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.haveRSSI {
		return 0, ErrNoRSSI
	}
	return d.rssi, nil
}

func (d *Driver) SetPower(level radio.Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.power = level
	d.powerWrites++
	return nil
}

func (d *Driver) OnReceive(cb func(frame []byte)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cb = cb
}

// SetRSSI sets the value the next QueryRSSI call will return.
func (d *Driver) SetRSSI(v int8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rssi = v
	d.haveRSSI = true
}

// ClearRSSI makes QueryRSSI return ErrNoRSSI again.
func (d *Driver) ClearRSSI() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.haveRSSI = false
}

// SetSendError makes every subsequent Send fail with err (nil to clear),
// for exercising the TransmitFailure path.
func (d *Driver) SetSendError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sendErr = err
}

// InjectReceive delivers data to the registered OnReceive callback, as if
// it had just arrived over the air.
func (d *Driver) InjectReceive(data []byte) {
	d.mu.Lock()
	cb := d.cb
	d.mu.Unlock()
	if cb != nil {
		cb(data)
	}
}

// TxLog returns a copy of every frame handed to Send so far.
func (d *Driver) TxLog() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.txLog))
	for i, f := range d.txLog {
		cp := make([]byte, len(f))
		copy(cp, f)
		out[i] = cp
	}
	return out
}

// ClearTxLog empties the recorded transmission log.
func (d *Driver) ClearTxLog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.txLog = d.txLog[:0]
}

// CurrentPower returns the most recently applied power level and how many
// times SetPower has been called, whether or not the level changed.
func (d *Driver) CurrentPower() (radio.Level, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.power, d.powerWrites
}
