//go:build tinygo || baremetal

// Package nrf backs radio.Driver with the real nRF52 RADIO peripheral,
// for embedded builds. The register-toggling sequences here cannot run
// under the host toolchain (they need device/nrf, which only resolves
// under TinyGo); the value mappings they depend on live in levels.go
// instead, so those stay covered by the host test suite.
package nrf

import (
	"errors"
	"time"
	"unsafe"

	"device/nrf"

	"github.com/ystepanoff/pktsched/radio"
	"github.com/ystepanoff/pktsched/wire"
)

var errNoRSSISample = errors.New("nrf: no RSSI sample taken yet")

// Driver provides a radio.Driver backed by nRF peripheral registers.
type Driver struct {
	buffer   [wire.MaxTxSize]byte
	cb       func([]byte)
	lastRSSI int8
	haveRSSI bool
}

// New returns a driver ready for Configure/StartHFCLK by the caller.
func New() *Driver {
	return &Driver{}
}

// StartHFCLK starts the high-frequency clock required by the radio.
func StartHFCLK() {
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
	for nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() == 0 {
	}
}

// Configure sets up mode, default power, and addressing for a channel.
func (d *Driver) Configure(address uint32, prefix byte, channel uint8) error {
	if err := validateChannel(channel); err != nil {
		return err
	}

	nrf.RADIO.POWER.Set(1)
	nrf.RADIO.MODE.Set(nrf.RADIO_MODE_MODE_Nrf_1Mbit)
	nrf.RADIO.TXPOWER.Set(txPowerRegister(radio.PowerHigh))
	nrf.RADIO.FREQUENCY.Set(uint32(channel))

	nrf.RADIO.BASE0.Set(address)
	nrf.RADIO.PREFIX0.Set(uint32(prefix))
	nrf.RADIO.TXADDRESS.Set(0)
	nrf.RADIO.RXADDRESSES.Set(1)

	nrf.RADIO.PCNF0.Set(
		(8 << nrf.RADIO_PCNF0_LFLEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S0LEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S1LEN_Pos))

	nrf.RADIO.PCNF1.Set(
		(uint32(len(d.buffer)) << nrf.RADIO_PCNF1_MAXLEN_Pos) |
			(0 << nrf.RADIO_PCNF1_STATLEN_Pos) |
			(3 << nrf.RADIO_PCNF1_BALEN_Pos) |
			(nrf.RADIO_PCNF1_ENDIAN_Little << nrf.RADIO_PCNF1_ENDIAN_Pos))

	nrf.RADIO.CRCCNF.Set(1)
	nrf.RADIO.CRCINIT.Set(0xFF)
	nrf.RADIO.CRCPOLY.Set(0x107)

	return nil
}

func (d *Driver) Send(frame []byte) error {
	copy(d.buffer[:], frame)
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&d.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_TXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)
	for nrf.RADIO.EVENTS_END.Get() == 0 {
	}
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}
	return nil
}

func (d *Driver) QueryRSSI() (int8, error) {
	if !d.haveRSSI {
		return 0, errNoRSSISample
	}
	return d.lastRSSI, nil
}

func (d *Driver) SetPower(level radio.Level) error {
	nrf.RADIO.TXPOWER.Set(txPowerRegister(level))
	return nil
}

func (d *Driver) OnReceive(cb func([]byte)) {
	d.cb = cb
}

// Poll performs one blocking receive attempt with the given timeout and,
// on success, invokes the registered callback with the decoded payload.
// Embedded main loops call this repeatedly; there is no interrupt-driven
// receive path here. PCNF0.LFLEN=8 makes the hardware write the packet
// length as the buffer's first byte, so that byte trims the frame before
// it reaches the callback.
func (d *Driver) Poll(timeout time.Duration) {
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&d.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_RXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)

	start := time.Now()
	for nrf.RADIO.EVENTS_END.Get() == 0 {
		if time.Since(start) > timeout {
			nrf.RADIO.TASKS_DISABLE.Set(1)
			for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
			}
			return
		}
	}
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}

	d.lastRSSI = int8(-nrf.RADIO.RSSISAMPLE.Get())
	d.haveRSSI = true

	if d.cb == nil {
		return
	}
	pktLen := int(d.buffer[0]) + 1
	if pktLen > len(d.buffer) {
		pktLen = len(d.buffer)
	}
	out := make([]byte, pktLen)
	copy(out, d.buffer[:pktLen])
	d.cb(out)
}
