// Pure register-value mappings for the nRF52 RADIO peripheral, kept free
// of the device/nrf register package (only resolvable under the TinyGo
// compiler) so they can be exercised by the host test suite even though
// the driver that calls them cannot be.
package nrf

import (
	"errors"

	"github.com/ystepanoff/pktsched/radio"
)

var errInvalidChannel = errors.New("nrf: invalid channel (valid range: 0-125)")

// Two's-complement encodings of RADIO.TXPOWER's dBm levels, reproduced
// here rather than imported from device/nrf so txPowerRegister can be
// tested without it.
const (
	txPowerRegNeg40dBm = 0xD8
	txPowerRegNeg20dBm = 0xEC
	txPowerRegNeg4dBm  = 0xFC
	txPowerReg0dBm     = 0x00
)

func validateChannel(channel uint8) error {
	if channel > 125 {
		return errInvalidChannel
	}
	return nil
}

// txPowerRegister maps a radio.Level to the RADIO.TXPOWER register value
// that produces it, matching the four discrete levels the original
// firmware's autotx loop steps through.
func txPowerRegister(level radio.Level) uint32 {
	switch level {
	case radio.PowerMin:
		return txPowerRegNeg40dBm
	case radio.PowerLow:
		return txPowerRegNeg20dBm
	case radio.PowerMedium:
		return txPowerRegNeg4dBm
	default:
		return txPowerReg0dBm
	}
}
