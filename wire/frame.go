// Package wire implements the on-air frame format: a fixed 802.11-style
// MAC header, an application header describing per-class element counts
// and types, and the concatenated per-class payload runs. Build and parse
// share this single codec so both transmit and receive endpoints agree on
// layout, parameterized by direction and address, rather than
// duplicating it across separate AP/station build and parse paths.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ystepanoff/pktsched/classconf"
)

// MacAddr is a 6-byte hardware address.
type MacAddr [6]byte

// Broadcast is the all-ones MAC address.
var Broadcast = MacAddr{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// String renders a as colon-separated hex, e.g. "02:00:00:00:00:01".
func (a MacAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// ParseMacAddr parses a colon-separated hex MAC address, as accepted by
// the addressing section of a scheduler config file.
func ParseMacAddr(s string) (MacAddr, error) {
	var a MacAddr
	n, err := fmt.Sscanf(s, "%x:%x:%x:%x:%x:%x", &a[0], &a[1], &a[2], &a[3], &a[4], &a[5])
	if err != nil || n != 6 {
		return MacAddr{}, fmt.Errorf("wire: invalid MAC address %q", s)
	}
	return a, nil
}

// Direction distinguishes uplink (station->AP) from downlink (AP->station)
// frames via the 802.11 ToDS/FromDS flag pair.
type Direction uint8

const (
	// DirectionUplink sets ToDS=1, FromDS=0: station transmitting to the AP.
	DirectionUplink Direction = iota
	// DirectionDownlink sets ToDS=0, FromDS=1: AP transmitting to a station.
	DirectionDownlink
)

const (
	flagToDS   = 0x01
	flagFromDS = 0x02

	frameTypeData = 0x08

	macHdrSize = 24

	countFieldSize = 2 // uint16 per class
	typeFieldSize  = 1 // uint8 per class

	totalSizeFieldSize = 2 // uint16
	timestampFieldSize = 4 // uint32

	// MaxPacketSize is MAX_PACKET_SIZE: the largest single queued packet
	// and the largest total_size value a frame may declare.
	MaxPacketSize = 1400

	// MaxTxSize is MAX_TX_SIZE: the largest payload a single frame may carry.
	MaxTxSize = 1400
)

// AppHdrSize is the size of the application header: per-class counts,
// per-class type tags, total payload size, and transmit timestamp.
var AppHdrSize = classconf.NumClasses*(countFieldSize+typeFieldSize) + totalSizeFieldSize + timestampFieldSize

// Errors returned by ParseFrame. A declared total_size that does not
// match the sum of per-class runs is not an error: it is signalled via
// ParsedFrame.Truncated so the caller can continue decoding what is
// available.
var (
	ErrTooShort          = errors.New("wire: frame shorter than header")
	ErrWrongFrameType    = errors.New("wire: not a data frame or wrong direction")
	ErrNotForUs          = errors.New("wire: destination does not match station or broadcast")
	ErrInvalidTypeTag    = errors.New("wire: type tag exceeds known data types")
	ErrTotalSizeTooLarge = errors.New("wire: total_size exceeds MAX_PACKET_SIZE")
)

// BuildFrame assembles one on-air frame from per-class counts/types and a
// pre-packed payload (concatenated class runs, already in ascending class
// order). total_size must equal len(payload) and must not exceed MaxTxSize;
// callers (the batcher) are responsible for enforcing the packing limit.
func BuildFrame(
	payload []byte,
	counts [classconf.NumClasses]int,
	types [classconf.NumClasses]classconf.DataType,
	timestampMs int64,
	dst, src, bssid MacAddr,
	dir Direction,
) []byte {
	totalSize := len(payload)

	buf := make([]byte, macHdrSize+AppHdrSize+totalSize)

	buf[0] = frameTypeData
	switch dir {
	case DirectionUplink:
		buf[1] = flagToDS
	case DirectionDownlink:
		buf[1] = flagFromDS
	}
	copy(buf[4:10], dst[:])
	copy(buf[10:16], src[:])
	copy(buf[16:22], bssid[:])

	off := macHdrSize
	for c := 0; c < classconf.NumClasses; c++ {
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(counts[c]))
		off += countFieldSize
	}
	for c := 0; c < classconf.NumClasses; c++ {
		buf[off] = byte(types[c])
		off += typeFieldSize
	}
	binary.LittleEndian.PutUint16(buf[off:off+2], uint16(totalSize))
	off += totalSizeFieldSize
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(timestampMs))
	off += timestampFieldSize

	copy(buf[off:], payload)

	return buf
}

// ParsedFrame is the information reported to the dispatcher on a
// successful parse.
type ParsedFrame struct {
	Counts      [classconf.NumClasses]int
	Types       [classconf.NumClasses]classconf.DataType
	Payload     []byte
	TimestampMs int64
	// Truncated is set when the declared total_size did not match the
	// sum of per-class runs; decoding continues on the available bytes.
	Truncated bool
}

// ParseFrame validates and decodes a raw frame received from the radio.
// wantDirection is the direction this endpoint expects to receive
// (a station expects DirectionDownlink frames from its AP, and vice
// versa). self is this station's MAC address; frames addressed to
// Broadcast are also accepted.
func ParseFrame(data []byte, self MacAddr, wantDirection Direction) (*ParsedFrame, error) {
	if len(data) < macHdrSize+AppHdrSize {
		return nil, ErrTooShort
	}

	if data[0] != frameTypeData {
		return nil, ErrWrongFrameType
	}
	switch wantDirection {
	case DirectionUplink:
		if data[1]&flagToDS == 0 || data[1]&flagFromDS != 0 {
			return nil, ErrWrongFrameType
		}
	case DirectionDownlink:
		if data[1]&flagFromDS == 0 || data[1]&flagToDS != 0 {
			return nil, ErrWrongFrameType
		}
	}

	var dst MacAddr
	copy(dst[:], data[4:10])
	if dst != self && dst != Broadcast {
		return nil, ErrNotForUs
	}

	off := macHdrSize
	var counts [classconf.NumClasses]int
	for c := 0; c < classconf.NumClasses; c++ {
		counts[c] = int(binary.LittleEndian.Uint16(data[off : off+2]))
		off += countFieldSize
	}
	var types [classconf.NumClasses]classconf.DataType
	for c := 0; c < classconf.NumClasses; c++ {
		t := classconf.DataType(data[off])
		if t > classconf.DataTypeMax {
			return nil, ErrInvalidTypeTag
		}
		types[c] = t
		off += typeFieldSize
	}
	totalSize := int(binary.LittleEndian.Uint16(data[off : off+2]))
	off += totalSizeFieldSize
	if totalSize > MaxPacketSize {
		return nil, ErrTotalSizeTooLarge
	}
	timestampMs := int64(binary.LittleEndian.Uint32(data[off : off+4]))
	off += timestampFieldSize

	expected := 0
	for c := 0; c < classconf.NumClasses; c++ {
		expected += counts[c] * classconf.Width(types[c])
	}

	truncated := expected != totalSize

	available := len(data) - off
	payloadLen := expected
	if payloadLen > available {
		payloadLen = available
		truncated = true
	}
	if payloadLen < 0 {
		payloadLen = 0
	}

	payload := make([]byte, payloadLen)
	copy(payload, data[off:off+payloadLen])

	return &ParsedFrame{
		Counts:      counts,
		Types:       types,
		Payload:     payload,
		TimestampMs: timestampMs,
		Truncated:   truncated,
	}, nil
}
