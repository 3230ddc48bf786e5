// Package producer implements the periodic typed-class producer and the
// aperiodic "random" burst producer.
package producer

import (
	"encoding/binary"
	"math"

	"github.com/ystepanoff/pktsched/classconf"
)

// synthesize builds a test sample array of count elements of type dt,
// using a counter-derived fill pattern rather than random noise so that
// receive-side decoding can be sanity-checked by inspection. Grounded on
// the original ESP32 packet_generator.c's deterministic test pattern.
// base is advanced by count for the caller's next production event.
func synthesize(dt classconf.DataType, count int, base *uint32) []byte {
	width := classconf.Width(dt)
	out := make([]byte, count*width)

	for i := 0; i < count; i++ {
		v := *base + uint32(i)
		off := i * width
		switch dt {
		case classconf.DataTypeI8:
			out[off] = byte(v)
		case classconf.DataTypeI16:
			binary.LittleEndian.PutUint16(out[off:off+2], uint16(v))
		case classconf.DataTypeI32:
			binary.LittleEndian.PutUint32(out[off:off+4], v)
		case classconf.DataTypeF32:
			binary.LittleEndian.PutUint32(out[off:off+4], math.Float32bits(float32(v)))
		case classconf.DataTypeF64:
			binary.LittleEndian.PutUint64(out[off:off+8], math.Float64bits(float64(v)))
		}
	}

	*base += uint32(count)
	return out
}
