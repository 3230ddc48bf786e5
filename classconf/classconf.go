// Package classconf defines the traffic class enumeration and the typed
// sample data types carried by the scheduler. The ordinal order of ClassID
// is semantically meaningful: it fixes packing order in every emitted frame.
package classconf

import (
	"fmt"
	"strings"
)

// ClassID enumerates the traffic classes, in fixed ordinal order.
// Classes A, B and C are periodic; Random is the aperiodic burst class.
type ClassID uint8

const (
	ClassA ClassID = iota
	ClassB
	ClassC
	ClassRandom

	NumClasses = int(ClassRandom) + 1
)

func (c ClassID) String() string {
	switch c {
	case ClassA:
		return "A"
	case ClassB:
		return "B"
	case ClassC:
		return "C"
	case ClassRandom:
		return "random"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// ParseClassID accepts the one-letter class names used by the control
// surface ("A", "B", "C") and "random", case-insensitively.
func ParseClassID(s string) (ClassID, bool) {
	switch strings.ToLower(s) {
	case "a":
		return ClassA, true
	case "b":
		return ClassB, true
	case "c":
		return ClassC, true
	case "random", "r":
		return ClassRandom, true
	default:
		return 0, false
	}
}

// DataType tags the fixed-width element type of a class's samples.
type DataType uint8

const (
	DataTypeI8 DataType = iota
	DataTypeI16
	DataTypeI32
	DataTypeF32
	DataTypeF64

	// DataTypeMax is the highest valid ordinal, used by the frame parser
	// to reject type tags outside the known range.
	DataTypeMax = DataTypeF64
)

var widths = [...]int{
	DataTypeI8:  1,
	DataTypeI16: 2,
	DataTypeI32: 4,
	DataTypeF32: 4,
	DataTypeF64: 8,
}

// Width returns the on-wire byte width of a single element of type t.
// Width is the single source of truth for per-element size; adding a new
// data type is a one-line change to this table.
func Width(t DataType) int {
	if int(t) >= len(widths) {
		return 0
	}
	return widths[t]
}

func (t DataType) String() string {
	switch t {
	case DataTypeI8:
		return "i8"
	case DataTypeI16:
		return "i16"
	case DataTypeI32:
		return "i32"
	case DataTypeF32:
		return "f32"
	case DataTypeF64:
		return "f64"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Valid reports whether t is a known data type ordinal.
func (t DataType) Valid() bool {
	return t <= DataTypeMax
}

// ParseDataType accepts both the wire-short spellings (i8, i16, i32, f32,
// f64) and the firmware terminal's longer spellings (int8, int16, int32,
// float, double), case-insensitively, matching cmd_type/cmd_random_packet_type
// in terminal_cmd.c.
func ParseDataType(s string) (DataType, bool) {
	switch strings.ToLower(s) {
	case "i8", "int8":
		return DataTypeI8, true
	case "i16", "int16":
		return DataTypeI16, true
	case "i32", "int32":
		return DataTypeI32, true
	case "f32", "float":
		return DataTypeF32, true
	case "f64", "double":
		return DataTypeF64, true
	default:
		return 0, false
	}
}

// Config holds the per-class configuration mutated by the control surface.
type Config struct {
	DataType      DataType
	PeriodMs      int64 // 0 for the random class, which has no period
	RelDeadlineMs int64
	TargetCount   int // element count per production event
}
