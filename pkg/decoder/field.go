// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package decoder

import "fmt"

// RawKind selects how a field's bytes are read and how many bytes it occupies.
type RawKind int

const (
	rawInvalid RawKind = iota
	// RawBytes is a fixed-length byte string of FieldSpec.Size bytes.
	RawBytes
	RawUint8
	RawUint16
	RawUint32
	RawUint64
	RawInt8
	RawInt16
	RawInt32
	RawInt64
)

var rawKindNames = map[RawKind]string{
	RawBytes:  "bytes",
	RawUint8:  "uint8",
	RawUint16: "uint16",
	RawUint32: "uint32",
	RawUint64: "uint64",
	RawInt8:   "int8",
	RawInt16:  "int16",
	RawInt32:  "int32",
	RawInt64:  "int64",
}

// String returns the kind name.
func (k RawKind) String() string {
	if n, ok := rawKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("RawKind(%d)", int(k))
}

// integer reports whether the kind decodes to an integer.
func (k RawKind) integer() bool {
	return k >= RawUint8 && k <= RawInt64
}

// signed reports whether the kind decodes to a signed integer.
func (k RawKind) signed() bool {
	return k >= RawInt8 && k <= RawInt64
}

// width returns the byte width of the kind; size is used for RawBytes only.
func (k RawKind) width(size int) int {
	switch k {
	case RawBytes:
		return size
	case RawUint8, RawInt8:
		return 1
	case RawUint16, RawInt16:
		return 2
	case RawUint32, RawInt32:
		return 4
	case RawUint64, RawInt64:
		return 8
	default:
		return 0
	}
}

// OutputKind selects the conversion applied after the raw decode.
type OutputKind int

const (
	// OutputNone consumes the field without adding it to the record.
	OutputNone OutputKind = iota
	// OutputInt keeps the integer as is.
	OutputInt
	// OutputTimestamp interprets the integer as ticks since the Unix epoch.
	OutputTimestamp
	// OutputByteCount keeps the integer as a diagnostic byte or packet count.
	OutputByteCount
	// OutputScaled multiplies the integer by FieldSpec.Scale.
	OutputScaled
	// OutputString decodes bytes as text with trailing NULs removed.
	OutputString
	// OutputRaw keeps the bytes as is.
	OutputRaw
)

var outputKindNames = map[OutputKind]string{
	OutputNone:      "none",
	OutputInt:       "int",
	OutputTimestamp: "timestamp",
	OutputByteCount: "bytecount",
	OutputScaled:    "scaled",
	OutputString:    "string",
	OutputRaw:       "raw",
}

// String returns the kind name.
func (k OutputKind) String() string {
	if n, ok := outputKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("OutputKind(%d)", int(k))
}

// accepts reports whether the output conversion can consume raw kind r.
func (k OutputKind) accepts(r RawKind) bool {
	switch k {
	case OutputNone:
		return true
	case OutputInt, OutputTimestamp, OutputByteCount, OutputScaled:
		return r.integer()
	case OutputString, OutputRaw:
		return r == RawBytes
	default:
		return false
	}
}

// FieldSpec describes one field of a fixed binary layout.
type FieldSpec struct {
	// Name is the record key; it must be unique within a layout.
	Name string
	// Raw fixes the width and the raw decoding.
	Raw RawKind
	// Output selects the conversion; OutputNone drops the field from the record.
	Output OutputKind
	// Size is the byte length of a RawBytes field.
	Size int
	// Scale is the multiplier for OutputScaled.
	Scale float64
}

// Width returns the number of bytes the field occupies.
func (f FieldSpec) Width() int {
	return f.Raw.width(f.Size)
}
