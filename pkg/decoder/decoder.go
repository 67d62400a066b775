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

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bkerrors "github.com/hamma-dev/brokkr/pkg/errors"
	"github.com/hamma-dev/brokkr/pkg/measurement"
)

var (
	// ErrTruncated is returned by Decode when the buffer is shorter than the packet.
	ErrTruncated = errors.New("packet truncated")

	// ErrInvalidSpec is returned by New for a malformed field layout.
	ErrInvalidSpec = errors.New("invalid field spec")
)

// DefaultTimestampUnit is the tick length used by OutputTimestamp.
const DefaultTimestampUnit = time.Millisecond

type (
	rawFunc     func(b []byte) rawValue
	convertFunc func(v rawValue) measurement.Reading
)

// rawValue carries the result of a raw decode. Exactly one of the fields is
// meaningful, chosen by the field's RawKind.
type rawValue struct {
	u uint64
	i int64
	b []byte
}

type field struct {
	name    string
	offset  int
	width   int
	decode  rawFunc
	convert convertFunc
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithByteOrder overrides the default big-endian byte order.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(d *Decoder) {
		if order != nil {
			d.order = order
		}
	}
}

// WithTimestampUnit sets the tick length for OutputTimestamp fields. The unit
// must evenly divide one second; other values are ignored.
func WithTimestampUnit(unit time.Duration) Option {
	return func(d *Decoder) {
		if unit > 0 && unit <= time.Second && time.Second%unit == 0 {
			d.tick = unit
		}
	}
}

// Decoder decodes packets of one fixed layout. It is immutable after New and
// safe for concurrent use.
type Decoder struct {
	fields     []field
	outputs    []string
	packetSize int
	order      binary.ByteOrder
	tick       time.Duration
}

// New validates specs and builds a decoder for that layout.
func New(specs []FieldSpec, opts ...Option) (*Decoder, error) {
	d := &Decoder{
		order: binary.BigEndian,
		tick:  DefaultTimestampUnit,
	}
	for _, opt := range opts {
		opt(d)
	}

	if len(specs) == 0 {
		return nil, invalidSpec("layout has no fields", nil)
	}

	seen := make(map[string]struct{}, len(specs))
	offset := 0
	for i, spec := range specs {
		if err := validate(spec, seen); err != nil {
			return nil, invalidSpec(err.Error(), map[string]any{"index": i, "field": spec.Name})
		}
		seen[spec.Name] = struct{}{}

		f := field{
			name:   spec.Name,
			offset: offset,
			width:  spec.Width(),
			decode: d.rawDecoder(spec.Raw),
		}
		if spec.Output != OutputNone {
			f.convert = d.converter(spec)
			d.outputs = append(d.outputs, spec.Name)
		}
		d.fields = append(d.fields, f)
		offset += f.width
	}
	d.packetSize = offset

	return d, nil
}

// MustNew is like New but panics on an invalid layout. Use it only for
// layouts fixed at compile time.
func MustNew(specs []FieldSpec, opts ...Option) *Decoder {
	d, err := New(specs, opts...)
	if err != nil {
		panic(fmt.Sprintf("decoder.MustNew: %v", err))
	}
	return d
}

// PacketSize returns the exact number of bytes one packet occupies.
func (d *Decoder) PacketSize() int {
	return d.packetSize
}

// Fields returns the names of the fields present in decoded records, in order.
func (d *Decoder) Fields() []string {
	out := make([]string, len(d.outputs))
	copy(out, d.outputs)
	return out
}

// Decode reads one packet from buf. Bytes beyond PacketSize are ignored.
// A buffer shorter than PacketSize fails with an error wrapping ErrTruncated.
func (d *Decoder) Decode(buf []byte) (*measurement.Record, error) {
	if len(buf) < d.packetSize {
		return nil, bkerrors.WrapWithContext(bkerrors.ErrCodeDecode,
			"buffer shorter than packet", ErrTruncated, map[string]any{
				"expected": d.packetSize,
				"received": len(buf),
			})
	}

	rec := measurement.NewRecord()
	for _, f := range d.fields {
		v := f.decode(buf[f.offset : f.offset+f.width])
		if f.convert == nil {
			continue
		}
		rec.Set(f.name, f.convert(v))
	}
	return rec, nil
}

// Placeholder returns a record with every output field set to NA, for sources
// that have no packet this tick but must keep their columns.
func (d *Decoder) Placeholder() *measurement.Record {
	rec := measurement.NewRecord()
	for _, name := range d.outputs {
		rec.Set(name, measurement.NA())
	}
	return rec
}

// String summarizes the layout for debug logs.
func (d *Decoder) String() string {
	return fmt.Sprintf("Decoder(fields=%d, outputs=%d, packetSize=%d)",
		len(d.fields), len(d.outputs), d.packetSize)
}

func validate(spec FieldSpec, seen map[string]struct{}) error {
	if spec.Name == "" {
		return errors.New("field name is empty")
	}
	if _, dup := seen[spec.Name]; dup {
		return fmt.Errorf("duplicate field name %q", spec.Name)
	}
	if spec.Raw.width(1) == 0 {
		return fmt.Errorf("unknown raw kind %v", spec.Raw)
	}
	if spec.Raw == RawBytes && spec.Size <= 0 {
		return fmt.Errorf("bytes field %q needs a positive size", spec.Name)
	}
	if _, ok := outputKindNames[spec.Output]; !ok {
		return fmt.Errorf("unknown output kind %v", spec.Output)
	}
	if !spec.Output.accepts(spec.Raw) {
		return fmt.Errorf("output %v cannot convert raw %v", spec.Output, spec.Raw)
	}
	if spec.Output == OutputScaled && spec.Scale == 0 {
		return fmt.Errorf("scaled field %q needs a non-zero scale", spec.Name)
	}
	return nil
}

func invalidSpec(msg string, ctx map[string]any) error {
	return bkerrors.WrapWithContext(bkerrors.ErrCodeInvalidRequest, msg, ErrInvalidSpec, ctx)
}

func (d *Decoder) rawDecoder(k RawKind) rawFunc {
	order := d.order
	switch k {
	case RawBytes:
		return func(b []byte) rawValue { return rawValue{b: b} }
	case RawUint8:
		return func(b []byte) rawValue { return rawValue{u: uint64(b[0])} }
	case RawUint16:
		return func(b []byte) rawValue { return rawValue{u: uint64(order.Uint16(b))} }
	case RawUint32:
		return func(b []byte) rawValue { return rawValue{u: uint64(order.Uint32(b))} }
	case RawUint64:
		return func(b []byte) rawValue { return rawValue{u: order.Uint64(b)} }
	case RawInt8:
		return func(b []byte) rawValue { return rawValue{i: int64(int8(b[0]))} }
	case RawInt16:
		return func(b []byte) rawValue { return rawValue{i: int64(int16(order.Uint16(b)))} }
	case RawInt32:
		return func(b []byte) rawValue { return rawValue{i: int64(int32(order.Uint32(b)))} }
	default:
		return func(b []byte) rawValue { return rawValue{i: int64(order.Uint64(b))} }
	}
}

func (d *Decoder) converter(spec FieldSpec) convertFunc {
	signed := spec.Raw.signed()
	switch spec.Output {
	case OutputInt, OutputByteCount:
		if signed {
			return func(v rawValue) measurement.Reading { return measurement.Int64(v.i) }
		}
		return func(v rawValue) measurement.Reading { return measurement.Uint64(v.u) }
	case OutputTimestamp:
		perSecond := int64(time.Second / d.tick)
		unit := int64(d.tick)
		return func(v rawValue) measurement.Reading {
			ticks := v.i
			if !signed {
				ticks = int64(v.u)
			}
			return measurement.Time(time.Unix(ticks/perSecond, (ticks%perSecond)*unit))
		}
	case OutputScaled:
		scale := spec.Scale
		if signed {
			return func(v rawValue) measurement.Reading { return measurement.Float64(float64(v.i) * scale) }
		}
		return func(v rawValue) measurement.Reading { return measurement.Float64(float64(v.u) * scale) }
	case OutputString:
		return func(v rawValue) measurement.Reading {
			return measurement.Str(string(bytes.TrimRight(v.b, "\x00")))
		}
	default:
		return func(v rawValue) measurement.Reading {
			return measurement.Bytes(bytes.Clone(v.b))
		}
	}
}
