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

package measurement

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// NAValue is how a missing reading is rendered in flat output.
const NAValue = "NA"

// TimeFormat is the text layout of timestamp readings in flat output.
const TimeFormat = "2006-01-02 15:04:05.000000"

// AllowedScalar is a constraint (compile-time) for what we allow as readings.
type AllowedScalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~bool |
		~string
}

// Reading is a *runtime* interface (so it can be stored in a map with mixed types).
type Reading interface {
	isReading()
	Any() any
	String() string

	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Scalar wraps an allowed scalar type.
// This is how we keep compile-time constraints while still using a runtime interface.
type Scalar[T AllowedScalar] struct {
	V T
}

func (Scalar[T]) isReading() {}

func (s Scalar[T]) Any() any { return s.V }

// String returns the string representation of the underlying scalar value.
func (s Scalar[T]) String() string {
	return fmt.Sprintf("%v", s.V)
}

// MarshalJSON makes the JSON value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

// MarshalYAML makes the YAML value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalYAML() (any, error) {
	return s.V, nil
}

// UnmarshalJSON unmarshals a JSON value into the underlying scalar.
func (s *Scalar[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.V)
}

// UnmarshalYAML unmarshals a YAML value into the underlying scalar.
func (s *Scalar[T]) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&s.V)
}

// TimeReading is an absolute timestamp, always held in UTC.
type TimeReading struct {
	V time.Time
}

func (TimeReading) isReading() {}

func (t TimeReading) Any() any { return t.V }

// String renders the time with microsecond precision.
func (t TimeReading) String() string {
	return t.V.UTC().Format(TimeFormat)
}

// MarshalJSON encodes the time as an RFC 3339 string.
func (t TimeReading) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.V.UTC().Format(time.RFC3339Nano))
}

// MarshalYAML encodes the time as a YAML timestamp.
func (t TimeReading) MarshalYAML() (any, error) {
	return t.V.UTC(), nil
}

// UnmarshalJSON decodes an RFC 3339 string.
func (t *TimeReading) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.V = v.UTC()
	return nil
}

// UnmarshalYAML decodes a YAML timestamp.
func (t *TimeReading) UnmarshalYAML(node *yaml.Node) error {
	var v time.Time
	if err := node.Decode(&v); err != nil {
		return err
	}
	t.V = v.UTC()
	return nil
}

// BytesReading holds raw bytes; text encodings use lowercase hex.
type BytesReading struct {
	V []byte
}

func (BytesReading) isReading() {}

func (b BytesReading) Any() any { return b.V }

func (b BytesReading) String() string {
	return hex.EncodeToString(b.V)
}

func (b BytesReading) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b BytesReading) MarshalYAML() (any, error) {
	return b.String(), nil
}

func (b *BytesReading) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex bytes: %w", err)
	}
	b.V = v
	return nil
}

func (b *BytesReading) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex bytes: %w", err)
	}
	b.V = v
	return nil
}

// NAReading marks a value that could not be obtained this tick.
type NAReading struct{}

func (NAReading) isReading() {}

func (NAReading) Any() any { return nil }

func (NAReading) String() string { return NAValue }

func (NAReading) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (NAReading) MarshalYAML() (any, error) { return nil, nil }

func (*NAReading) UnmarshalJSON([]byte) error { return nil }

func (*NAReading) UnmarshalYAML(*yaml.Node) error { return nil }

// IsNA reports whether r is missing.
func IsNA(r Reading) bool {
	if r == nil {
		return true
	}
	_, ok := r.(*NAReading)
	return ok
}

// ToReading creates a Reading from any allowed scalar type.
// If the type is not allowed, it returns a string representation.
func ToReading(v any) Reading {
	r, _ := ToReadingWithType(v)
	return r
}

// ToReadingWithType converts a value to a Reading and returns whether the conversion
// was lossless (false means the value was converted to string via fmt.Sprintf).
// This allows callers to detect if unexpected types were encountered.
func ToReadingWithType(v any) (Reading, bool) {
	switch val := v.(type) {
	case nil:
		return NA(), true
	case Reading:
		return val, true
	case int:
		return Int(val), true
	case int16:
		return Int64(int64(val)), true
	case int32:
		return Int64(int64(val)), true
	case int64:
		return Int64(val), true
	case uint:
		return Uint(val), true
	case uint16:
		return Uint64(uint64(val)), true
	case uint32:
		return Uint64(uint64(val)), true
	case uint64:
		return Uint64(val), true
	case float32:
		return Float64(float64(val)), true
	case float64:
		return Float64(val), true
	case bool:
		return Bool(val), true
	case string:
		return Str(val), true
	case time.Time:
		return Time(val), true
	case []byte:
		return Bytes(val), true
	default:
		return Str(fmt.Sprintf("%v", val)), false
	}
}

// Convenience constructors for each allowed scalar type.
func Int(v int) Reading         { return &Scalar[int]{V: v} }
func Int64(v int64) Reading     { return &Scalar[int64]{V: v} }
func Uint(v uint) Reading       { return &Scalar[uint]{V: v} }
func Uint64(v uint64) Reading   { return &Scalar[uint64]{V: v} }
func Float64(v float64) Reading { return &Scalar[float64]{V: v} }
func Bool(v bool) Reading       { return &Scalar[bool]{V: v} }
func Str(v string) Reading      { return &Scalar[string]{V: v} }
func Time(v time.Time) Reading  { return &TimeReading{V: v.UTC()} }
func Bytes(v []byte) Reading    { return &BytesReading{V: v} }
func NA() Reading               { return &NAReading{} }
