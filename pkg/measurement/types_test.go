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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestToReading(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		wantAny  any
		lossless bool
	}{
		{"int", 42, 42, true},
		{"int32", int32(-7), int64(-7), true},
		{"int64", int64(42), int64(42), true},
		{"uint32", uint32(5), uint64(5), true},
		{"uint64", uint64(9), uint64(9), true},
		{"float32", float32(1.5), float64(1.5), true},
		{"float64", 3.14, 3.14, true},
		{"bool", true, true, true},
		{"string", "test", "test", true},
		{"time", ts, ts, true},
		{"bytes", []byte{0xde, 0xad}, []byte{0xde, 0xad}, true},
		{"nil", nil, nil, true},
		{"struct", struct{ A int }{1}, "{1}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, lossless := ToReadingWithType(tt.input)
			assert.Equal(t, tt.lossless, lossless)
			assert.Equal(t, tt.wantAny, r.Any())
		})
	}
}

func TestToReading_PassesReadingThrough(t *testing.T) {
	in := Str("x")
	assert.Same(t, in, ToReading(in))
}

func TestReading_String(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 123456000, time.UTC)

	tests := []struct {
		name string
		r    Reading
		want string
	}{
		{"int", Int(5), "5"},
		{"float", Float64(0.5), "0.5"},
		{"time", Time(ts), "2024-05-01 12:30:00.123456"},
		{"bytes", Bytes([]byte{0x0a, 0xff}), "0aff"},
		{"na", NA(), "NA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.String())
		})
	}
}

func TestTime_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	r := Time(time.Date(2024, 1, 1, 1, 0, 0, 0, loc))
	assert.Equal(t, time.UTC, r.Any().(time.Time).Location())
	assert.Equal(t, "2024-01-01 00:00:00.000000", r.String())
}

func TestIsNA(t *testing.T) {
	assert.True(t, IsNA(NA()))
	assert.True(t, IsNA(nil))
	assert.False(t, IsNA(Int(0)))
}

func TestTimeReading_JSON(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	b, err := json.Marshal(Time(ts))
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-05-01T12:30:00Z"`, string(b))

	var back TimeReading
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, ts.Equal(back.V))
}

func TestBytesReading_JSON(t *testing.T) {
	b, err := json.Marshal(Bytes([]byte("AB")))
	require.NoError(t, err)
	assert.Equal(t, `"4142"`, string(b))

	var back BytesReading
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []byte("AB"), back.V)
}

func TestScalar_YAML(t *testing.T) {
	out, err := yaml.Marshal(map[string]Reading{"count": Int(3)})
	require.NoError(t, err)
	assert.Equal(t, "count: 3\n", string(out))
}
