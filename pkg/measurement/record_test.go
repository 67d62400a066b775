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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRecord_SetKeepsFirstPosition(t *testing.T) {
	r := NewRecord()
	r.Set("a", Int(1))
	r.Set("b", Int(2))
	r.Set("a", Int(3))

	assert.Equal(t, []string{"a", "b"}, r.Keys())
	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v.Any())
}

func TestRecord_SetNilStoresNA(t *testing.T) {
	r := NewRecord()
	r.Set("x", nil)
	v, ok := r.Get("x")
	require.True(t, ok)
	assert.True(t, IsNA(v))
}

func TestRecord_MergeLaterWins(t *testing.T) {
	first := NewRecord()
	first.Set("a", Int(1))
	first.Set("b", Int(2))

	second := NewRecord()
	second.Set("b", Int(3))
	second.Set("c", Int(4))

	first.Merge(second)

	assert.Equal(t, []string{"a", "b", "c"}, first.Keys())
	assert.Equal(t, map[string]any{"a": 1, "b": 3, "c": 4}, toMap(first))
}

func TestRecord_MergeNil(t *testing.T) {
	r := NewRecord()
	r.Set("a", Int(1))
	r.Merge(nil)
	assert.Equal(t, 1, r.Len())
}

func TestRecordFromMap_SortedKeys(t *testing.T) {
	r := RecordFromMap(map[string]any{"z": 1, "a": "x", "m": true})
	assert.Equal(t, []string{"a", "m", "z"}, r.Keys())
}

func TestRecord_NilReceiver(t *testing.T) {
	var r *Record
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Keys())
	assert.False(t, r.Has("a"))
	for range r.All() {
		t.Fatal("nil record should not yield")
	}
}

func TestRecord_AllStopsEarly(t *testing.T) {
	r := RecordFromMap(map[string]any{"a": 1, "b": 2, "c": 3})
	var seen []string
	for k := range r.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	r := NewRecord()
	r.Set("a", Int(1))
	c := r.Clone()
	c.Set("b", Int(2))

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 2, c.Len())
}

func TestRecord_Strings(t *testing.T) {
	r := NewRecord()
	r.Set("ping", Int(0))
	r.Set("hs", NA())
	keys, values := r.Strings()
	assert.Equal(t, []string{"ping", "hs"}, keys)
	assert.Equal(t, []string{"0", "NA"}, values)
}

func TestRecord_TypedGetters(t *testing.T) {
	r := NewRecord()
	r.SetValue("s", "v")
	r.SetValue("i", int64(-2))
	r.SetValue("u", uint32(7))
	r.SetValue("f", 1.25)

	s, err := r.GetString("s")
	require.NoError(t, err)
	assert.Equal(t, "v", s)

	i, err := r.GetInt64("i")
	require.NoError(t, err)
	assert.Equal(t, int64(-2), i)

	u, err := r.GetUint64("u")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u)

	f, err := r.GetFloat64("f")
	require.NoError(t, err)
	assert.Equal(t, 1.25, f)

	_, err = r.GetString("missing")
	assert.Error(t, err)
	_, err = r.GetInt64("s")
	assert.Error(t, err)
}

func TestRecord_MarshalJSONOrdered(t *testing.T) {
	r := NewRecord()
	r.Set("z", Int(1))
	r.Set("a", Str("x"))
	r.Set("m", NA())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","m":null}`, string(b))
}

func TestRecord_MarshalJSONEmpty(t *testing.T) {
	b, err := json.Marshal(NewRecord())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestRecord_MarshalYAMLOrdered(t *testing.T) {
	r := NewRecord()
	r.Set("z", Int(1))
	r.Set("a", Str("x"))

	b, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, "z: 1\na: x\n", string(b))
}

func toMap(r *Record) map[string]any {
	out := make(map[string]any, r.Len())
	for k, v := range r.All() {
		out[k] = v.Any()
	}
	return out
}
