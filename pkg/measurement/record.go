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
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Record is an ordered mapping of key to Reading produced once per sample.
// Keys keep the position of their first insertion; setting an existing key
// replaces its value in place. Keys are never removed.
//
// A Record is not safe for concurrent mutation. Callers hand a completed
// Record to other goroutines only after they stop writing to it.
type Record struct {
	keys []string
	data map[string]Reading
}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{data: make(map[string]Reading)}
}

// RecordFromMap builds a Record from a plain map. Map iteration order is not
// stable, so keys are inserted in sorted order.
func RecordFromMap(m map[string]any) *Record {
	r := NewRecord()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		r.SetValue(k, m[k])
	}
	return r
}

// Set stores v under key. Nil readings are stored as NA.
func (r *Record) Set(key string, v Reading) {
	if r.data == nil {
		r.data = make(map[string]Reading)
	}
	if v == nil {
		v = NA()
	}
	if _, exists := r.data[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.data[key] = v
}

// SetValue converts v with ToReading and stores it under key.
func (r *Record) SetValue(key string, v any) {
	r.Set(key, ToReading(v))
}

// Merge copies every entry of other into r in other's order.
// Values from other take precedence on key collisions.
func (r *Record) Merge(other *Record) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		r.Set(k, other.data[k])
	}
}

// Get retrieves a reading by key.
func (r *Record) Get(key string) (Reading, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.data[key]
	return v, ok
}

// Has checks if a key exists in the record.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns a copy of the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// All iterates over entries in insertion order.
func (r *Record) All() iter.Seq2[string, Reading] {
	return func(yield func(string, Reading) bool) {
		if r == nil {
			return
		}
		for _, k := range r.keys {
			if !yield(k, r.data[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy that can be mutated independently.
func (r *Record) Clone() *Record {
	c := NewRecord()
	c.Merge(r)
	return c
}

// Strings returns the keys and the flat string form of each value, in order.
func (r *Record) Strings() (keys, values []string) {
	keys = r.Keys()
	values = make([]string, len(keys))
	for i, k := range keys {
		values[i] = r.data[k].String()
	}
	return keys, values
}

// GetString attempts to retrieve a string value, returning an error if not found or wrong type.
func (r *Record) GetString(key string) (string, error) {
	reading, ok := r.Get(key)
	if !ok {
		return "", fmt.Errorf("key %q not found", key)
	}
	v, ok := reading.Any().(string)
	if !ok {
		return "", fmt.Errorf("key %q is not a string", key)
	}
	return v, nil
}

// GetInt64 attempts to retrieve an int64 value, returning an error if not found or wrong type.
func (r *Record) GetInt64(key string) (int64, error) {
	reading, ok := r.Get(key)
	if !ok {
		return 0, fmt.Errorf("key %q not found", key)
	}
	// Handle both int64 and int
	switch v := reading.Any().(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("key %q is not an integer", key)
	}
}

// GetUint64 attempts to retrieve a uint64 value, returning an error if not found or wrong type.
func (r *Record) GetUint64(key string) (uint64, error) {
	reading, ok := r.Get(key)
	if !ok {
		return 0, fmt.Errorf("key %q not found", key)
	}
	switch v := reading.Any().(type) {
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("key %q is not an unsigned integer", key)
	}
}

// GetFloat64 attempts to retrieve a float64 value, returning an error if not found or wrong type.
func (r *Record) GetFloat64(key string) (float64, error) {
	reading, ok := r.Get(key)
	if !ok {
		return 0, fmt.Errorf("key %q not found", key)
	}
	v, ok := reading.Any().(float64)
	if !ok {
		return 0, fmt.Errorf("key %q is not a float64", key)
	}
	return v, nil
}

// MarshalJSON encodes the record as a JSON object preserving key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.data[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the record as a YAML mapping preserving key order.
func (r *Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range r.Keys() {
		var vn yaml.Node
		if err := vn.Encode(r.data[k]); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&vn,
		)
	}
	return node, nil
}
