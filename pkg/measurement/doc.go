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

// Package measurement provides the value types flowing from data sources to
// the persistence sink.
//
// # Core Types
//
//   - Reading: Interface for type-safe scalar values (int, float64, string, bool,
//     timestamps, raw bytes) plus NA for values that could not be obtained
//   - Record: Ordered mapping of key to Reading, one per sample
//
// # Creating Records
//
// Use convenience constructors to create readings:
//
//	r := measurement.NewRecord()
//	r.Set("time", measurement.Time(time.Now()))
//	r.Set("ping", measurement.Int(0))
//	r.SetValue("sequence_count", uint32(5))
//
// # Merging
//
// Merge copies another record's entries in order. Later values win on key
// collisions while the key keeps the position where it first appeared:
//
//	a := measurement.RecordFromMap(map[string]any{"a": 1, "b": 2})
//	b := measurement.RecordFromMap(map[string]any{"b": 3, "c": 4})
//	a.Merge(b) // a: b=3 keeps second position, c appended
//
// # Accessing Data
//
//	seq, err := r.GetUint64("sequence_count")
//	for key, value := range r.All() {
//	    fmt.Println(key, value)
//	}
//
// Records marshal to JSON and YAML as ordered objects, and to flat strings with
// Strings for line-oriented formats such as CSV.
package measurement
