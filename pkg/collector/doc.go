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

// Package collector gathers one flat status record from an ordered list of
// named data sources.
//
// # Overview
//
// A DataSource pairs a name with a fetch function. Collect calls every source
// in order and merges the results into a single measurement.Record:
//
//   - a plain source stores its value under its own name
//   - an unpacking source returns a mapping whose entries are merged directly
//     into the record, later sources winning on key collisions
//
// Key order in the record follows dispatch order, which is also the CSV column
// order downstream.
//
// # Default Sources
//
// DefaultSources builds the production list:
//
//	time      UTC wall clock at collection
//	runtime   seconds since the process started
//	ping      exit status of a single ping to the sensor
//	sunsaver  power-controller registers (unpacked, optional)
//	hs        decoded sensor status datagram (unpacked)
//
// Usage:
//
//	sources := collector.DefaultSources(collector.SourceConfig{
//	    SensorHost: "10.10.10.1",
//	    LocalHost:  "0.0.0.0",
//	    StatusPort: 8084,
//	})
//	rec, err := collector.Collect(ctx, sources)
//
// A fetch error aborts the collection; no partial record is returned.
// Sources that merely have nothing to report return placeholders instead.
package collector
