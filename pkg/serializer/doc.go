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

// Package serializer writes status records to files, terminals and HTTP
// responses.
//
// # Formats
//
// Writer renders a value in one of four formats:
//   - json: indented JSON, records keep their key order
//   - yaml: YAML via gopkg.in/yaml.v3, records keep their key order
//   - table: two aligned columns, FIELD and VALUE
//   - csv: a header line followed by one value line (records only)
//
// # Telemetry files
//
// CSVSink appends one line per record to a CSV file, writing the header when
// the file is new. When the configured path has no extension it is treated as
// a directory and the file name rotates daily:
//
//	<dir>/telemetry_2024-06-01.csv
//
// Usage:
//
//	sink := serializer.NewCSVSink("~/brokkr/data/telemetry", "telemetry")
//	if err := sink.EnsureDir(); err != nil {
//	    return err
//	}
//	path, err := sink.Append(rec)
//
// # HTTP
//
// RespondJSON encodes a value before writing any header so encoding failures
// still produce a clean 500.
package serializer
