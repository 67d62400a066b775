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

// Package decoder turns fixed-layout binary packets into ordered records.
//
// A Decoder is built once from an ordered list of FieldSpec values. Each field
// names a raw kind, which fixes its byte width and how the bytes are read, and
// an output kind, which selects the conversion applied to the raw value. Fields
// with OutputNone are consumed for framing and left out of the record.
//
// Byte order is fixed per decoder and defaults to big-endian (network order);
// it never depends on the host.
//
//	dec, err := decoder.New([]decoder.FieldSpec{
//	    {Name: "marker_val", Raw: decoder.RawBytes, Size: 8},
//	    {Name: "sequence_count", Raw: decoder.RawUint32, Output: decoder.OutputInt},
//	    {Name: "timestamp", Raw: decoder.RawInt64, Output: decoder.OutputTimestamp},
//	})
//	rec, err := dec.Decode(packet)
//	if errors.Is(err, decoder.ErrTruncated) {
//	    // no usable sample this tick
//	}
//
// Kinds are resolved to decode and convert functions when the decoder is
// constructed, so Decode does no per-field lookups.
package decoder
