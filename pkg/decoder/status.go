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

// StatusFields is the layout of the sensor status datagram.
var StatusFields = []FieldSpec{
	{Name: "marker_val", Raw: RawBytes, Size: 8},
	{Name: "sequence_count", Raw: RawUint32, Output: OutputInt},
	{Name: "timestamp", Raw: RawInt64, Output: OutputTimestamp},
	{Name: "crc_errors", Raw: RawUint32, Output: OutputInt},
	{Name: "valid_packets", Raw: RawUint32, Output: OutputInt},
	{Name: "bytes_read", Raw: RawUint64, Output: OutputByteCount},
	{Name: "bytes_written", Raw: RawUint64, Output: OutputByteCount},
	{Name: "bytes_remaining", Raw: RawUint64, Output: OutputByteCount},
	{Name: "packets_sent", Raw: RawUint32, Output: OutputInt},
	{Name: "packets_dropped", Raw: RawUint32, Output: OutputInt},
}

// NewStatusDecoder returns a decoder for StatusFields.
func NewStatusDecoder(opts ...Option) *Decoder {
	return MustNew(StatusFields, opts...)
}
