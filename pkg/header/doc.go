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

// Package header provides the common header of brokkr's structured output.
//
// One-shot documents such as the status snapshot and the effective
// configuration embed a Header so their JSON and YAML forms are
// self-describing:
//
//	kind: Status
//	apiVersion: brokkr.hamma.dev/v1
//	metadata:
//	  timestamp: "2024-06-01T12:00:00Z"
//	  version: v0.3.0
//
// Usage:
//
//	h := header.New(header.KindStatus, header.WithVersion(version))
package header
