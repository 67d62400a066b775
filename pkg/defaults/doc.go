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

// Package defaults provides centralized configuration constants for brokkr.
//
// This package defines intervals, timeouts and sizes used across the codebase.
// Centralizing these values ensures consistency between the configuration
// loader, the CLI flags and the components that consume them.
//
// # Categories
//
//   - Monitor intervals: sampling cadence and cancellation poll granularity
//   - Sensor timeouts: ping and status datagram receive bounds
//   - Power controller: Modbus serial defaults
//   - Server: status HTTP server bounds
//
// # Usage
//
//	cfg := scheduler.Config{
//	    Interval:      defaults.MonitorInterval,
//	    SleepInterval: defaults.SleepInterval,
//	}
package defaults
