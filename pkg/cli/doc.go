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

// Package cli implements the brokkr command line.
//
// # Commands
//
// monitor - Record status data on a schedule:
//
//	brokkr monitor [--output ~/brokkr/data/telemetry] [--interval 60s] [--verbose] [--serve]
//
// Collects one record per interval from the configured data sources and
// appends it to daily CSV files until SIGINT or SIGTERM. With --serve the
// latest record is also available at /v1/status.
//
// status - Collect one record:
//
//	brokkr status --format table
//
// config - Print the effective configuration:
//
//	brokkr --config /etc/brokkr.yaml config --format yaml
//
// version - Print build information.
//
// # Global Flags
//
//	--config, -c   Config file path (env: BROKKR_CONFIG)
//	--log-level    Log level: debug, info, warn, error, critical (env: LOG_LEVEL)
//
// # Output Formats
//
// The status and config commands accept --format json, yaml, table or csv
// and --output to write to a file instead of stdout. The csv format is only
// valid for status records.
//
// # Exit Codes
//
//	0  Success, including a monitor stopped by a signal
//	1  Invalid configuration, arguments or an unrecoverable failure
package cli
