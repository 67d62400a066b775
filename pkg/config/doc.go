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

// Package config loads the brokkr YAML configuration file.
//
// A configuration is resolved in three steps: the file is decoded over the
// built-in defaults, BROKKR_<SECTION>_<KEY> environment variables override
// individual scalar keys, and the result is validated.
//
//	config_version: 1
//	general:
//	  ip_sensor: 10.10.10.1
//	  ip_local: 0.0.0.0
//	monitor:
//	  hs_port: 8084
//	  interval_log_s: 60
//	  output_path: ~/brokkr/data/telemetry
//	sunsaver:
//	  enabled: true
//	  port: /dev/ttyUSB0
//	server:
//	  enabled: false
//	  address: 127.0.0.1:8090
//
// Durations are written in seconds (keys ending in _s). An empty path loads
// the defaults alone, which is a valid configuration.
//
// Usage:
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	sources := collector.DefaultSources(cfg.SourceConfig(logger))
package config
