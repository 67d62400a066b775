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

package defaults

import "time"

// Monitor intervals.
const (
	// MonitorInterval is the default time between samples.
	MonitorInterval = 60 * time.Second

	// SleepInterval bounds each wait increment of the scheduler, which is also
	// the upper bound on cancellation latency.
	SleepInterval = 500 * time.Millisecond
)

// Sensor network defaults.
const (
	// PingTimeout is the default reachability probe timeout.
	PingTimeout = 1 * time.Second

	// PingGrace is added to PingTimeout before the probe process is killed.
	PingGrace = 1 * time.Second

	// StatusTimeout is how long to wait for one status datagram.
	StatusTimeout = 1 * time.Second

	// StatusPort is the UDP port the sensor pushes status packets to.
	StatusPort = 8084

	// StatusBufferSize is the receive buffer for one status datagram.
	StatusBufferSize = 128

	// SensorIP is the default address of the sensor instrument.
	SensorIP = "10.10.10.1"

	// LocalIP is the default local address status packets are received on.
	LocalIP = "0.0.0.0"
)

// Power controller defaults.
const (
	// PowerTimeout bounds one Modbus transaction.
	PowerTimeout = 2 * time.Second

	// PowerBaudRate is the SunSaver MPPT serial rate.
	PowerBaudRate = 9600

	// PowerUnitID is the default Modbus slave address.
	PowerUnitID = 1

	// PowerSerialPort is the default serial device.
	PowerSerialPort = "/dev/ttyUSB0"
)

// Server timeouts for the status HTTP server.
const (
	// ServerReadTimeout is the maximum duration for reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 10 * time.Second

	// ServerAddress is the default listen address of the status server.
	ServerAddress = "127.0.0.1:8090"
)

// Output defaults.
const (
	// OutputSubpath is the telemetry directory under the output base.
	OutputSubpath = "telemetry"

	// OutputBase is the per-user data directory.
	OutputBase = "~/brokkr/data"

	// FilenamePrefix prefixes daily telemetry files.
	FilenamePrefix = "telemetry"
)
