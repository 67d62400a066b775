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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Monitor intervals
		{"MonitorInterval", MonitorInterval, 1 * time.Second, 1 * time.Hour},
		{"SleepInterval", SleepInterval, 10 * time.Millisecond, 5 * time.Second},

		// Sensor timeouts
		{"PingTimeout", PingTimeout, 100 * time.Millisecond, 30 * time.Second},
		{"PingGrace", PingGrace, 100 * time.Millisecond, 10 * time.Second},
		{"StatusTimeout", StatusTimeout, 100 * time.Millisecond, 30 * time.Second},

		// Power controller
		{"PowerTimeout", PowerTimeout, 100 * time.Millisecond, 30 * time.Second},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 1 * time.Second, 60 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 5 * time.Second, 60 * time.Second},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 1 * time.Second, 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestIntervalRelationships(t *testing.T) {
	// The scheduler must be able to wake at least once per sample.
	if SleepInterval >= MonitorInterval {
		t.Errorf("SleepInterval (%v) should be less than MonitorInterval (%v)",
			SleepInterval, MonitorInterval)
	}

	// Both per-tick network waits must fit comfortably inside one sample.
	if PingTimeout+PingGrace+StatusTimeout >= MonitorInterval {
		t.Errorf("sensor timeouts (%v) should fit inside MonitorInterval (%v)",
			PingTimeout+PingGrace+StatusTimeout, MonitorInterval)
	}
}

func TestStatusBufferSize(t *testing.T) {
	// The status packet is 60 bytes; the buffer must hold it with room for padding.
	if StatusBufferSize < 60 {
		t.Errorf("StatusBufferSize (%d) smaller than status packet", StatusBufferSize)
	}
}
