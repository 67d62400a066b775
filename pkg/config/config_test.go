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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/hamma-dev/brokkr/pkg/defaults"
	bkerrors "github.com/hamma-dev/brokkr/pkg/errors"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brokkr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, cfg.ConfigVersion)
	assert.Equal(t, defaults.SensorIP, cfg.General.SensorIP)
	assert.Equal(t, defaults.LocalIP, cfg.General.LocalIP)
	assert.Equal(t, defaults.StatusPort, cfg.Monitor.StatusPort)
	assert.Equal(t, defaults.MonitorInterval, cfg.Interval())
	assert.Equal(t, defaults.SleepInterval, cfg.SleepInterval())
	assert.Equal(t, filepath.Join("~", "brokkr", "data", "telemetry"), cfg.Monitor.OutputPath)
	assert.False(t, cfg.SunSaver.Enabled)
	assert.Nil(t, cfg.PowerConfig(nil))
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
general:
  ip_sensor: 192.168.1.20
monitor:
  hs_port: 9000
  hs_timeout_s: 0.25
  interval_log_s: 10
  output_path: /var/lib/brokkr/status.csv
sunsaver:
  enabled: true
  port: /dev/ttyS1
  unit_id: 3
server:
  enabled: true
  address: 0.0.0.0:9090
  rate_limit: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.20", cfg.General.SensorIP)
	assert.Equal(t, defaults.LocalIP, cfg.General.LocalIP)
	assert.Equal(t, 10*time.Second, cfg.Interval())
	assert.Equal(t, "/var/lib/brokkr/status.csv", cfg.OutputPath())

	sc := cfg.SourceConfig(nil)
	assert.Equal(t, "192.168.1.20", sc.SensorHost)
	assert.Equal(t, 9000, sc.StatusPort)
	assert.Equal(t, 250*time.Millisecond, sc.StatusTimeout)
	assert.Equal(t, defaults.PingTimeout, sc.PingTimeout)
	require.NotNil(t, sc.Power)
	assert.Equal(t, "/dev/ttyS1", sc.Power.Port)
	assert.Equal(t, byte(3), sc.Power.UnitID)
	assert.Equal(t, defaults.PowerBaudRate, sc.Power.BaudRate)
	assert.Equal(t, defaults.PowerTimeout, sc.Power.Timeout)

	srv := cfg.ServerConfig("v1.0.0")
	assert.Equal(t, "0.0.0.0:9090", srv.Address)
	assert.Equal(t, rate.Limit(5), srv.RateLimit)
	assert.Equal(t, 40, srv.RateLimitBurst)
	assert.Equal(t, "v1.0.0", srv.Version)
	assert.Equal(t, 30*time.Second, srv.StaleAfter)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
monitor:
  hs_port: 9000
`)
	t.Setenv("BROKKR_MONITOR_HS_PORT", "9100")
	t.Setenv("BROKKR_GENERAL_IP_SENSOR", "10.0.0.5")
	t.Setenv("BROKKR_SUNSAVER_ENABLED", "true")
	t.Setenv("BROKKR_MONITOR_INTERVAL_LOG_S", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Monitor.StatusPort)
	assert.Equal(t, "10.0.0.5", cfg.General.SensorIP)
	assert.True(t, cfg.SunSaver.Enabled)
	assert.Equal(t, 2500*time.Millisecond, cfg.Interval())
}

func TestLoad_EnvOverrideInvalid(t *testing.T) {
	t.Setenv("BROKKR_MONITOR_HS_PORT", "eighty")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, bkerrors.IsCode(err, bkerrors.ErrCodeInvalidRequest))
	assert.Contains(t, err.Error(), "invalid environment override")
}

func TestLoad_EnvOverrideScope(t *testing.T) {
	path := writeConfig(t, `
monitor:
  output_path: /data/brokkr
`)
	// Empty values do not override and unknown keys are ignored.
	t.Setenv("BROKKR_MONITOR_OUTPUT_PATH", "")
	t.Setenv("BROKKR_MONITOR_BOGUS", "1")
	t.Setenv("BROKKR_SERVER_RATE_LIMIT", " 7.5 ")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/brokkr", cfg.Monitor.OutputPath)
	assert.InDelta(t, 7.5, cfg.Server.RateLimit, 1e-9)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code bkerrors.ErrorCode
		msg  string
	}{
		{
			name: "bad yaml",
			data: "monitor: [",
			code: bkerrors.ErrCodeInvalidRequest,
			msg:  "failed to parse config file",
		},
		{
			name: "unsupported version",
			data: "config_version: 2",
			code: bkerrors.ErrCodeInvalidRequest,
			msg:  "config_version",
		},
		{
			name: "port out of range",
			data: "monitor:\n  hs_port: 70000",
			code: bkerrors.ErrCodeInvalidRequest,
			msg:  "monitor.hs_port",
		},
		{
			name: "local ip",
			data: "general:\n  ip_local: not-an-ip",
			code: bkerrors.ErrCodeInvalidRequest,
			msg:  "general.ip_local",
		},
		{
			name: "negative interval",
			data: "monitor:\n  interval_log_s: -1",
			code: bkerrors.ErrCodeInvalidRequest,
			msg:  "monitor.interval_log_s",
		},
		{
			name: "unit id",
			data: "sunsaver:\n  unit_id: 300",
			code: bkerrors.ErrCodeInvalidRequest,
			msg:  "sunsaver.unit_id",
		},
		{
			name: "server address",
			data: "server:\n  enabled: true\n  address: localhost",
			code: bkerrors.ErrCodeInvalidRequest,
			msg:  "server.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.data))
			require.Error(t, err)
			assert.True(t, bkerrors.IsCode(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, bkerrors.IsCode(err, bkerrors.ErrCodeNotFound))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "brokkr", "data"), ExpandHome("~/brokkr/data"))
	assert.Equal(t, "/tmp/out", ExpandHome("/tmp/out"))
	assert.Equal(t, "~other/x", ExpandHome("~other/x"))
}
