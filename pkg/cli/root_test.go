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

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hamma-dev/brokkr/pkg/config"
	"github.com/hamma-dev/brokkr/pkg/measurement"
	"github.com/hamma-dev/brokkr/pkg/serializer"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewCommand()
	cmd.Writer = &buf
	cmd.ErrWriter = &buf
	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return buf.String(), err
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brokkr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()
	assert.Equal(t, name, cmd.Name)

	var names []string
	for _, c := range cmd.Commands {
		names = append(names, c.Name)
		assert.NotNil(t, c.Action, "command %q has no action", c.Name)
	}
	assert.Equal(t, []string{"monitor", "status", "config", "version"}, names)

	for _, flag := range []string{"config", "log-level"} {
		assert.True(t, hasFlag(cmd, flag), "missing global flag %q", flag)
	}

	mon := monitorCmd()
	for _, flag := range []string{"output", "interval", "verbose", "serve", "address"} {
		assert.True(t, hasFlag(mon, flag), "missing monitor flag %q", flag)
	}
}

func hasFlag(cmd *cli.Command, flagName string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == flagName {
				return true
			}
		}
	}
	return false
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "brokkr "+version)
	assert.Contains(t, out, "commit: "+commit)
}

func TestConfigCommand(t *testing.T) {
	path := writeConfig(t, "monitor:\n  hs_port: 9000\n")

	out, err := run(t, "--config", path, "config", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: Config")
	assert.Contains(t, out, "apiVersion: brokkr.hamma.dev/v1")
	assert.Contains(t, out, "hs_port: 9000")

	out, err = run(t, "--config", path, "config", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "Config"`)
	assert.Contains(t, out, `"hs_port": 9000`)
}

func TestConfigCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{
			name: "csv format",
			args: []string{"config", "--format", "csv"},
			msg:  "csv output is only supported",
		},
		{
			name: "unknown format",
			args: []string{"config", "--format", "xml"},
			msg:  "unknown output format",
		},
		{
			name: "missing config file",
			args: []string{"--config", "/nonexistent/brokkr.yaml", "config"},
			msg:  "failed to load config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    serializer.Format
		wantErr bool
	}{
		{"yaml", serializer.FormatYAML, false},
		{"json", serializer.FormatJSON, false},
		{"table", serializer.FormatTable, false},
		{"csv", serializer.FormatCSV, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := parseOutputFormat(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyMonitorFlags(t *testing.T) {
	cfg := config.Default()
	cmd := monitorCmd()
	cmd.Action = func(_ context.Context, c *cli.Command) error {
		applyMonitorFlags(c, cfg)
		return nil
	}

	err := cmd.Run(context.Background(), []string{"monitor",
		"--interval", "5s", "--serve", "--address", "127.0.0.1:9999", "--output", "/tmp/brokkr/out.csv"})
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Interval())
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Address)
	assert.Equal(t, "/tmp/brokkr/out.csv", cfg.Monitor.OutputPath)
}

func TestApplyMonitorFlags_Unset(t *testing.T) {
	cfg := config.Default()
	want := *cfg
	cmd := monitorCmd()
	cmd.Action = func(_ context.Context, c *cli.Command) error {
		applyMonitorFlags(c, cfg)
		return nil
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"monitor"}))
	assert.Equal(t, want, *cfg)
}

func TestWriteStatus(t *testing.T) {
	rec := measurement.NewRecord()
	rec.Set("ping", measurement.Int(0))
	rec.Set("sequence_count", measurement.Uint64(7))
	rec.Set("crc_errors", measurement.NA())

	tests := []struct {
		format serializer.Format
		want   []string
	}{
		{serializer.FormatJSON, []string{`"kind": "Status"`, `"status": {`, `"sequence_count": 7`, `"crc_errors": null`}},
		{serializer.FormatYAML, []string{"kind: Status", "status:", "sequence_count: 7"}},
		{serializer.FormatCSV, []string{"ping,sequence_count,crc_errors\n0,7,NA\n"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			err := writeStatus(context.Background(), serializer.NewWriter(tt.format, &buf), tt.format, rec)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestCommandLister(t *testing.T) {
	commandLister(context.Background(), nil)

	var buf bytes.Buffer
	root := &cli.Command{
		Name:   "root",
		Writer: &buf,
		Commands: []*cli.Command{
			{Name: "visible1"},
			{Name: "hidden", Hidden: true},
			{Name: "visible2"},
		},
	}
	commandLister(context.Background(), root)
	assert.Equal(t, "visible1\nvisible2\n", buf.String())
}
