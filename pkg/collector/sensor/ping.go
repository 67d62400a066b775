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

package sensor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/hamma-dev/brokkr/pkg/defaults"
)

// Reserved ping results. Real exit statuses are never negative.
const (
	PingTimedOut = -1
	PingFailed   = -9
)

type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Prober checks whether the sensor answers a single ping.
type Prober struct {
	// Host to ping. Defaults to defaults.SensorIP.
	Host string

	// Timeout passed to ping. Defaults to defaults.PingTimeout.
	Timeout time.Duration

	// Grace is added to Timeout before the ping process is killed.
	// Defaults to defaults.PingGrace.
	Grace time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	goos    string
	command commandFunc
}

// Args returns the ping arguments for goos.
func (p *Prober) Args(goos string) []string {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaults.PingTimeout
	}
	host := p.Host
	if host == "" {
		host = defaults.SensorIP
	}

	if goos == "windows" {
		return []string{"-n", "1", "-w", strconv.FormatInt(timeout.Milliseconds(), 10), host}
	}
	secs := max(1, int64((timeout+time.Second-1)/time.Second))
	return []string{"-c", "1", "-w", strconv.FormatInt(secs, 10), host}
}

// Fetch adapts Ping to a collector fetch function.
func (p *Prober) Fetch(ctx context.Context) (any, error) {
	return p.Ping(ctx), nil
}

// Ping runs ping once and returns its exit status, PingTimedOut if the
// process had to be killed, or PingFailed if it could not be run.
func (p *Prober) Ping(ctx context.Context) int {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	goos := p.goos
	if goos == "" {
		goos = runtime.GOOS
	}
	command := p.command
	if command == nil {
		command = exec.CommandContext
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaults.PingTimeout
	}
	grace := p.Grace
	if grace <= 0 {
		grace = defaults.PingGrace
	}

	args := p.Args(goos)
	cmdline := "ping " + strings.Join(args, " ")
	logger.Debug("running ping command", "command", cmdline)

	runCtx, cancel := context.WithTimeout(ctx, timeout+grace)
	defer cancel()

	cmd := command(runCtx, "ping", args...)
	cmd.WaitDelay = grace

	debug := logger.Enabled(ctx, slog.LevelDebug)
	var out bytes.Buffer
	if debug {
		cmd.Stdout = &out
		cmd.Stderr = &out
	}

	err := cmd.Run()
	if timedOut(runCtx, err) {
		logger.Warn("ping command timed out",
			"command", cmdline,
			"timeout", timeout)
		return PingTimedOut
	}

	if ctx.Err() != nil {
		logger.Debug("ping command cancelled", "command", cmdline)
		return PingFailed
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		logger.Error("failed to run ping command",
			"command", cmdline,
			"error", err)
		return PingFailed
	}

	code := cmd.ProcessState.ExitCode()
	if code < 0 {
		logger.Error("ping command terminated by signal",
			"command", cmdline,
			"state", cmd.ProcessState.String())
		return PingFailed
	}
	if debug {
		logger.Debug("ping command finished", "exitCode", code, "output", out.String())
	}
	return code
}

// timedOut reports whether the run was cut short by its deadline. A process
// that exited on its own keeps its status even if the deadline passed while
// it was being reaped.
func timedOut(runCtx context.Context, err error) bool {
	if err == nil || !errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return false
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() < 0
	}
	return true
}
