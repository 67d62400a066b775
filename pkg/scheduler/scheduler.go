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

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"k8s.io/utils/clock"

	"github.com/hamma-dev/brokkr/pkg/defaults"
	"github.com/hamma-dev/brokkr/pkg/logging"
)

// TickFunc is one unit of scheduled work. A returned error is logged and does
// not stop the schedule.
type TickFunc func(ctx context.Context) error

// Config controls the cadence of Run.
type Config struct {
	// Interval between tick starts. Defaults to defaults.MonitorInterval.
	Interval time.Duration

	// SleepInterval bounds each wait step and therefore how long a Set on
	// the token can go unnoticed. Defaults to defaults.SleepInterval.
	SleepInterval time.Duration

	// Start is the alignment origin. Defaults to the clock's current time.
	Start time.Time

	// Clock defaults to clock.RealClock.
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = defaults.MonitorInterval
	}
	if c.SleepInterval <= 0 {
		c.SleepInterval = defaults.SleepInterval
	}
	if c.Clock == nil {
		c.Clock = clock.RealClock{}
	}
	if c.Start.IsZero() {
		c.Start = c.Clock.Now()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// NextTick returns the first instant after now that lies on the grid
// start + k*interval.
func NextTick(now, start time.Time, interval time.Duration) time.Time {
	offset := now.Sub(start) % interval
	if offset < 0 {
		offset += interval
	}
	return now.Add(interval - offset)
}

// Run calls tick on the schedule described by cfg until token is set or ctx
// is done. The token is cleared when Run returns. A nil token is replaced by a
// private one, leaving ctx as the only way to stop.
func Run(ctx context.Context, cfg Config, tick TickFunc, token *Token) {
	cfg = cfg.withDefaults()
	if token == nil {
		token = NewToken()
	}

	// Clear must not race a late Set from the cancellation callback.
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		token.Set()
		close(fired)
	})
	defer func() {
		if !stop() {
			<-fired
		}
		token.Clear()
	}()

	cfg.Logger.Debug("scheduler started",
		"interval", cfg.Interval,
		"sleepInterval", cfg.SleepInterval,
		"start", cfg.Start)

	for !token.IsSet() && ctx.Err() == nil {
		runTick(ctx, cfg.Logger, tick)

		next := NextTick(cfg.Clock.Now(), cfg.Start, cfg.Interval)
		for !token.IsSet() {
			remaining := next.Sub(cfg.Clock.Now())
			if remaining <= 0 {
				break
			}
			token.Wait(cfg.Clock, min(remaining, cfg.SleepInterval))
		}
	}

	cfg.Logger.Debug("scheduler stopped")
}

func runTick(ctx context.Context, logger *slog.Logger, tick TickFunc) {
	defer func() {
		if r := recover(); r != nil {
			logging.Critical(ctx, logger, "tick panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()

	if err := tick(ctx); err != nil {
		logging.Critical(ctx, logger, "tick failed", "error", err)
	}
}
