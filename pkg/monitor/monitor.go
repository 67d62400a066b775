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

package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/hamma-dev/brokkr/pkg/collector"
	"github.com/hamma-dev/brokkr/pkg/measurement"
	"github.com/hamma-dev/brokkr/pkg/scheduler"
)

// Sink persists records.
type Sink interface {
	// EnsureDir prepares the destination before the first record.
	EnsureDir() error

	// Append writes rec and returns where it went.
	Append(rec *measurement.Record) (string, error)
}

// Config holds the dependencies and settings of a Monitor.
type Config struct {
	Sources []collector.DataSource
	Sink    Sink

	Interval      time.Duration
	SleepInterval time.Duration

	// Verbose prints every record to Stdout.
	Verbose bool
	Stdout  io.Writer

	Clock    clock.Clock
	Notifier Notifier
	Logger   *slog.Logger
}

// Monitor collects and records status data on a schedule.
type Monitor struct {
	cfg     Config
	session string

	mu      sync.RWMutex
	latest  *measurement.Record
	latestT time.Time
}

// New returns a Monitor for cfg.
func New(cfg Config) *Monitor {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = SystemdNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	session := uuid.NewString()
	cfg.Logger = cfg.Logger.With("session", session)

	return &Monitor{cfg: cfg, session: session}
}

// Session returns the identifier logged with every line of this monitor.
func (m *Monitor) Session() string {
	return m.session
}

// Latest returns the most recently recorded record and when it was taken.
func (m *Monitor) Latest() (*measurement.Record, time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return nil, time.Time{}, false
	}
	return m.latest.Clone(), m.latestT, true
}

// Collect gathers one record without persisting it.
func (m *Monitor) Collect(ctx context.Context) (*measurement.Record, error) {
	return collector.Collect(ctx, m.cfg.Sources)
}

// Tick collects one record and writes it to the sink. It is the scheduler's
// tick function.
func (m *Monitor) Tick(ctx context.Context) error {
	start := m.cfg.Clock.Now()
	err := m.tick(ctx)
	tickDuration.Observe(m.cfg.Clock.Since(start).Seconds())

	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		ticksTotal.WithLabelValues(resultError).Inc()
		return err
	}

	ticksTotal.WithLabelValues(resultOK).Inc()
	lastTick.Set(float64(m.cfg.Clock.Now().Unix()))
	return nil
}

func (m *Monitor) tick(ctx context.Context) error {
	logger := m.cfg.Logger

	rec, err := m.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect status data: %w", err)
	}
	logger.Debug("status data collected", "record", summarize(rec))

	if m.cfg.Verbose {
		fmt.Fprintf(m.cfg.Stdout, "Status data: %s\n", summarize(rec))
	}

	na := 0
	for _, v := range rec.All() {
		if measurement.IsNA(v) {
			na++
		}
	}
	missingFields.Set(float64(na))

	m.mu.Lock()
	m.latest, m.latestT = rec, m.cfg.Clock.Now()
	m.mu.Unlock()

	if m.cfg.Sink == nil {
		return nil
	}
	path, err := m.cfg.Sink.Append(rec)
	if err != nil {
		return fmt.Errorf("failed to write status data: %w", err)
	}
	recordsWritten.Inc()
	logger.Debug("wrote monitoring output", "path", path)

	return nil
}

// Run ticks until token is set or ctx is done. A nil token is allowed.
func (m *Monitor) Run(ctx context.Context, token *scheduler.Token) error {
	logger := m.cfg.Logger

	if m.cfg.Sink != nil {
		if err := m.cfg.Sink.EnsureDir(); err != nil {
			return err
		}
	}

	logger.Info("starting monitoring",
		"interval", m.cfg.Interval,
		"sources", len(m.cfg.Sources))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		notify(logger, m.cfg.Notifier, daemon.SdNotifyReady)
		scheduler.Run(gctx, scheduler.Config{
			Interval:      m.cfg.Interval,
			SleepInterval: m.cfg.SleepInterval,
			Clock:         m.cfg.Clock,
			Logger:        logger,
		}, m.Tick, token)
		return nil
	})
	g.Go(func() error {
		feedWatchdog(gctx, logger, m.cfg.Notifier)
		return nil
	})

	err := g.Wait()
	notify(logger, m.cfg.Notifier, daemon.SdNotifyStopping)
	logger.Info("monitoring stopped")
	return err
}

// summarize renders rec as space separated key=value pairs.
func summarize(rec *measurement.Record) string {
	var b strings.Builder
	for k, v := range rec.All() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v.String())
	}
	return b.String()
}
