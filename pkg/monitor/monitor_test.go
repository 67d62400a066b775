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
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamma-dev/brokkr/pkg/collector"
	"github.com/hamma-dev/brokkr/pkg/measurement"
	"github.com/hamma-dev/brokkr/pkg/scheduler"
)

type memorySink struct {
	mu       sync.Mutex
	records  []*measurement.Record
	ensured  bool
	ensureEr error
	writeErr error
}

func (s *memorySink) EnsureDir() error {
	s.ensured = true
	return s.ensureEr
}

func (s *memorySink) Append(rec *measurement.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return "", s.writeErr
	}
	s.records = append(s.records, rec)
	return "memory", nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	states []string
}

func (n *recordingNotifier) Notify(state string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.states = append(n.states, state)
	return true, nil
}

func (n *recordingNotifier) WatchdogInterval() (time.Duration, error) {
	return 0, nil
}

func sources(extra ...collector.DataSource) []collector.DataSource {
	status := measurement.NewRecord()
	status.Set("sequence_count", measurement.Uint64(5))
	status.Set("crc_errors", measurement.NA())

	return append([]collector.DataSource{
		{Name: "ping", Fetch: func(context.Context) (any, error) { return 0, nil }},
		{Name: "hs", Fetch: func(context.Context) (any, error) { return status, nil }, Unpack: true},
	}, extra...)
}

func TestMonitor_Tick(t *testing.T) {
	sink := &memorySink{}
	var out bytes.Buffer
	m := New(Config{
		Sources:  sources(),
		Sink:     sink,
		Verbose:  true,
		Stdout:   &out,
		Notifier: &recordingNotifier{},
	})

	okBefore := testutil.ToFloat64(ticksTotal.WithLabelValues(resultOK))
	writtenBefore := testutil.ToFloat64(recordsWritten)

	require.NoError(t, m.Tick(context.Background()))

	require.Len(t, sink.records, 1)
	assert.Equal(t, []string{"ping", "sequence_count", "crc_errors"}, sink.records[0].Keys())
	assert.Equal(t, "Status data: ping=0 sequence_count=5 crc_errors=NA\n", out.String())

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ticksTotal.WithLabelValues(resultOK)))
	assert.Equal(t, writtenBefore+1, testutil.ToFloat64(recordsWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(missingFields))

	latest, at, ok := m.Latest()
	require.True(t, ok)
	assert.False(t, at.IsZero())
	assert.Equal(t, 3, latest.Len())
	assert.NotEmpty(t, m.Session())
}

func TestMonitor_TickErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("collect failure", func(t *testing.T) {
		m := New(Config{Sources: sources(collector.DataSource{
			Name:  "bad",
			Fetch: func(context.Context) (any, error) { return nil, boom },
		}), Sink: &memorySink{}})

		before := testutil.ToFloat64(ticksTotal.WithLabelValues(resultError))
		err := m.Tick(context.Background())
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, before+1, testutil.ToFloat64(ticksTotal.WithLabelValues(resultError)))

		_, _, ok := m.Latest()
		assert.False(t, ok)
	})

	t.Run("write failure", func(t *testing.T) {
		m := New(Config{Sources: sources(), Sink: &memorySink{writeErr: boom}})
		assert.ErrorIs(t, m.Tick(context.Background()), boom)
	})

	t.Run("cancelled context is not a failure", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := New(Config{Sources: sources(), Sink: &memorySink{}})
		assert.NoError(t, m.Tick(ctx))
	})
}

func TestMonitor_Run(t *testing.T) {
	sink := &memorySink{}
	notifier := &recordingNotifier{}
	token := scheduler.NewToken()

	var n int
	stopAfter := collector.DataSource{
		Name: "count",
		Fetch: func(context.Context) (any, error) {
			n++
			if n == 2 {
				token.Set()
			}
			return n, nil
		},
	}

	m := New(Config{
		Sources:       sources(stopAfter),
		Sink:          sink,
		Interval:      time.Millisecond,
		SleepInterval: time.Millisecond,
		Notifier:      notifier,
	})

	require.NoError(t, m.Run(context.Background(), token))

	assert.True(t, sink.ensured)
	assert.Len(t, sink.records, 2)
	assert.Equal(t, []string{"READY=1", "STOPPING=1"}, notifier.states)
	assert.False(t, token.IsSet())
}

func TestMonitor_RunEnsureDirFailure(t *testing.T) {
	m := New(Config{
		Sources:  sources(),
		Sink:     &memorySink{ensureEr: errors.New("read-only")},
		Notifier: &recordingNotifier{},
	})
	assert.Error(t, m.Run(context.Background(), nil))
}

func TestMonitor_RunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New(Config{
		Sources:       sources(),
		Sink:          &memorySink{},
		Interval:      time.Hour,
		SleepInterval: 10 * time.Millisecond,
		Notifier:      &recordingNotifier{},
	})

	done := make(chan error)
	go func() { done <- m.Run(ctx, nil) }()

	require.Eventually(t, func() bool {
		_, _, ok := m.Latest()
		return ok
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}
}
