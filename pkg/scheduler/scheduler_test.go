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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNextTick(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"on grid", t0, t0.Add(10 * time.Second)},
		{"short tick", t0.Add(3 * time.Second), t0.Add(10 * time.Second)},
		{"long tick skips slot", t0.Add(15 * time.Second), t0.Add(20 * time.Second)},
		{"just before slot", t0.Add(9999 * time.Millisecond), t0.Add(10 * time.Second)},
		{"before start", t0.Add(-3 * time.Second), t0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextTick(tt.now, t0, 10*time.Second)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.now))
		})
	}
}

// driveClock steps fc by step whenever something waits on it, until done closes.
func driveClock(fc *clocktesting.FakeClock, step time.Duration, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}
		if fc.HasWaiters() {
			fc.Step(step)
			continue
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRun_DriftAlignment(t *testing.T) {
	fc := clocktesting.NewFakeClock(t0)
	token := NewToken()

	// Each tick consumes a different amount of fake time. The third overruns
	// the interval and must land on the next free slot.
	work := []time.Duration{3 * time.Second, 1 * time.Second, 14 * time.Second, 0}
	var starts []time.Time

	tick := func(context.Context) error {
		i := len(starts)
		starts = append(starts, fc.Now())
		if i == len(work)-1 {
			token.Set()
			return nil
		}
		fc.Step(work[i])
		return nil
	}

	done := make(chan struct{})
	go driveClock(fc, 500*time.Millisecond, done)

	Run(context.Background(), Config{
		Interval:      10 * time.Second,
		SleepInterval: time.Second,
		Start:         t0,
		Clock:         fc,
	}, tick, token)
	close(done)

	want := []time.Time{
		t0,
		t0.Add(10 * time.Second),
		t0.Add(20 * time.Second),
		t0.Add(40 * time.Second),
	}
	assert.Equal(t, want, starts)
	assert.False(t, token.IsSet(), "token must be cleared on exit")
}

func TestRun_StopsWithinSleepInterval(t *testing.T) {
	token := NewToken()
	var ticks atomic.Int32

	tick := func(context.Context) error {
		ticks.Add(1)
		return nil
	}

	const sleep = 20 * time.Millisecond
	finished := make(chan time.Time)
	go func() {
		Run(context.Background(), Config{Interval: time.Hour, SleepInterval: sleep}, tick, token)
		finished <- time.Now()
	}()

	require.Eventually(t, func() bool { return ticks.Load() == 1 }, time.Second, time.Millisecond)
	setAt := time.Now()
	token.Set()

	select {
	case at := <-finished:
		assert.Less(t, at.Sub(setAt), sleep+250*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	assert.Equal(t, int32(1), ticks.Load())
	assert.False(t, token.IsSet())

	// The cleared token drives a second run.
	go func() {
		Run(context.Background(), Config{Interval: time.Hour, SleepInterval: sleep}, tick, token)
		finished <- time.Now()
	}()
	require.Eventually(t, func() bool { return ticks.Load() == 2 }, time.Second, time.Millisecond)
	token.Set()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("second run did not stop")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	token := NewToken()
	started := make(chan struct{})
	var once sync.Once

	tick := func(context.Context) error {
		once.Do(func() { close(started) })
		return nil
	}

	finished := make(chan struct{})
	go func() {
		Run(ctx, Config{Interval: time.Hour, SleepInterval: 10 * time.Millisecond}, tick, token)
		close(finished)
	}()

	<-started
	cancel()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler ignored context cancellation")
	}
}

func TestRun_CancelledContextSkipsTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	Run(ctx, Config{Interval: time.Hour}, func(context.Context) error {
		called = true
		return nil
	}, nil)
	assert.False(t, called)
}

func TestRun_TokenReusableAfterCancelledContext(t *testing.T) {
	token := NewToken()
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Run(ctx, Config{Interval: time.Hour}, func(context.Context) error { return nil }, token)
		require.False(t, token.IsSet(), "run %d left the token set", i)
	}

	var n int
	Run(context.Background(), Config{Interval: time.Hour}, func(context.Context) error {
		n++
		token.Set()
		return nil
	}, token)
	assert.Equal(t, 1, n)
	assert.False(t, token.IsSet())
}

func TestRun_TickFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	token := NewToken()
	var n int

	tick := func(context.Context) error {
		n++
		switch n {
		case 1:
			return errors.New("sensor exploded")
		case 2:
			panic("boom")
		default:
			token.Set()
			return nil
		}
	}

	Run(context.Background(), Config{
		Interval:      time.Millisecond,
		SleepInterval: time.Millisecond,
		Logger:        logger,
	}, tick, token)

	assert.Equal(t, 3, n, "loop must survive an error and a panic")
	out := buf.String()
	assert.Contains(t, out, "tick failed")
	assert.Contains(t, out, "sensor exploded")
	assert.Contains(t, out, "tick panicked")
	assert.Contains(t, out, "boom")
}

func TestToken(t *testing.T) {
	fc := clocktesting.NewFakeClock(t0)
	token := NewToken()
	assert.False(t, token.IsSet())

	assert.False(t, token.Wait(fc, 0))

	result := make(chan bool)
	go func() { result <- token.Wait(fc, time.Minute) }()
	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	fc.Step(time.Minute)
	assert.False(t, <-result, "wait should time out")

	go func() { result <- token.Wait(fc, time.Hour) }()
	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	token.Set()
	token.Set()
	assert.True(t, <-result)
	assert.True(t, token.IsSet())
	assert.True(t, token.Wait(fc, time.Hour), "set token returns immediately")

	token.Clear()
	assert.False(t, token.IsSet())
	token.Clear()
}

func TestToken_ConcurrentSet(t *testing.T) {
	token := NewToken()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token.Set()
		}()
	}
	wg.Wait()
	assert.True(t, token.IsSet())
}
