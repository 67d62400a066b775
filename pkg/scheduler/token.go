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
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Token is a cancellation flag shared between the scheduler and whoever
// wants to stop it. The zero value is not usable; create one with NewToken.
type Token struct {
	mu  sync.Mutex
	set bool
	ch  chan struct{}
}

// NewToken returns a cleared token.
func NewToken() *Token {
	return &Token{ch: make(chan struct{})}
}

// Set raises the flag and wakes every waiter. It is safe to call from any
// goroutine and more than once.
func (t *Token) Set() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.set {
		return
	}
	t.set = true
	close(t.ch)
}

// IsSet reports whether the flag is raised.
func (t *Token) IsSet() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set
}

// Clear lowers the flag so the token can be reused for another run.
func (t *Token) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.set {
		return
	}
	t.set = false
	t.ch = make(chan struct{})
}

// Wait blocks until the token is set or d has elapsed on clk, and reports
// whether the token is set.
func (t *Token) Wait(clk clock.Clock, d time.Duration) bool {
	t.mu.Lock()
	set, ch := t.set, t.ch
	t.mu.Unlock()

	if set {
		return true
	}
	if d <= 0 {
		return false
	}

	timer := clk.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ch:
		return true
	case <-timer.C():
		return t.IsSet()
	}
}
