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
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier reports service state to the init system.
type Notifier interface {
	// Notify sends state and reports whether it was delivered.
	Notify(state string) (bool, error)

	// WatchdogInterval returns the watchdog timeout, or 0 when disabled.
	WatchdogInterval() (time.Duration, error)
}

// SystemdNotifier talks to systemd over $NOTIFY_SOCKET. It is a no-op when
// the process is not run by systemd.
type SystemdNotifier struct{}

// Notify implements Notifier.
func (SystemdNotifier) Notify(state string) (bool, error) {
	return daemon.SdNotify(false, state)
}

// WatchdogInterval implements Notifier.
func (SystemdNotifier) WatchdogInterval() (time.Duration, error) {
	return daemon.SdWatchdogEnabled(false)
}

func notify(logger *slog.Logger, n Notifier, state string) {
	sent, err := n.Notify(state)
	if err != nil {
		logger.Warn("failed to notify service manager", "state", state, "error", err)
		return
	}
	if sent {
		logger.Debug("notified service manager", "state", state)
	}
}

// feedWatchdog pings the watchdog at half its interval until ctx is done.
func feedWatchdog(ctx context.Context, logger *slog.Logger, n Notifier) {
	interval, err := n.WatchdogInterval()
	if err != nil {
		logger.Warn("failed to read watchdog settings", "error", err)
		return
	}
	if interval <= 0 {
		return
	}

	logger.Debug("feeding service watchdog", "interval", interval)
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			notify(logger, n, daemon.SdNotifyWatchdog)
		}
	}
}
