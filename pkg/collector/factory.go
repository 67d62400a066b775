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

package collector

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/utils/clock"

	"github.com/hamma-dev/brokkr/pkg/collector/power"
	"github.com/hamma-dev/brokkr/pkg/collector/sensor"
	"github.com/hamma-dev/brokkr/pkg/decoder"
)

// Source names in dispatch order.
const (
	SourceTime     = "time"
	SourceRuntime  = "runtime"
	SourcePing     = "ping"
	SourceSunSaver = "sunsaver"
	SourceStatus   = "hs"
)

// processStart is captured at package init and used as the runtime origin
// when SourceConfig.ProcessStart is unset.
var processStart = time.Now()

// SourceConfig carries the resolved settings for DefaultSources.
type SourceConfig struct {
	SensorHost    string
	LocalHost     string
	StatusPort    int
	StatusTimeout time.Duration
	PingTimeout   time.Duration

	// Power enables the power controller source when non-nil.
	Power *power.Config

	// ProcessStart is the origin of the runtime source.
	ProcessStart time.Time

	// Clock defaults to clock.RealClock.
	Clock clock.PassiveClock

	Logger *slog.Logger
}

// DefaultSources returns the production data sources in dispatch order.
func DefaultSources(cfg SourceConfig) []DataSource {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	start := cfg.ProcessStart
	if start.IsZero() {
		start = processStart
	}

	prober := &sensor.Prober{
		Host:    cfg.SensorHost,
		Timeout: cfg.PingTimeout,
		Logger:  cfg.Logger,
	}

	sources := []DataSource{
		{Name: SourceTime, Fetch: TimeSource(clk)},
		{Name: SourceRuntime, Fetch: RuntimeSource(clk, start)},
		{Name: SourcePing, Fetch: prober.Fetch},
	}

	if cfg.Power != nil {
		pc := *cfg.Power
		if pc.Logger == nil {
			pc.Logger = cfg.Logger
		}
		sources = append(sources, DataSource{
			Name:   SourceSunSaver,
			Fetch:  power.New(pc).Fetch,
			Unpack: true,
		})
	}

	sources = append(sources, DataSource{
		Name: SourceStatus,
		Fetch: sensor.StatusSource(sensor.PacketConfig{
			Host:    cfg.LocalHost,
			Port:    cfg.StatusPort,
			Timeout: cfg.StatusTimeout,
			Logger:  cfg.Logger,
		}, decoder.NewStatusDecoder()),
		Unpack: true,
	})

	return sources
}

// TimeSource reports the current UTC time.
func TimeSource(clk clock.PassiveClock) FetchFunc {
	return func(context.Context) (any, error) {
		return clk.Now().UTC(), nil
	}
}

// RuntimeSource reports the seconds elapsed since start.
func RuntimeSource(clk clock.PassiveClock, start time.Time) FetchFunc {
	return func(context.Context) (any, error) {
		return clk.Since(start).Seconds(), nil
	}
}
