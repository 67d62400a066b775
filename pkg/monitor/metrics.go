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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	ticksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brokkr_ticks_total",
			Help: "Total number of monitoring ticks by result",
		},
		[]string{"result"},
	)

	tickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brokkr_tick_duration_seconds",
			Help:    "Time spent collecting and writing one record",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	lastTick = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brokkr_last_tick_timestamp_seconds",
			Help: "Unix time of the last successful tick",
		},
	)

	recordsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brokkr_records_written_total",
			Help: "Total number of records appended to the output",
		},
	)

	missingFields = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brokkr_missing_fields",
			Help: "Number of NA fields in the last record",
		},
	)
)
