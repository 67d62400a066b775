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
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/hamma-dev/brokkr/pkg/collector"
	"github.com/hamma-dev/brokkr/pkg/config"
	"github.com/hamma-dev/brokkr/pkg/monitor"
	"github.com/hamma-dev/brokkr/pkg/scheduler"
	"github.com/hamma-dev/brokkr/pkg/serializer"
	"github.com/hamma-dev/brokkr/pkg/server"
)

func monitorCmd() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Record status data on a fixed schedule until interrupted",
		Description: `Collect one status record per interval and append it to the telemetry
output. When the output path has no file extension it is treated as a
directory and a new CSV file is started every UTC day.

Samples are aligned to the interval measured from start, so a slow
acquisition does not shift later samples. SIGINT or SIGTERM stops the loop
within one sleep interval.

Use --serve to expose the latest record, health checks and Prometheus
metrics over HTTP while monitoring.`,
		Flags: []cli.Flag{
			outputFlag(),
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "time between samples (overrides monitor.interval_log_s)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print every record to stdout",
			},
			&cli.BoolFlag{
				Name:  "serve",
				Usage: "run the status HTTP server (overrides server.enabled)",
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "status server listen address (overrides server.address)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyMonitorFlags(cmd, cfg)

			return runMonitor(ctx, cmd, cfg)
		},
	}
}

// applyMonitorFlags lets explicitly set flags win over the config file.
func applyMonitorFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("output") {
		cfg.Monitor.OutputPath = cmd.String("output")
	}
	if cmd.IsSet("interval") {
		if d := cmd.Duration("interval"); d > 0 {
			cfg.Monitor.IntervalLog = d.Seconds()
		}
	}
	if cmd.IsSet("serve") {
		cfg.Server.Enabled = cmd.Bool("serve")
	}
	if cmd.IsSet("address") {
		cfg.Server.Address = cmd.String("address")
	}
}

func runMonitor(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	logger := slog.Default()

	sink := serializer.NewCSVSink(cfg.OutputPath(), cfg.Monitor.FilenamePrefix)
	mon := monitor.New(monitor.Config{
		Sources:       collector.DefaultSources(cfg.SourceConfig(logger)),
		Sink:          sink,
		Interval:      cfg.Interval(),
		SleepInterval: cfg.SleepInterval(),
		Verbose:       cmd.Bool("verbose"),
		Stdout:        writerOf(cmd),
		Logger:        logger,
	})

	logger.Info("monitor configured",
		"output", cfg.OutputPath(),
		"rotates", sink.Rotates(),
		"sensor", cfg.General.SensorIP,
		"statusPort", cfg.Monitor.StatusPort,
		"powerController", cfg.SunSaver.Enabled,
		"server", cfg.Server.Enabled)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	token := scheduler.NewToken()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel()
		return mon.Run(gctx, token)
	})

	if cfg.Server.Enabled {
		srv := server.New(cfg.ServerConfig(version), mon)
		g.Go(func() error {
			return srv.Start(gctx)
		})
	}

	start := time.Now()
	err := g.Wait()
	logger.Info("monitor exited", "uptime", time.Since(start).Round(time.Second))
	return err
}
