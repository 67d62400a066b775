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
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hamma-dev/brokkr/pkg/collector"
	"github.com/hamma-dev/brokkr/pkg/config"
	"github.com/hamma-dev/brokkr/pkg/header"
	"github.com/hamma-dev/brokkr/pkg/measurement"
	"github.com/hamma-dev/brokkr/pkg/serializer"
)

// statusDocument is the JSON and YAML form of a one-shot status record.
type statusDocument struct {
	header.Header `json:",inline" yaml:",inline"`

	Status *measurement.Record `json:"status" yaml:"status"`
}

// configDocument is the rendered effective configuration.
type configDocument struct {
	header.Header `json:",inline" yaml:",inline"`

	Config *config.Config `json:"config" yaml:"config"`
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Collect and print one status record",
		Description: `Query every configured data source once and print the merged record:
  - current time and process runtime
  - sensor reachability (ping exit code)
  - power controller registers, when the sunsaver section is enabled
  - the sensor status datagram

Nothing is written to the telemetry directory. JSON and YAML output carry a
document header; table and csv output print the record alone.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "fields",
				Usage: "comma separated field patterns to print, wildcards allowed (e.g. 'adc_*,ping')",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			rec, err := collector.Collect(ctx, collector.DefaultSources(cfg.SourceConfig(slog.Default())))
			if err != nil {
				return fmt.Errorf("failed to collect status data: %w", err)
			}
			if patterns := measurement.ParsePatterns(cmd.String("fields")); len(patterns) > 0 {
				rec = rec.Select(patterns...)
			}

			ser := newWriter(cmd, outFormat)
			defer closeWriter(ser)

			return writeStatus(ctx, ser, outFormat, rec)
		},
	}
}

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Description: `Print the configuration after defaults and BROKKR_<SECTION>_<KEY>
environment overrides are applied.`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			if outFormat == serializer.FormatCSV {
				return fmt.Errorf("csv output is only supported for status records")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ser := newWriter(cmd, outFormat)
			defer closeWriter(ser)

			return ser.Serialize(ctx, &configDocument{
				Header: *header.New(header.KindConfig, header.WithVersion(version)),
				Config: cfg,
			})
		},
	}
}

// writeStatus serializes rec, wrapping it in a header for structured formats.
func writeStatus(ctx context.Context, ser serializer.Serializer, format serializer.Format, rec *measurement.Record) error {
	switch format {
	case serializer.FormatJSON, serializer.FormatYAML:
		return ser.Serialize(ctx, &statusDocument{
			Header: *header.New(header.KindStatus, header.WithVersion(version)),
			Status: rec,
		})
	default:
		return ser.Serialize(ctx, rec)
	}
}

// newWriter writes to --output when set and to the command's writer otherwise.
func newWriter(cmd *cli.Command, format serializer.Format) *serializer.Writer {
	if path := strings.TrimSpace(cmd.String("output")); path != "" {
		return serializer.NewFileWriterOrStdout(format, path)
	}
	return serializer.NewWriter(format, writerOf(cmd))
}

func closeWriter(w *serializer.Writer) {
	if err := w.Close(); err != nil {
		slog.Warn("failed to close serializer", "error", err)
	}
}
