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

package serializer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/hamma-dev/brokkr/pkg/defaults"
	"github.com/hamma-dev/brokkr/pkg/measurement"
)

// DateFormat is the date layout embedded in rotated file names.
const DateFormat = "2006-01-02"

// CSVSinkOption configures a CSVSink.
type CSVSinkOption func(*CSVSink)

// WithClock sets the clock used to pick the daily file.
func WithClock(clk clock.PassiveClock) CSVSinkOption {
	return func(s *CSVSink) {
		s.clock = clk
	}
}

// CSVSink appends records to a CSV file, one line per record.
type CSVSink struct {
	path   string
	prefix string
	clock  clock.PassiveClock
	mu     sync.Mutex
}

// NewCSVSink returns a sink writing to path. A path without an extension is a
// directory holding daily files named <prefix>_<date>.csv.
func NewCSVSink(path, prefix string, opts ...CSVSinkOption) *CSVSink {
	if prefix == "" {
		prefix = defaults.FilenamePrefix
	}
	s := &CSVSink{
		path:   path,
		prefix: prefix,
		clock:  clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rotates reports whether the sink writes daily files into a directory.
func (s *CSVSink) Rotates() bool {
	return filepath.Ext(s.path) == ""
}

// Dir returns the directory files are written to.
func (s *CSVSink) Dir() string {
	if s.Rotates() {
		return s.path
	}
	return filepath.Dir(s.path)
}

// FileFor returns the file a record taken at t is written to.
func (s *CSVSink) FileFor(t time.Time) string {
	if !s.Rotates() {
		return s.path
	}
	name := fmt.Sprintf("%s_%s.csv", s.prefix, t.UTC().Format(DateFormat))
	return filepath.Join(s.path, name)
}

// EnsureDir creates the output directory if it does not exist.
func (s *CSVSink) EnsureDir() error {
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.Dir(), err)
	}
	return nil
}

// Append writes rec to the current file and returns its path. The header
// line is written when the file is empty.
func (s *CSVSink) Append(rec *measurement.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.FileFor(s.clock.Now())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return path, fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return path, fmt.Errorf("failed to stat output file: %w", err)
	}

	if err := writeCSV(f, rec, info.Size() == 0); err != nil {
		return path, err
	}
	return path, f.Close()
}

// Serialize implements Serializer for *measurement.Record values.
func (s *CSVSink) Serialize(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec, ok := data.(*measurement.Record)
	if !ok {
		return fmt.Errorf("csv sink needs a record, got %T", data)
	}
	_, err := s.Append(rec)
	return err
}
