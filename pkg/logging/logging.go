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

package logging

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// LevelCritical is above slog.LevelError and marks failures caught at the
// outermost loop boundary.
const LevelCritical = slog.Level(12)

const (
	// EnvLogLevel names the environment variable read by SetDefaultStructuredLogger.
	EnvLogLevel = "LOG_LEVEL"

	levelCriticalName = "CRITICAL"
)

// ParseLogLevel converts a case-insensitive level name into a slog.Level.
// Unknown values fall back to slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical", "fatal":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

// NewStructuredLogger returns a JSON logger writing to stderr with module and
// version attached to every record.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	return newLogger(os.Stderr, module, version, ParseLogLevel(level))
}

// SetDefaultStructuredLogger installs a structured logger as the slog default,
// taking the level from the LOG_LEVEL environment variable.
func SetDefaultStructuredLogger(module, version string) {
	SetDefaultStructuredLoggerWithLevel(module, version, os.Getenv(EnvLogLevel))
}

// SetDefaultStructuredLoggerWithLevel installs a structured logger with an
// explicit level as the slog default.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(module, version, level))
}

// NewLogLogger adapts the default slog handler to a standard library *log.Logger.
func NewLogLogger(level slog.Level, addSource bool) *log.Logger {
	h := newHandler(os.Stderr, level, addSource)
	return slog.NewLogLogger(h, level)
}

// Critical logs msg at LevelCritical. A nil logger uses slog.Default().
func Critical(ctx context.Context, logger *slog.Logger, msg string, args ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(ctx, LevelCritical, msg, args...)
}

func newLogger(w io.Writer, module, version string, level slog.Level) *slog.Logger {
	h := newHandler(w, level, level <= slog.LevelDebug)
	return slog.New(h).With(
		slog.String("module", module),
		slog.String("version", version),
	)
}

func newHandler(w io.Writer, level slog.Level, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   addSource,
		Level:       level,
		ReplaceAttr: replaceLevel,
	})
}

// replaceLevel renders LevelCritical by name instead of "ERROR+4".
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue(levelCriticalName)
	}
	return a
}
