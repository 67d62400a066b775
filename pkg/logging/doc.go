// Package logging provides structured logging utilities for brokkr components.
//
// # Overview
//
// This package wraps the standard library slog package with brokkr defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//   - CRITICAL: Failures caught at the monitoring loop boundary
//
// Expected link conditions (sensor offline, receive timeout) are logged at
// DEBUG; unexpected acquisition faults at ERROR; tick failures at CRITICAL.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("brokkr", "v0.4.0")
//	    slog.Info("monitoring started", "interval", "60s")
//	}
//
// Logging at the critical level:
//
//	logging.Critical(ctx, slog.Default(), "tick failed", "error", err)
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug brokkr monitor
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "CRITICAL",
//	    "msg": "tick failed",
//	    "module": "brokkr",
//	    "version": "v0.4.0",
//	    "error": "collect hs: ..."
//	}
package logging
