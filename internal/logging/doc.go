// Package logging provides structured logging for devinv.
//
// This package wraps a package-level zap logger with convenience functions.
// Logging is silent by default so that console output and the terminal UI
// stay clean. Set DEVINV_LOG_LEVEL (or pass --log-level) to "debug", "info",
// "warn" or "error" to enable it.
//
// # Output
//
// Command-line subcommands log to stderr. The interactive dashboard owns the
// terminal, so it initializes logging with a file path instead:
//
//	if err := logging.Initialize(logging.Options{Level: "debug", File: path}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # API Traffic
//
// The gateway reports every request through LogAPIRequest and LogAPIResponse
// with the request id it attached, so one call can be followed across lines:
//
//	2026-10-19T10:30:45.123+0800  DEBUG  API response
//	  request_id=6f1c... method=PUT path=/api/devices/SRV-001 status=200 duration=12ms
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
