// Package logging provides structured logging for SmartThermo.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used across the menu engine, the config store and the network API.
//
// # Log Levels
//
//   - Debug: every dispatched menu input, WebSocket frames
//   - Info: commits, HTTP requests, store saves and reloads
//   - Warn: failed commits, rejected API writes, watcher hiccups
//   - Error: failed actions, startup failures
//
// # Configuration
//
// Logging is silent unless a level is given, either explicitly or through the
// SMARTTHERMO_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Output goes to stderr so it never interleaves with the menu TUI on stdout.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and SetLogger
// are not and belong in program startup.
package logging
