// Package log provides structured connection event capture for mercury.
//
// This package defines the Logger interface and Event types for recording
// what happens to the event channel: socket state changes, control frames
// (ping, pong, close, shutdown), inbound envelopes and errors. It is separate
// from operational logging (slog); the capture is a machine-readable trace
// for post-mortem analysis of reconnect and switchover behavior.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/mercury/client.mlog")
//
//	// Both
//	cfg.EventLogger = log.NewMultiLogger(a, b)
//
// # Event Types
//
// Events are captured at three layers:
//   - Transport: socket frames and control messages
//   - Wire: decoded envelopes
//   - Service: connection manager state (connect, offline, switchover)
//
// # File Format
//
// Log files use CBOR encoding with the .mlog extension. The mercury-log CLI
// provides viewing, statistics and export.
package log
