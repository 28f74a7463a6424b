// Package logging provides structured logging for linkframe.
//
// This package wraps a package-level zap logger with convenience functions,
// plus a protocol.Observer that turns decoder diagnostics into log entries.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Frame traces, hex dumps, discarded bytes
//   - Info: Simulation start and finish, configuration in use
//   - Warn: Corrupt frames
//   - Error: Failures that end a command
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Simulation finished",
//	    zap.String("medium", "lownoise"),
//	    zap.Int("frames_corrupt", 3),
//	)
//
// # Frame Logging
//
//	logging.LogFrame("sent", codec.Tags(), frame)
//	decoder := codec.NewDecoderWithObserver(logging.NewFrameObserver("receiver"))
//
// # Configuration
//
// Console logging is silent unless a level is given or LINKFRAME_LOG_LEVEL is
// set. A log file, when configured, is written as JSON through a rotating
// writer:
//
//	err := logging.InitializeWithOptions(logging.Options{
//	    Level:     "debug",
//	    File:      "/var/log/linksim.log",
//	    MaxSizeMB: 10,
//	})
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once initialization has
// completed. Initialize before starting goroutines that log.
package logging
