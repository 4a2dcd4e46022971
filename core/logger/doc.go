// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production).
//
// # Run Correlation
//
// Every reconcile run is assigned a unique run id. The WithRunID helper
// attaches it to the log entry, ensuring that all logs belonging to a
// specific run can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Run started")
//
//	// Inside the engine:
//	l := logger.WithRunID(log, runID)
//	l.Warn("Phase entry missing", zap.String("name", name))
package logger
