// Package logging provides structured logging for sardana2xls.
//
// It wraps the standard log/slog package with the settings from the logging
// section of the configuration:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// Standard output is reserved for the console printer, so the default output
// is stderr.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("Create motors", "count", 12)
//	logger.Warn("alias not found", "device", name)
package logging
