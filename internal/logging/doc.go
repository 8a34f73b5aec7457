// Package logging provides structured logging using uber/zap.
//
// This package offers two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every application actor logs through a child logger carrying its name:
//
//	logger := logging.NewDefault()
//	appLog := logger.ForApplication("ApplicationDesktop")
//	appLog.Error("No such window", zap.String("window", name))
package logging
