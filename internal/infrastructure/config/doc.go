// Package config provides 12-factor configuration management for the phone runtime.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Runtime: long-press timing, indicator round-trip timeout, default window
//   - Logging: Log level and output format
//   - Debug: debug HTTP server (metrics, health, app stats)
//   - Display: e-ink refresh budget
//   - Manifest: location of the application manifest
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	lp := input.NewLongPress(cfg.Runtime.LongPressThreshold)
//
// Environment Variables:
//   - LONG_PRESS_THRESHOLD, LONG_PRESS_POLL, INDICATOR_TIMEOUT, DEFAULT_WINDOW
//   - LOG_LEVEL, LOG_DEV
//   - DEBUG_ADDR, DEBUG_ENABLED
//   - DISPLAY_FPS, DISPLAY_BURST
//   - MANIFEST_PATH
package config
