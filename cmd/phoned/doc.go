// Command phoned runs the phone application runtime.
//
// Applications come from a TOML or YAML manifest. Frames are written to
// stdout as JSON lines and keypad input is read from stdin, one key per
// line ("up", "+rf", "-rf").
//
// Usage:
//
//	phoned -manifest apps.toml
//
// Configuration is read from the environment; see package config.
package main
