// Package types provides shared data structures for the phone application runtime.
//
// This package defines the small vocabulary used across the runtime so that the
// window, message and application packages agree on it without importing each
// other.
//
// Core Types:
//   - State: Application lifecycle state
//   - ShowMode, RefreshMode: Window presentation hints
//   - DrawTag, DrawCommand: Outgoing render requests
//   - Indicators: Read-only snapshot of ambient telemetry (battery, SIM, signal, network)
//   - AppInfo, Stats: Application manager bookkeeping
//
// Example Usage:
//
//	if state == types.StateActiveForeground {
//	    snapshot := telemetry.Indicators()
//	    window.UpdateBatteryStatus(snapshot.BatteryLevel, snapshot.Charging)
//	}
package types
