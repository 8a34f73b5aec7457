/*
Package telemetry is the source of status bar values and the gateway to
hardware indicators.

Readings published here update the snapshot applications pull while
rendering and are broadcast to every actor as BatteryStatus, SIMState,
SignalStrength, NetworkAccess and MinuteTick messages.

Toggle performs the synchronous set_indicator round trip. Each indicator has
its own circuit breaker, so a driver that stops answering fails fast after a
few timeouts. Answers are JSON:

	{"indicator":"torch","on":true,"status":"ok"}
*/
package telemetry
