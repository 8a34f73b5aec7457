// Package monitor reports Go runtime statistics and the actors currently
// registered on the bus, for the debug server's /runtime endpoint.
package monitor
