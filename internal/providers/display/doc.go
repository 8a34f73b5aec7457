// Package display is the rendering endpoint of the phone runtime.
//
// Sink receives the draw requests applications produce and writes each one
// as a JSON line, standing in for the e-ink driver. The panel's refresh rate
// is modelled with a token bucket.
package display
