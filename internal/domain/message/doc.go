// Package message defines the closed set of messages exchanged between
// applications, the application manager and system services.
//
// Every concrete message type implements Message; the set is sealed by an
// unexported method so dispatchers can switch over it exhaustively:
//
//	switch m := msg.(type) {
//	case *message.Switch:
//	    ...
//	case *message.Refresh:
//	    ...
//	}
//
// Navigation payloads travel as a Handoff, which hands its SwitchData to
// exactly one taker.
package message
