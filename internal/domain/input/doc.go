// Package input turns raw keypad activity into input events for applications.
//
// Key Components:
//   - Translator: converts raw press/release reports into input events
//   - LongPress: three-state machine promoting a held key into a synthesized
//     long-press event, driven only by key events and ticks
//   - Ticker: periodic timer whose ticks are delivered back to the owning actor
//
// Example Usage:
//
//	lp := input.NewLongPress(time.Second)
//	lp.OnKey(ev)                      // Pressed arms, release cancels
//	if synth, out := lp.OnTick(now); out == input.OutcomeExpired {
//	    post(synth)
//	}
package input
