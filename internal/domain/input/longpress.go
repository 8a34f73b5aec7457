package input

import "time"

// Phase is the resting state of the long-press machine
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
)

// String returns the string representation of the phase
func (p Phase) String() string {
	if p == PhaseArmed {
		return "armed"
	}
	return "idle"
}

// Outcome is the transition a single event caused
type Outcome int

const (
	// OutcomeNone means the event did not change the machine
	OutcomeNone Outcome = iota
	// OutcomeArmed means a press (re)started the hold
	OutcomeArmed
	// OutcomeCanceled means the key was released before expiry
	OutcomeCanceled
	// OutcomeExpired means the hold lasted long enough and a long press was synthesized
	OutcomeExpired
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeArmed:
		return "armed"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeExpired:
		return "expired"
	default:
		return "none"
	}
}

// LongPress detects held keys.
//
// Idle -> Armed on a press (caching the key), Armed -> Idle either on a
// release (Canceled) or on a tick past the threshold (Expired). Expired and
// Canceled are outcomes, not resting phases. The machine never reads a clock,
// so every interleaving can be driven from tests.
type LongPress struct {
	threshold time.Duration
	phase     Phase
	cached    Event
}

// NewLongPress creates an idle machine
func NewLongPress(threshold time.Duration) *LongPress {
	return &LongPress{threshold: threshold}
}

// Threshold returns the hold duration needed for a long press
func (l *LongPress) Threshold() time.Duration {
	return l.threshold
}

// Phase returns the current phase
func (l *LongPress) Phase() Phase {
	return l.phase
}

// Cached returns the key held while armed
func (l *LongPress) Cached() (Event, bool) {
	return l.cached, l.phase == PhaseArmed
}

// OnKey feeds an input event into the machine
func (l *LongPress) OnKey(ev Event) Outcome {
	switch {
	case ev.IsPress():
		l.phase = PhaseArmed
		l.cached = ev
		return OutcomeArmed
	case ev.IsShortRelease(), ev.IsLongRelease():
		if l.phase != PhaseArmed {
			return OutcomeNone
		}
		l.reset()
		return OutcomeCanceled
	default:
		return OutcomeNone
	}
}

// OnTick feeds a timer tick into the machine. On expiry it returns the
// synthesized long-press event built from the cached key.
func (l *LongPress) OnTick(now time.Time) (Event, Outcome) {
	if l.phase != PhaseArmed {
		return Event{}, OutcomeNone
	}
	if now.Sub(l.cached.Time) < l.threshold {
		return Event{}, OutcomeNone
	}

	synth := Event{Key: l.cached.Key, State: StateLongPress, Time: now}
	l.reset()
	return synth, OutcomeExpired
}

func (l *LongPress) reset() {
	l.phase = PhaseIdle
	l.cached = Event{}
}
