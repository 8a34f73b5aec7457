package input

import "time"

// RawAction is what the keypad driver reports for a key
type RawAction int

const (
	RawPressed RawAction = iota
	RawReleased
)

// RawKey is a keypad driver report
type RawKey struct {
	Code   KeyCode
	Action RawAction
	Time   time.Time
}

// Translator converts raw keypad reports into input events.
// A release is long when the same key was held for at least the threshold.
type Translator struct {
	threshold time.Duration
	lastPress *RawKey
}

// NewTranslator creates a translator with the given long-press threshold
func NewTranslator(threshold time.Duration) *Translator {
	return &Translator{threshold: threshold}
}

// Translate converts one raw report
func (t *Translator) Translate(raw RawKey) Event {
	ev := Event{Key: raw.Code, Time: raw.Time}

	switch raw.Action {
	case RawPressed:
		press := raw
		t.lastPress = &press
		ev.State = StatePressed
	case RawReleased:
		ev.State = StateReleasedShort
		if t.lastPress != nil && t.lastPress.Code == raw.Code && raw.Time.Sub(t.lastPress.Time) >= t.threshold {
			ev.State = StateReleasedLong
		}
		t.lastPress = nil
	}

	return ev
}

// LastPress returns the key currently held down, if any
func (t *Translator) LastPress() (RawKey, bool) {
	if t.lastPress == nil {
		return RawKey{}, false
	}
	return *t.lastPress, true
}
