package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func press(key KeyCode, at time.Time) Event {
	return Event{Key: key, State: StatePressed, Time: at}
}

func TestLongPressExpires(t *testing.T) {
	lp := NewLongPress(time.Second)

	assert.Equal(t, OutcomeArmed, lp.OnKey(press(Key5, t0)))
	assert.Equal(t, PhaseArmed, lp.Phase())

	_, out := lp.OnTick(t0.Add(200 * time.Millisecond))
	assert.Equal(t, OutcomeNone, out, "tick before threshold keeps the machine armed")
	assert.Equal(t, PhaseArmed, lp.Phase())

	synth, out := lp.OnTick(t0.Add(time.Second))
	require.Equal(t, OutcomeExpired, out)
	assert.Equal(t, Key5, synth.Key)
	assert.True(t, synth.IsLongPress())
	assert.Equal(t, PhaseIdle, lp.Phase())

	_, cached := lp.Cached()
	assert.False(t, cached, "cached key is cleared on expiry")
}

func TestLongPressCanceledOnShortRelease(t *testing.T) {
	lp := NewLongPress(time.Second)

	lp.OnKey(press(KeyEnter, t0))
	out := lp.OnKey(Event{Key: KeyEnter, State: StateReleasedShort, Time: t0.Add(100 * time.Millisecond)})
	assert.Equal(t, OutcomeCanceled, out)

	_, out = lp.OnTick(t0.Add(5 * time.Second))
	assert.Equal(t, OutcomeNone, out, "late tick after cancel must not synthesize")
}

func TestLongPressInterleavings(t *testing.T) {
	tests := []struct {
		name     string
		steps    func(lp *LongPress) Outcome
		expected Outcome
		phase    Phase
	}{
		{
			name: "tick while idle",
			steps: func(lp *LongPress) Outcome {
				_, out := lp.OnTick(t0)
				return out
			},
			expected: OutcomeNone,
			phase:    PhaseIdle,
		},
		{
			name: "release while idle",
			steps: func(lp *LongPress) Outcome {
				return lp.OnKey(Event{Key: Key1, State: StateReleasedShort, Time: t0})
			},
			expected: OutcomeNone,
			phase:    PhaseIdle,
		},
		{
			name: "second press restarts the hold",
			steps: func(lp *LongPress) Outcome {
				lp.OnKey(press(Key1, t0))
				lp.OnKey(press(Key2, t0.Add(900*time.Millisecond)))
				_, out := lp.OnTick(t0.Add(1100 * time.Millisecond))
				return out
			},
			expected: OutcomeNone,
			phase:    PhaseArmed,
		},
		{
			name: "long release cancels a pending hold",
			steps: func(lp *LongPress) Outcome {
				lp.OnKey(press(Key1, t0))
				return lp.OnKey(Event{Key: Key1, State: StateReleasedLong, Time: t0.Add(2 * time.Second)})
			},
			expected: OutcomeCanceled,
			phase:    PhaseIdle,
		},
		{
			name: "synthesized long press is ignored",
			steps: func(lp *LongPress) Outcome {
				return lp.OnKey(Event{Key: Key1, State: StateLongPress, Time: t0})
			},
			expected: OutcomeNone,
			phase:    PhaseIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp := NewLongPress(time.Second)
			assert.Equal(t, tt.expected, tt.steps(lp))
			assert.Equal(t, tt.phase, lp.Phase())
		})
	}
}

func TestSecondPressSynthesizesLatestKey(t *testing.T) {
	lp := NewLongPress(time.Second)

	lp.OnKey(press(Key1, t0))
	lp.OnKey(press(Key2, t0.Add(500*time.Millisecond)))

	synth, out := lp.OnTick(t0.Add(1500 * time.Millisecond))
	require.Equal(t, OutcomeExpired, out)
	assert.Equal(t, Key2, synth.Key)
}
