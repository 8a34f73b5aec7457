package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDevice = errors.New("device did not answer")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func call(b *Breaker, ok bool) error {
	return b.Call(context.Background(), func(context.Context) error {
		if ok {
			return nil
		}
		return errDevice
	})
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		calls         []bool // true = success, false = failure
		expectedState State
	}{
		{name: "stays closed on successes", calls: []bool{true, true, true}, expectedState: StateClosed},
		{name: "stays closed below threshold", calls: []bool{false, false, true}, expectedState: StateClosed},
		{name: "opens after consecutive failures", calls: []bool{false, false, false}, expectedState: StateOpen},
		{name: "success resets the streak", calls: []bool{false, false, true, false, false}, expectedState: StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := New("torch", Settings{Clock: newFakeClock().Now})

			for _, ok := range tt.calls {
				_ = call(breaker, ok)
			}

			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	breaker := New("torch", Settings{Clock: newFakeClock().Now})

	require.NoError(t, call(breaker, true))
	counts := breaker.Counts()
	assert.Equal(t, uint32(1), counts.Calls)
	assert.Equal(t, uint32(1), counts.Successes)
	assert.Equal(t, uint32(1), counts.ConsecutiveSuccesses)

	assert.ErrorIs(t, call(breaker, false), errDevice)
	counts = breaker.Counts()
	assert.Equal(t, uint32(2), counts.Calls)
	assert.Equal(t, uint32(1), counts.Failures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Equal(t, uint32(0), counts.ConsecutiveSuccesses)
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	breaker := New("torch", Settings{Clock: newFakeClock().Now})
	for i := 0; i < 3; i++ {
		_ = call(breaker, false)
	}

	called := false
	err := breaker.Call(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerRecovers(t *testing.T) {
	clock := newFakeClock()
	breaker := New("torch", Settings{Probes: 2, Cooldown: 10 * time.Second, Clock: clock.Now})
	for i := 0; i < 3; i++ {
		_ = call(breaker, false)
	}
	require.Equal(t, StateOpen, breaker.State())

	clock.Advance(11 * time.Second)
	assert.Equal(t, StateHalfOpen, breaker.State())

	require.NoError(t, call(breaker, true))
	assert.Equal(t, StateHalfOpen, breaker.State())
	require.NoError(t, call(breaker, true))
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := newFakeClock()
	breaker := New("torch", Settings{Cooldown: time.Second, Clock: clock.Now})
	for i := 0; i < 3; i++ {
		_ = call(breaker, false)
	}
	clock.Advance(2 * time.Second)
	require.Equal(t, StateHalfOpen, breaker.State())

	_ = call(breaker, false)

	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerTimeoutsCountAsFailures(t *testing.T) {
	breaker := New("vibration", Settings{Clock: newFakeClock().Now})

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		err := breaker.Call(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}

	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerCanceledContextSkipsCall(t *testing.T) {
	breaker := New("torch", Settings{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := call(breaker, true)
	require.NoError(t, err)
	err = breaker.Call(ctx, func(context.Context) error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(1), breaker.Counts().Calls)
}

func TestDoReturnsValue(t *testing.T) {
	breaker := New("keypad_light", Settings{})

	reply, err := Do(context.Background(), breaker, func(context.Context) (string, error) {
		return "on", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "on", reply)
}

func TestBreakerCallbacks(t *testing.T) {
	var transitions []string
	clock := newFakeClock()

	breaker := New("torch", Settings{
		Cooldown: time.Second,
		Trip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
		OnStateChange: func(name string, from State, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
		Clock: clock.Now,
	})

	_ = call(breaker, false)
	_ = call(breaker, false)
	clock.Advance(2 * time.Second)
	_ = call(breaker, true)

	assert.Equal(t, []string{
		"torch:closed->open",
		"torch:open->half-open",
		"torch:half-open->closed",
	}, transitions)
}
