package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleMissingReceiver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRouter(zap.New(core))

	var handled bool
	assert.NotPanics(t, func() {
		handled = r.Handle(ShowAlarm, nil)
	})

	assert.False(t, handled)
	errorsLogged := logs.FilterLevelExact(zapcore.ErrorLevel)
	assert.Equal(t, 1, errorsLogged.Len())
}

func TestHandleInvokesReceiverWithParams(t *testing.T) {
	r := NewRouter(nil)

	var got Params
	r.Add(Dial, func(params Params) error {
		got = params
		return nil
	})

	handled := r.Handle(Dial, "+48123456789")

	assert.False(t, handled, "action handling never short-circuits other paths")
	assert.Equal(t, "+48123456789", got)
}

func TestHandleIgnoresReceiverError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRouter(zap.New(core))
	r.Add(Call, func(Params) error { return errors.New("busy") })

	assert.False(t, r.Handle(Call, nil))
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestAddLastRegistrationWins(t *testing.T) {
	r := NewRouter(nil)

	var calls []string
	r.Add(Launch, func(Params) error { calls = append(calls, "first"); return nil })
	r.Add(Launch, func(Params) error { calls = append(calls, "second"); return nil })

	r.Handle(Launch, nil)

	assert.Equal(t, []string{"second"}, calls)
	assert.True(t, r.Has(Launch))
	assert.False(t, r.Has(AbortPopup))
}
