package bus

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/monitoring"
)

type recorder struct {
	name string
	bus  *Bus

	mu       sync.Mutex
	received []string
	onHandle func(msg message.Message)
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Handle(msg message.Message) bool {
	if r.onHandle != nil {
		r.onHandle(msg)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, msg.Envelope().Sender)
	return true
}

func (r *recorder) senders() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.received...)
}

func refresh(sender, target string) message.Message {
	return &message.Refresh{Header: message.NewHeader(sender, target)}
}

func TestSendPreservesOrder(t *testing.T) {
	b := New(zap.NewNop())
	defer b.Close()

	r := &recorder{name: "ApplicationDesktop"}
	require.NoError(t, b.Register(r))

	for _, sender := range []string{"a", "b", "c", "d"} {
		require.NoError(t, b.Send(refresh(sender, "ApplicationDesktop")))
	}

	require.Eventually(t, func() bool { return len(r.senders()) == 4 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c", "d"}, r.senders())
}

func TestSelfPostRunsAfterCurrentMessage(t *testing.T) {
	b := New(zap.NewNop())
	defer b.Close()

	r := &recorder{name: "ApplicationCall"}
	r.onHandle = func(msg message.Message) {
		if msg.Envelope().Sender == "outside" {
			_ = b.Send(refresh("self", "ApplicationCall"))
		}
	}
	require.NoError(t, b.Register(r))

	require.NoError(t, b.Send(refresh("outside", "ApplicationCall")))
	require.NoError(t, b.Send(refresh("second", "ApplicationCall")))

	require.Eventually(t, func() bool { return len(r.senders()) == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"outside", "second", "self"}, r.senders())
}

func TestSendToUnknownActor(t *testing.T) {
	b := New(zap.NewNop())
	defer b.Close()

	err := b.Send(refresh("x", "Nobody"))
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestRegisterDuplicate(t *testing.T) {
	b := New(zap.NewNop())
	defer b.Close()

	require.NoError(t, b.Register(&recorder{name: "A"}))
	assert.ErrorIs(t, b.Register(&recorder{name: "A"}), ErrDuplicate)
}

func TestUnregisterDrainsMailbox(t *testing.T) {
	b := New(zap.NewNop())
	defer b.Close()

	release := make(chan struct{})
	r := &recorder{name: "A"}
	r.onHandle = func(message.Message) { <-release }
	require.NoError(t, b.Register(r))

	require.NoError(t, b.Send(refresh("1", "A")))
	require.NoError(t, b.Send(refresh("2", "A")))

	done := make(chan error)
	go func() { done <- b.Unregister("A") }()
	close(release)

	require.NoError(t, <-done)
	assert.Equal(t, []string{"1", "2"}, r.senders())
	assert.False(t, b.Has("A"))
	assert.ErrorIs(t, b.Send(refresh("3", "A")), ErrNoRecipient)
}

func TestCloseRejectsSends(t *testing.T) {
	b := New(zap.NewNop())
	require.NoError(t, b.Register(&recorder{name: "A"}))

	b.Close()

	assert.ErrorIs(t, b.Send(refresh("x", "A")), ErrClosed)
	assert.ErrorIs(t, b.Register(&recorder{name: "B"}), ErrClosed)
}

func TestBroadcast(t *testing.T) {
	b := New(zap.NewNop())
	defer b.Close()

	a := &recorder{name: "A"}
	c := &recorder{name: "C"}
	require.NoError(t, b.Register(a))
	require.NoError(t, b.Register(c))
	assert.Equal(t, []string{"A", "C"}, b.Names())

	err := b.Broadcast(func(target string) message.Message {
		if target == "C" {
			return nil
		}
		return refresh("telemetry", target)
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(a.senders()) == 1 }, time.Second, time.Millisecond)
	assert.Empty(t, c.senders())
}

func TestHandlerPanicIsContained(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	b := New(zap.New(core))
	defer b.Close()

	r := &recorder{name: "A"}
	r.onHandle = func(msg message.Message) {
		if msg.Envelope().Sender == "bad" {
			panic("boom")
		}
	}
	require.NoError(t, b.Register(r))

	require.NoError(t, b.Send(refresh("bad", "A")))
	require.NoError(t, b.Send(refresh("good", "A")))

	require.Eventually(t, func() bool { return len(r.senders()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"good"}, r.senders())
	assert.Equal(t, 1, logs.FilterMessage("actor panicked while handling message").Len())
}

func TestDeliveryMetrics(t *testing.T) {
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	b := New(zap.NewNop(), WithMetrics(metrics))

	r := &recorder{name: "A"}
	require.NoError(t, b.Register(r))
	require.NoError(t, b.Send(refresh("x", "A")))
	require.NoError(t, b.Send(refresh("y", "A")))

	b.Close()

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.MessagesTotal.WithLabelValues("A", "app_refresh", "handled")))
}
