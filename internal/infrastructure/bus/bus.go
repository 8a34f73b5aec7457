package bus

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/monitoring"
	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/tracing"
)

var (
	ErrNoRecipient = errors.New("no actor registered under target name")
	ErrClosed      = errors.New("bus is closed")
	ErrDuplicate   = errors.New("actor already registered")
)

// Handler consumes the messages addressed to one actor. Handle is only
// ever called from the actor's own goroutine.
type Handler interface {
	Name() string
	Handle(msg message.Message) bool
}

// Bus routes messages to actors by name. Each actor owns an unbounded FIFO
// mailbox drained by a single goroutine, so an actor may post to itself
// from inside Handle without blocking.
type Bus struct {
	logger  *zap.Logger
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer

	mu     sync.RWMutex
	actors map[string]*mailbox
	closed bool
}

// Option configures a Bus
type Option func(*Bus)

// WithMetrics records delivery metrics
func WithMetrics(m *monitoring.Metrics) Option {
	return func(b *Bus) { b.metrics = m }
}

// WithTracer records one span per delivery
func WithTracer(t *tracing.Tracer) Option {
	return func(b *Bus) { b.tracer = t }
}

// New creates a bus
func New(logger *zap.Logger, opts ...Option) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bus{
		logger: logger.Named("bus"),
		actors: make(map[string]*mailbox),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register starts an actor
func (b *Bus) Register(h Handler) error {
	name := h.Name()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if _, exists := b.actors[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}

	mb := newMailbox(h)
	b.actors[name] = mb
	go b.run(mb)

	b.logger.Debug("actor registered", zap.String("actor", name))
	return nil
}

// Unregister stops an actor after it has handled everything already queued.
// It must not be called from the actor's own goroutine.
func (b *Bus) Unregister(name string) error {
	b.mu.Lock()
	mb, exists := b.actors[name]
	if exists {
		delete(b.actors, name)
	}
	b.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrNoRecipient, name)
	}

	mb.close()
	<-mb.done
	b.metrics.ForgetMailbox(name)

	b.logger.Debug("actor unregistered", zap.String("actor", name))
	return nil
}

// Send queues msg for the actor named by its envelope target
func (b *Bus) Send(msg message.Message) error {
	target := msg.Envelope().Target

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	mb, exists := b.actors[target]
	if !exists {
		return fmt.Errorf("%w: %s (%s)", ErrNoRecipient, target, msg.Kind())
	}

	depth, ok := mb.push(msg)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRecipient, target)
	}
	b.metrics.SetMailboxDepth(target, depth)
	return nil
}

// Broadcast sends one message per registered actor. build is called with
// each actor name and may return nil to skip that actor.
func (b *Bus) Broadcast(build func(target string) message.Message) error {
	var errs []error
	for _, name := range b.Names() {
		msg := build(name)
		if msg == nil {
			continue
		}
		if err := b.Send(msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Names returns the registered actor names in sorted order
func (b *Bus) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.actors))
	for name := range b.actors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether an actor is registered under name
func (b *Bus) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.actors[name]
	return exists
}

// Close stops every actor after its mailbox drains
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	actors := b.actors
	b.actors = make(map[string]*mailbox)
	b.mu.Unlock()

	for _, mb := range actors {
		mb.close()
	}
	for name, mb := range actors {
		<-mb.done
		b.metrics.ForgetMailbox(name)
	}
	b.logger.Debug("bus closed", zap.Int("actors", len(actors)))
}

func (b *Bus) run(mb *mailbox) {
	defer close(mb.done)

	name := mb.handler.Name()
	for {
		msg, depth, ok := mb.pop()
		if !ok {
			return
		}
		b.metrics.SetMailboxDepth(name, depth)
		b.deliver(name, mb.handler, msg)
	}
}

func (b *Bus) deliver(name string, h Handler, msg message.Message) {
	kind := msg.Kind().String()
	start := time.Now()

	var span *tracing.Span
	if b.tracer != nil {
		span = b.tracer.StartDelivery(msg.Envelope().ID, kind, name)
	}

	handled := false
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("actor panicked while handling message",
				zap.String("actor", name),
				zap.String("kind", kind),
				zap.Any("panic", r),
			)
			if span != nil {
				span.SetError(fmt.Errorf("panic: %v", r))
			}
		}

		b.metrics.RecordMessage(name, kind, handled, time.Since(start))
		if span != nil {
			span.SetTag("handled", strconv.FormatBool(handled))
			span.Finish()
			b.tracer.Submit(span)
		}
	}()

	handled = h.Handle(msg)
}
