package bus

import (
	"sync"

	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
)

type mailbox struct {
	handler Handler

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []message.Message
	closed bool
	done   chan struct{}
}

func newMailbox(h Handler) *mailbox {
	mb := &mailbox{
		handler: h,
		done:    make(chan struct{}),
	}
	mb.cond = sync.NewCond(&mb.mu)
	return mb
}

func (mb *mailbox) push(msg message.Message) (int, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if mb.closed {
		return 0, false
	}
	mb.queue = append(mb.queue, msg)
	mb.cond.Signal()
	return len(mb.queue), true
}

// pop blocks until a message is queued. It reports false once the mailbox
// is closed and empty.
func (mb *mailbox) pop() (message.Message, int, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	for len(mb.queue) == 0 && !mb.closed {
		mb.cond.Wait()
	}
	if len(mb.queue) == 0 {
		return nil, 0, false
	}

	msg := mb.queue[0]
	mb.queue[0] = nil
	mb.queue = mb.queue[1:]
	return msg, len(mb.queue), true
}

func (mb *mailbox) close() {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.closed = true
	mb.cond.Broadcast()
}
