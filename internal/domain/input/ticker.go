package input

import (
	"sync"
	"time"
)

// Timer is started when a key goes down and stopped once the hold is resolved
type Timer interface {
	Start()
	Stop()
}

// Ticker is a periodic Timer. Each tick calls fire, which is expected to post
// a message to the owning actor rather than touch its state directly.
type Ticker struct {
	interval time.Duration
	fire     func(now time.Time)

	mu   sync.Mutex
	stop chan struct{}
}

// NewTicker creates a stopped ticker
func NewTicker(interval time.Duration, fire func(now time.Time)) *Ticker {
	return &Ticker{interval: interval, fire: fire}
}

// Start (re)starts the tick cycle
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	stop := make(chan struct{})
	t.stop = stop
	go t.run(stop)
}

// Stop halts the tick cycle. Ticks already delivered are not recalled.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
}

// Running reports whether the ticker is active
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.stop != nil
}

func (t *Ticker) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Ticker) run(stop chan struct{}) {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-tk.C:
			t.fire(now)
		}
	}
}
