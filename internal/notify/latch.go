package notify

import "sync"

// Latch is a readiness signal that stays set once set, so a late subscriber still observes it
type Latch struct {
	mu  sync.Mutex
	ch  chan struct{}
	set bool
}

func NewLatch() *Latch {
	return &Latch{ch: make(chan struct{})}
}

// Set releases every current and future waiter.  Setting an already set latch is a no-op.
func (l *Latch) Set() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.set {
		l.set = true
		close(l.ch)
	}
}

// Done returns a channel that is closed once the latch is set
func (l *Latch) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ch
}

func (l *Latch) IsSet() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set
}

// Reset re-arms a set latch.  Waiters holding the old Done channel have already been released.
func (l *Latch) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.set {
		l.set = false
		l.ch = make(chan struct{})
	}
}
