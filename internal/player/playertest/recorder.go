package playertest

import (
	"sync"

	"github.com/PizzaHomicide/reel/internal/domain"
)

// Recorder collects published notifications
type Recorder struct {
	mu  sync.Mutex
	got []domain.Notification
}

// Sink is the function to attach to an event bundle or controller
func (r *Recorder) Sink(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *Recorder) All() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.got...)
}

// Of returns the recorded notifications of one kind
func (r *Recorder) Of(kind domain.NotificationKind) []domain.Notification {
	var out []domain.Notification
	for _, n := range r.All() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// States returns the recorded playback states in order
func (r *Recorder) States() []domain.PlaybackState {
	var out []domain.PlaybackState
	for _, n := range r.Of(domain.NotifyState) {
		out = append(out, n.State)
	}
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = nil
}
