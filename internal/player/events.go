package player

import (
	"sync"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/notify"
)

// Events is the bundle of notification channels owned by one adapter.  Every channel only publishes changes.  Until
// Attach is called values are recorded but not published, and after Detach nothing is published again.
type Events struct {
	mu   sync.RWMutex
	sink func(domain.Notification)

	State      *notify.Value[domain.PlaybackState]
	Volume     *notify.Value[int]
	Muted      *notify.Value[bool]
	Pip        *notify.Value[bool]
	Fullscreen *notify.Value[bool]

	progressMu sync.Mutex
	progress   domain.Progress
	Progress   *notify.Value[domain.Progress]
}

func NewEvents() *Events {
	e := &Events{}
	e.State = notify.NewHeldValue(func(s domain.PlaybackState) { e.publish(domain.StateNotification(s)) })
	e.Volume = notify.NewHeldValue(func(v int) { e.publish(domain.VolumeNotification(v)) })
	e.Muted = notify.NewHeldValue(func(m bool) { e.publish(domain.MuteNotification(m)) })
	e.Pip = notify.NewHeldValue(func(on bool) { e.publish(domain.PipNotification(on)) })
	e.Fullscreen = notify.NewHeldValue(func(on bool) { e.publish(domain.FullscreenNotification(on)) })
	e.Progress = notify.NewHeldValue(func(p domain.Progress) { e.publish(domain.ProgressNotification(p)) })
	return e
}

func (e *Events) publish(n domain.Notification) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.sink != nil {
		e.sink(n)
	}
}

// Attach starts publishing to sink.  The current playback state is published straight away, defaulting to
// unstarted, followed by whatever else is already known.  Each channel hands over to sink under its own lock, so
// values arriving from the native player meanwhile are neither lost nor published twice.
func (e *Events) Attach(sink func(domain.Notification)) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()

	e.State.Release(domain.StateUnstarted)
	e.Progress.Release()
	e.Volume.Release()
	e.Muted.Release()
	e.Pip.Resume()
	e.Fullscreen.Resume()
}

// Detach stops publishing.  Once it returns no notification from this bundle reaches the old sink.
func (e *Events) Detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = nil
}

// SetCurrentTime updates the position, publishing progress if it changed
func (e *Events) SetCurrentTime(seconds float64) {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()
	e.progress.CurrentTime = seconds
	e.Progress.Set(e.progress)
}

// SetDuration updates the duration, publishing progress if it changed
func (e *Events) SetDuration(seconds float64) {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()
	e.progress.Duration = seconds
	e.Progress.Set(e.progress)
}

// SetProgress updates position and duration together
func (e *Events) SetProgress(currentTime, duration float64) {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()
	e.progress = domain.Progress{CurrentTime: currentTime, Duration: duration}
	e.Progress.Set(e.progress)
}

// Apply publishes the polled values that changed
func (e *Events) Apply(s Sample) {
	switch {
	case s.CurrentTime != nil && s.Duration != nil:
		e.SetProgress(*s.CurrentTime, *s.Duration)
	case s.CurrentTime != nil:
		e.SetCurrentTime(*s.CurrentTime)
	case s.Duration != nil:
		e.SetDuration(*s.Duration)
	}
	if s.Volume != nil {
		e.Volume.Set(*s.Volume)
	}
	if s.Muted != nil {
		e.Muted.Set(*s.Muted)
	}
}

// Snapshot is the last published value of every channel
type Snapshot struct {
	State      domain.PlaybackState `json:"state"`
	Progress   domain.Progress      `json:"progress"`
	Volume     int                  `json:"volume"`
	Muted      bool                 `json:"muted"`
	Pip        bool                 `json:"pip"`
	Fullscreen bool                 `json:"fullscreen"`
}

func (e *Events) Snapshot() Snapshot {
	var s Snapshot
	s.State, _ = e.State.Get()
	s.Progress, _ = e.Progress.Get()
	s.Volume, _ = e.Volume.Get()
	s.Muted, _ = e.Muted.Get()
	s.Pip, _ = e.Pip.Get()
	s.Fullscreen, _ = e.Fullscreen.Get()
	return s
}
