// Package sdk tracks, per platform, whether the platform's embed SDK script has been loaded into the host page.
package sdk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/notify"
	"golang.org/x/sync/singleflight"
)

// DefaultLoadTimeout bounds a single script load when the Set is created without one
const DefaultLoadTimeout = 30 * time.Second

// Script describes a platform SDK script
type Script struct {
	// URL of the script
	URL string `json:"url"`
	// ReadyCallback is a global function the SDK calls once usable, e.g. onYouTubeIframeAPIReady.  Optional.
	ReadyCallback string `json:"ready_callback,omitempty"`
	// Global is a global object that exists once the script ran, e.g. DM.  Optional.
	Global string `json:"global,omitempty"`
}

// ScriptLoader fetches a script into the host page.  LoadScript must only return nil once the script is usable.
type ScriptLoader interface {
	LoadScript(ctx context.Context, script Script) error
}

// Loader owns the loaded state of one platform's SDK
type Loader struct {
	platform domain.PlatformID
	script   Script
	set      *Set
	ready    *notify.Latch
}

// EnsureLoaded returns once the script is available.  Concurrent callers share a single load, and once loaded every
// further call returns immediately.
func (l *Loader) EnsureLoaded(ctx context.Context) error {
	if l.ready.IsSet() {
		return nil
	}

	ch := l.set.group.DoChan(string(l.platform), func() (interface{}, error) {
		if l.ready.IsSet() {
			return nil, nil
		}

		// The load is shared, so one caller giving up must not fail the others
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.set.timeout)
		defer cancel()

		log.Info("Loading platform SDK", "platform", l.platform, "url", l.script.URL)
		if err := l.set.scripts.LoadScript(loadCtx, l.script); err != nil {
			return nil, fmt.Errorf("load %s sdk: %w", l.platform, err)
		}
		l.ready.Set()
		log.Debug("Platform SDK ready", "platform", l.platform)
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready is closed once the SDK is loaded, including for subscribers arriving after the fact
func (l *Loader) Ready() <-chan struct{} {
	return l.ready.Done()
}

func (l *Loader) IsReady() bool {
	return l.ready.IsSet()
}

func (l *Loader) Platform() domain.PlatformID {
	return l.platform
}

// Set holds the loader state of every platform.  It is owned by whoever drives the host page and passed to the
// session controller.
type Set struct {
	scripts ScriptLoader
	timeout time.Duration
	group   singleflight.Group

	mu      sync.RWMutex
	loaders map[domain.PlatformID]*Loader
}

// NewSet creates an empty loader set that loads scripts through scripts
func NewSet(scripts ScriptLoader, timeout time.Duration) *Set {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	return &Set{
		scripts: scripts,
		timeout: timeout,
		loaders: make(map[domain.PlatformID]*Loader),
	}
}

// Register adds the loader for a platform, replacing any previous one
func (s *Set) Register(platform domain.PlatformID, script Script) *Loader {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := &Loader{
		platform: platform,
		script:   script,
		set:      s,
		ready:    notify.NewLatch(),
	}
	s.loaders[platform] = l
	return l
}

// Loader returns the loader of a platform
func (s *Set) Loader(platform domain.PlatformID) (*Loader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.loaders[platform]
	return l, ok
}

// Reset marks every SDK as not loaded, e.g. after the host page was replaced
func (s *Set) Reset() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.loaders {
		l.ready.Reset()
	}
	log.Debug("Platform SDK states reset")
}
