package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/log"
)

// abandonTimeout bounds the clean up of a player that failed to become ready
const abandonTimeout = 5 * time.Second

// Base carries what every adapter shares: the native handle, capabilities, the event bundle, readiness and the
// adapter scope.  Adapters embed it and get the unsupported defaults for fullscreen, pip, title and polling.
type Base struct {
	platform domain.PlatformID
	caps     domain.CapabilitySet
	native   Native
	opts     Options
	events   *Events
	log      *log.Logger

	scope  context.Context
	cancel context.CancelFunc

	readyOnce sync.Once
	ready     chan struct{}

	destroyOnce sync.Once
	destroyErr  error
}

// NewBase binds a base to a freshly constructed native player
func NewBase(platform domain.PlatformID, caps domain.CapabilitySet, native Native, opts Options) *Base {
	parent := opts.Scope
	if parent == nil {
		parent = context.Background()
	}
	if opts.ReconcileDelay <= 0 {
		opts.ReconcileDelay = DefaultReconcileDelay
	}
	scope, cancel := context.WithCancel(parent)
	return &Base{
		platform: platform,
		caps:     caps,
		native:   native,
		opts:     opts,
		events:   NewEvents(),
		log:      log.With("platform", platform, "dom_id", opts.DomID),
		scope:    scope,
		cancel:   cancel,
		ready:    make(chan struct{}),
	}
}

func (b *Base) Platform() domain.PlatformID {
	return b.platform
}

func (b *Base) Capabilities() domain.CapabilitySet {
	return b.caps
}

func (b *Base) Events() *Events {
	return b.events
}

// Native returns the underlying native handle
func (b *Base) Native() Native {
	return b.native
}

func (b *Base) Options() Options {
	return b.opts
}

func (b *Base) Log() *log.Logger {
	return b.log
}

// Scope is done once the adapter is destroyed or its creator's scope ends
func (b *Base) Scope() context.Context {
	return b.scope
}

// Pump translates native events with handle until the native event stream closes or the scope ends.  Events are
// handled one at a time in arrival order.
func (b *Base) Pump(handle func(NativeEvent)) {
	events := b.native.Events()
	go func() {
		for {
			select {
			case <-b.scope.Done():
				return
			case ev, ok := <-events:
				if !ok {
					b.log.Debug("Native event stream closed")
					return
				}
				b.log.Trace("Native event", "event", ev.Name, "data", string(ev.Data))
				handle(ev)
			}
		}
	}()
}

// MarkReady records that the native player reported ready
func (b *Base) MarkReady() {
	b.readyOnce.Do(func() { close(b.ready) })
}

// WaitReady blocks until MarkReady was called
func (b *Base) WaitReady(ctx context.Context) error {
	select {
	case <-b.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %s player: %w", b.platform, ctx.Err())
	case <-b.scope.Done():
		return fmt.Errorf("%s player destroyed before ready", b.platform)
	}
}

// Release ends the adapter scope, detaches the event bundle and forgets the native handle.  The destroy function runs
// first, at most once, and its error is returned by every call.
func (b *Base) Release(ctx context.Context, destroy func(ctx context.Context) error) error {
	b.destroyOnce.Do(func() {
		b.events.Detach()
		if destroy != nil {
			if err := destroy(ctx); err != nil {
				b.destroyErr = fmt.Errorf("destroy %s player: %w", b.platform, err)
			}
		}
		b.cancel()
		if err := b.native.Release(ctx); err != nil && b.destroyErr == nil {
			b.destroyErr = fmt.Errorf("release %s player: %w", b.platform, err)
		}
		b.log.Debug("Player released")
	})
	return b.destroyErr
}

// Destroy releases the native handle without calling anything on the native object.  Adapters of SDKs that have a
// destroy primitive override it.
func (b *Base) Destroy(ctx context.Context) error {
	return b.Release(ctx, nil)
}

// Unsupported refuses a capability the platform cannot provide and, after the reconcile delay, republishes false on
// the given channel so host state bound to it falls back.
func (b *Base) Unsupported(operation string, reconcile func(bool)) error {
	b.log.Warn("Operation not supported by platform", "operation", operation)
	time.AfterFunc(b.opts.ReconcileDelay, func() {
		if b.scope.Err() == nil {
			reconcile(false)
		}
	})
	return &domain.UnsupportedError{Platform: b.platform, Operation: operation}
}

func (b *Base) SetFullscreen(_ context.Context, fullscreen bool) error {
	if !fullscreen {
		return nil
	}
	return b.Unsupported("fullscreen", b.events.Fullscreen.Force)
}

func (b *Base) Fullscreen(context.Context) (bool, error) {
	return false, nil
}

func (b *Base) SetPip(_ context.Context, pip bool) error {
	if !pip {
		return nil
	}
	return b.Unsupported("pip", b.events.Pip.Force)
}

func (b *Base) Pip(context.Context) (bool, error) {
	return false, nil
}

func (b *Base) Title(context.Context) (string, error) {
	return "", &domain.UnsupportedError{Platform: b.platform, Operation: "getTitle"}
}

func (b *Base) Poll(context.Context) (Sample, error) {
	return Sample{}, nil
}

// Abandon destroys an adapter whose creation failed, with a bounded timeout independent of the creation context
func Abandon(ctx context.Context, a Adapter) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), abandonTimeout)
	defer cancel()
	if err := a.Destroy(ctx); err != nil {
		log.Warn("Failed to clean up abandoned player", "platform", a.Platform(), "error", err)
	}
}

// ContainerHTML is the scaffold for SDKs that render into an element id
func ContainerHTML(domID string) string {
	return fmt.Sprintf(`<div id="%s"></div>`, domID)
}

// Float, Int and Bool return pointers for building a Sample
func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
func Bool(v bool) *bool        { return &v }
