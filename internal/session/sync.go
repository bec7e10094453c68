package session

import (
	"context"
	"time"

	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/player"
)

// startSync runs the synchronization loop for a until teardown stops it
func (c *Controller) startSync(a player.Adapter) {
	ctx, cancel := context.WithCancel(c.root)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.syncLoop(ctx, a, c.cfg.SyncInterval)
	}()

	c.mu.Lock()
	c.stopSync = func() {
		cancel()
		<-done
	}
	c.mu.Unlock()
}

// syncLoop polls a on a fixed cadence and republishes what changed.  The event bundle only publishes changes, so an
// unchanged poll publishes nothing.
func (c *Controller) syncLoop(ctx context.Context, a player.Adapter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.syncOnce(ctx, a)
		}
	}
}

func (c *Controller) syncOnce(ctx context.Context, a player.Adapter) {
	if !c.polling(a) {
		return
	}
	sample, err := a.Poll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Debug("Failed to poll player", "platform", a.Platform(), "error", err)
		}
		return
	}
	// The session may have started switching while the poll was in flight
	if !c.polling(a) {
		return
	}
	a.Events().Apply(sample)
}

// polling reports whether a is the live adapter in a phase that may be polled.  Ticks are suppressed while content
// is switching or the player is going away.
func (c *Controller) polling(a player.Adapter) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active == a && c.phase == PhaseReady
}
