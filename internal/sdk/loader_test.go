package sdk

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (c *countingLoader) LoadScript(ctx context.Context, script Script) error {
	c.calls.Add(1)
	if c.release != nil {
		select {
		case <-c.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.err
}

func TestEnsureLoadedIsIdempotent(t *testing.T) {
	scripts := &countingLoader{release: make(chan struct{})}
	set := NewSet(scripts, time.Second)
	loader := set.Register(domain.PlatformVimeo, Script{URL: "https://player.vimeo.com/api/player.js"})

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- loader.EnsureLoaded(context.Background())
		}()
	}

	// give every caller the chance to join the in-flight load
	time.Sleep(20 * time.Millisecond)
	close(scripts.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), scripts.calls.Load())
	assert.True(t, loader.IsReady())

	require.NoError(t, loader.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(1), scripts.calls.Load())
}

func TestReadySignalReplaysForLateSubscribers(t *testing.T) {
	set := NewSet(&countingLoader{}, time.Second)
	loader := set.Register(domain.PlatformYouTube, Script{URL: "https://www.youtube.com/iframe_api"})

	require.NoError(t, loader.EnsureLoaded(context.Background()))

	select {
	case <-loader.Ready():
	case <-time.After(time.Second):
		t.Fatal("late subscriber did not observe the ready signal")
	}
}

func TestEnsureLoadedFailureCanBeRetried(t *testing.T) {
	scripts := &countingLoader{err: errors.New("blocked by client")}
	set := NewSet(scripts, time.Second)
	loader := set.Register(domain.PlatformDailymotion, Script{URL: "https://api.dmcdn.net/all.js"})

	err := loader.EnsureLoaded(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dailymotion")
	assert.False(t, loader.IsReady())

	scripts.err = nil
	require.NoError(t, loader.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(2), scripts.calls.Load())
}

func TestEnsureLoadedHonoursCallerContext(t *testing.T) {
	scripts := &countingLoader{release: make(chan struct{})}
	defer close(scripts.release)
	set := NewSet(scripts, time.Second)
	loader := set.Register(domain.PlatformSoundCloud, Script{URL: "https://w.soundcloud.com/player/api.js"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, loader.EnsureLoaded(ctx), context.DeadlineExceeded)
}

func TestResetRearmsLoaders(t *testing.T) {
	scripts := &countingLoader{}
	set := NewSet(scripts, time.Second)
	loader := set.Register(domain.PlatformVimeo, Script{URL: "https://player.vimeo.com/api/player.js"})

	require.NoError(t, loader.EnsureLoaded(context.Background()))
	set.Reset()
	assert.False(t, loader.IsReady())

	require.NoError(t, loader.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(2), scripts.calls.Load())

	_, ok := set.Loader(domain.PlatformYouTube)
	assert.False(t, ok)
}
