package dailymotion_test

import (
	"context"
	"testing"
	"time"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/player/dailymotion"
	"github.com/PizzaHomicide/reel/internal/player/playertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installVolume makes setVolume and setMuted behave like the SDK: they update the properties and fire volumechange
func installVolume(n *playertest.Native) {
	n.SetProp("volume", 1.0)
	n.SetProp("muted", false)
	n.Handle("setVolume", func(args []any) (any, error) {
		n.SetProp("volume", args[0])
		n.Emit("volumechange", nil)
		return nil, nil
	})
	n.Handle("setMuted", func(args []any) (any, error) {
		n.SetProp("muted", args[0])
		n.Emit("volumechange", nil)
		return nil, nil
	})
}

func create(t *testing.T, mount *playertest.Mount) player.Adapter {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	a, err := dailymotion.New().Create(ctx, player.Options{
		Mount:     mount,
		DomID:     "player2",
		ContentID: "x7tgad0",
		Width:     600,
		Height:    450,
		Autoplay:  true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Destroy(context.Background()) })
	return a
}

func TestCreateConstructsOnElement(t *testing.T) {
	mount := playertest.NewMount()
	create(t, mount)

	spec := mount.Last().Spec
	assert.Equal(t, "DM.player", spec.Constructor)
	assert.False(t, spec.New)
	assert.True(t, spec.TargetElement)
	opts := spec.Options.(map[string]any)
	assert.Equal(t, "x7tgad0", opts["video"])
	assert.Equal(t, map[string]any{"autoplay": true}, opts["params"])
}

func TestVolumeRoundTrip(t *testing.T) {
	mount := playertest.NewMount()
	mount.OnConstruct = installVolume
	a := create(t, mount)
	rec := &playertest.Recorder{}
	a.Events().Attach(rec.Sink)

	require.NoError(t, a.SetVolume(context.Background(), 37))
	assert.Equal(t, 0.37, mount.Last().Prop("volume"))

	assert.Eventually(t, func() bool {
		v, ok := a.Events().Volume.Get()
		return ok && v == 37
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, a.SetMute(context.Background(), true))
	assert.Eventually(t, func() bool { return len(rec.Of(domain.NotifyMute)) == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, rec.Of(domain.NotifyMute)[1].Muted)
}

func TestPushedStatesAndDuration(t *testing.T) {
	mount := playertest.NewMount()
	mount.OnConstruct = func(n *playertest.Native) { n.SetProp("duration", 95.0) }
	a := create(t, mount)
	rec := &playertest.Recorder{}
	a.Events().Attach(rec.Sink)

	native := mount.Last()
	native.Emit("play", nil)
	native.Emit("playing", nil)
	native.Emit("durationchange", nil)
	native.Emit("pause", nil)
	native.Emit("video_end", nil)

	assert.Eventually(t, func() bool { return len(rec.States()) == 4 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.PlaybackState{
		domain.StateUnstarted, domain.StatePlaying, domain.StatePaused, domain.StateEnded,
	}, rec.States())
	require.Len(t, rec.Of(domain.NotifyProgress), 1)
	assert.Equal(t, 95.0, rec.Of(domain.NotifyProgress)[0].Progress.Duration)
}

func TestPollReadsCurrentTime(t *testing.T) {
	mount := playertest.NewMount()
	mount.OnConstruct = func(n *playertest.Native) { n.SetProp("currentTime", 7.25) }
	a := create(t, mount)

	sample, err := a.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7.25, *sample.CurrentTime)
	assert.Nil(t, sample.Volume)
	assert.Nil(t, sample.Duration)
}

func TestResizeAssignsProperties(t *testing.T) {
	mount := playertest.NewMount()
	a := create(t, mount)

	require.NoError(t, a.Resize(context.Background(), 320, 180))
	assert.Equal(t, 320, mount.Last().Prop("width"))
	assert.Equal(t, 180, mount.Last().Prop("height"))
}

func TestLoadAndTitle(t *testing.T) {
	mount := playertest.NewMount()
	mount.OnConstruct = func(n *playertest.Native) {
		n.SetProp("video", map[string]any{"videoId": "x7tgad0", "title": "Some clip"})
	}
	a := create(t, mount)
	ctx := context.Background()

	require.NoError(t, a.LoadContentByID(ctx, "x8abc"))
	calls := mount.Last().CallsTo("load")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"video": "x8abc", "autoplay": true}, calls[0].Args[0])

	title, err := a.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Some clip", title)
}

func TestFullscreenUnsupported(t *testing.T) {
	mount := playertest.NewMount()
	a := create(t, mount)
	rec := &playertest.Recorder{}
	a.Events().Attach(rec.Sink)

	assert.ErrorIs(t, a.SetFullscreen(context.Background(), true), domain.ErrUnsupported)
	assert.Eventually(t, func() bool { return len(rec.Of(domain.NotifyFullscreen)) == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, rec.Of(domain.NotifyFullscreen)[0].Enabled)
}

func TestDestroyOnlyReleases(t *testing.T) {
	mount := playertest.NewMount()
	a := create(t, mount)

	require.NoError(t, a.Destroy(context.Background()))
	native := mount.Last()
	assert.True(t, native.Released())
	assert.Empty(t, native.CallsTo("destroy"))
}
