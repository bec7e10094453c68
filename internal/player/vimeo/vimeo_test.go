package vimeo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/player/playertest"
	"github.com/PizzaHomicide/reel/internal/player/vimeo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func create(t *testing.T, mount *playertest.Mount) player.Adapter {
	t.Helper()
	a, err := vimeo.New().Create(context.Background(), player.Options{
		Mount:     mount,
		DomID:     "player3",
		ContentID: "76979871",
		Width:     600,
		Height:    450,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Destroy(context.Background()) })
	return a
}

func TestCreateWaitsForReadyPromise(t *testing.T) {
	mount := playertest.NewMount()
	create(t, mount)

	native := mount.Last()
	assert.True(t, native.Called("ready"))
	assert.Equal(t, int64(76979871), native.Spec.Options.(map[string]any)["id"])
	assert.Equal(t, player.BindOn, native.Spec.Binding)
}

func TestCreateFailsWhenReadyRejects(t *testing.T) {
	mount := playertest.NewMount()
	mount.OnConstruct = func(n *playertest.Native) {
		n.Handle("ready", func([]any) (any, error) { return nil, errors.New("privacy settings") })
	}

	_, err := vimeo.New().Create(context.Background(), player.Options{Mount: mount, DomID: "player3", ContentID: "1"})
	require.ErrorContains(t, err, "privacy settings")
	assert.True(t, mount.Last().Called("destroy"))
	assert.Equal(t, 0, mount.Live())
}

func TestVolumeRoundTrip(t *testing.T) {
	mount := playertest.NewMount()
	mount.OnConstruct = func(n *playertest.Native) {
		n.Handle("setVolume", func(args []any) (any, error) {
			n.Emit("volumechange", map[string]any{"volume": args[0]})
			return nil, nil
		})
	}
	a := create(t, mount)

	require.NoError(t, a.SetVolume(context.Background(), 37))
	assert.Equal(t, []any{0.37}, mount.Last().CallsTo("setVolume")[0].Args)
	assert.Eventually(t, func() bool {
		v, ok := a.Events().Volume.Get()
		return ok && v == 37
	}, time.Second, 5*time.Millisecond)
}

func TestPushedEvents(t *testing.T) {
	mount := playertest.NewMount()
	a := create(t, mount)
	rec := &playertest.Recorder{}
	a.Events().Attach(rec.Sink)

	native := mount.Last()
	native.Emit("play", nil)
	native.Emit("timeupdate", map[string]any{"seconds": 1.5, "duration": 60.0, "percent": 0.025})
	native.Emit("enterpictureinpicture", nil)
	native.Emit("fullscreenchange", map[string]any{"fullscreen": true})
	native.Emit("ended", nil)

	assert.Eventually(t, func() bool { return len(rec.States()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.PlaybackState{domain.StateUnstarted, domain.StatePlaying, domain.StateEnded}, rec.States())
	assert.Equal(t, domain.Progress{CurrentTime: 1.5, Duration: 60}, rec.Of(domain.NotifyProgress)[0].Progress)
	assert.True(t, rec.Of(domain.NotifyPip)[0].Enabled)
	assert.True(t, rec.Of(domain.NotifyFullscreen)[0].Enabled)
}

func TestPipAndFullscreenAreSupported(t *testing.T) {
	mount := playertest.NewMount()
	mount.OnConstruct = func(n *playertest.Native) { n.Return("getPictureInPicture", true) }
	a := create(t, mount)
	ctx := context.Background()

	require.NoError(t, a.SetPip(ctx, true))
	require.NoError(t, a.SetFullscreen(ctx, false))
	native := mount.Last()
	assert.True(t, native.Called("requestPictureInPicture"))
	assert.True(t, native.Called("exitFullscreen"))

	pip, err := a.Pip(ctx)
	require.NoError(t, err)
	assert.True(t, pip)
}

func TestResizeMutatesIframe(t *testing.T) {
	mount := playertest.NewMount()
	a := create(t, mount)

	require.NoError(t, a.Resize(context.Background(), 800, 450))
	assert.Equal(t, "800", mount.Attribute("#player3 iframe", "width"))
	assert.Equal(t, "450", mount.Attribute("#player3 iframe", "height"))
}

func TestPollReadsMute(t *testing.T) {
	mount := playertest.NewMount()
	mount.OnConstruct = func(n *playertest.Native) { n.Return("getMuted", true) }
	a := create(t, mount)

	sample, err := a.Poll(context.Background())
	require.NoError(t, err)
	assert.True(t, *sample.Muted)
	assert.Nil(t, sample.CurrentTime)
}

func TestLoadAndSeek(t *testing.T) {
	mount := playertest.NewMount()
	mount.OnConstruct = func(n *playertest.Native) { n.Return("getVideoTitle", "A short film") }
	a := create(t, mount)
	ctx := context.Background()

	require.NoError(t, a.LoadContentByID(ctx, "12345"))
	require.NoError(t, a.Seek(ctx, 30))
	native := mount.Last()
	assert.Equal(t, []any{int64(12345)}, native.CallsTo("loadVideo")[0].Args)
	assert.Equal(t, []any{30.0}, native.CallsTo("setCurrentTime")[0].Args)

	title, err := a.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A short film", title)
}
