// Package youtube adapts the YouTube IFrame Player API
package youtube

import (
	"context"
	"fmt"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/sdk"
)

const constructor = "YT.Player"

// Native player states as reported by onStateChange
const (
	nativeUnstarted = -1
	nativeEnded     = 0
	nativePlaying   = 1
	nativePaused    = 2
	nativeBuffering = 3
	nativeCued      = 5
)

var capabilities = domain.NewCapabilitySet(
	domain.CapabilityVolume,
	domain.CapabilityMute,
	domain.CapabilityGetTitle,
)

// Platform creates YouTube adapters
type Platform struct{}

func New() *Platform {
	return &Platform{}
}

func (p *Platform) ID() domain.PlatformID {
	return domain.PlatformYouTube
}

func (p *Platform) URLPatterns() []string {
	return []string{
		`https?://(www\.)?youtube\.com/watch\?v=(?P<id>[^&]+)`,
		`https?://(www\.)?youtu\.be/(?P<id>[^?&]+)`,
	}
}

func (p *Platform) Script() sdk.Script {
	return sdk.Script{
		URL:           "https://www.youtube.com/iframe_api",
		ReadyCallback: "onYouTubeIframeAPIReady",
		Global:        "YT",
	}
}

func (p *Platform) Capabilities() domain.CapabilitySet {
	return capabilities
}

func (p *Platform) Create(ctx context.Context, opts player.Options) (player.Adapter, error) {
	if err := opts.Validate(p.ID()); err != nil {
		return nil, err
	}
	if err := opts.Mount.SetHTML(ctx, player.ContainerHTML(opts.DomID)); err != nil {
		return nil, fmt.Errorf("mount youtube container: %w", err)
	}

	native, err := opts.Mount.Construct(ctx, player.Construct{
		Constructor: constructor,
		New:         true,
		Target:      opts.DomID,
		Options: map[string]any{
			"width":   opts.Width,
			"height":  opts.Height,
			"videoId": opts.ContentID,
			"playerVars": map[string]any{
				"autoplay": autoplayFlag(opts.Autoplay),
			},
		},
		Binding: player.BindOptions,
		Events:  []string{"onReady", "onStateChange", "onError"},
	})
	if err != nil {
		return nil, fmt.Errorf("construct youtube player: %w", err)
	}

	a := &Adapter{Base: player.NewBase(p.ID(), capabilities, native, opts)}
	a.Pump(a.handle)
	if err := a.WaitReady(ctx); err != nil {
		player.Abandon(ctx, a)
		return nil, err
	}
	return a, nil
}

func autoplayFlag(autoplay bool) int {
	if autoplay {
		return 1
	}
	return 0
}

// Adapter drives one YT.Player
type Adapter struct {
	*player.Base
}

func (a *Adapter) handle(ev player.NativeEvent) {
	switch ev.Name {
	case "onReady":
		a.MarkReady()
	case "onStateChange":
		code, err := player.Decode[int](ev.Data, nil)
		if err != nil {
			a.Log().Warn("Unreadable state change", "error", err)
			return
		}
		if state, ok := mapState(code); ok {
			a.Events().State.Set(state)
		}
	case "onError":
		code, _ := player.Decode[int](ev.Data, nil)
		a.Log().Warn("YouTube player reported an error", "code", code)
	}
}

// mapState maps a native state onto the canonical one.  Buffering has no canonical equivalent.
func mapState(code int) (domain.PlaybackState, bool) {
	switch code {
	case nativeUnstarted, nativeCued:
		return domain.StateUnstarted, true
	case nativeEnded:
		return domain.StateEnded, true
	case nativePlaying:
		return domain.StatePlaying, true
	case nativePaused:
		return domain.StatePaused, true
	default:
		return 0, false
	}
}

// LoadContentByID starts the video straight away with autoplay and only cues it otherwise.  The player stays ready
// throughout, so loading is confirmed as soon as the call returns.
func (a *Adapter) LoadContentByID(ctx context.Context, id string) error {
	method := "cueVideoById"
	if a.Options().Autoplay {
		method = "loadVideoById"
	}
	return player.Discard(a.Native().Call(ctx, method, id))
}

func (a *Adapter) SetPlaybackState(ctx context.Context, state domain.PlaybackState) error {
	switch state {
	case domain.StatePlaying:
		return player.Discard(a.Native().Call(ctx, "playVideo"))
	case domain.StatePaused:
		return player.Discard(a.Native().Call(ctx, "pauseVideo"))
	default:
		return nil
	}
}

func (a *Adapter) SetMute(ctx context.Context, muted bool) error {
	if muted {
		return player.Discard(a.Native().Call(ctx, "mute"))
	}
	return player.Discard(a.Native().Call(ctx, "unMute"))
}

func (a *Adapter) SetVolume(ctx context.Context, volume int) error {
	return player.Discard(a.Native().Call(ctx, "setVolume", volume))
}

func (a *Adapter) Seek(ctx context.Context, seconds float64) error {
	return player.Discard(a.Native().Call(ctx, "seekTo", seconds, true))
}

func (a *Adapter) Resize(ctx context.Context, width, height int) error {
	return player.Discard(a.Native().Call(ctx, "setSize", width, height))
}

func (a *Adapter) Title(ctx context.Context) (string, error) {
	data, err := player.Decode[struct {
		Title string `json:"title"`
	}](a.Native().Call(ctx, "getVideoData"))
	if err != nil {
		return "", err
	}
	return data.Title, nil
}

// Poll reads position, duration, volume and mute.  The IFrame API pushes none of them.
func (a *Adapter) Poll(ctx context.Context) (player.Sample, error) {
	current, err := player.Decode[float64](a.Native().Call(ctx, "getCurrentTime"))
	if err != nil {
		return player.Sample{}, err
	}
	duration, err := player.Decode[float64](a.Native().Call(ctx, "getDuration"))
	if err != nil {
		return player.Sample{}, err
	}
	volume, err := player.Decode[int](a.Native().Call(ctx, "getVolume"))
	if err != nil {
		return player.Sample{}, err
	}
	muted, err := player.Decode[bool](a.Native().Call(ctx, "isMuted"))
	if err != nil {
		return player.Sample{}, err
	}
	return player.Sample{
		CurrentTime: player.Float(current),
		Duration:    player.Float(duration),
		Volume:      player.Int(volume),
		Muted:       player.Bool(muted),
	}, nil
}

func (a *Adapter) Destroy(ctx context.Context) error {
	return a.Release(ctx, func(ctx context.Context) error {
		return player.Discard(a.Native().Call(ctx, "destroy"))
	})
}
