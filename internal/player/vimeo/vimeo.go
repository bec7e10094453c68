// Package vimeo adapts the Vimeo Player SDK
package vimeo

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/sdk"
)

const constructor = "Vimeo.Player"

var capabilities = domain.NewCapabilitySet(
	domain.CapabilityVolume,
	domain.CapabilityMute,
	domain.CapabilityFullscreen,
	domain.CapabilityPip,
	domain.CapabilityGetTitle,
)

var nativeEvents = []string{
	"play",
	"pause",
	"ended",
	"timeupdate",
	"durationchange",
	"volumechange",
	"enterpictureinpicture",
	"leavepictureinpicture",
	"fullscreenchange",
	"loaded",
}

// Platform creates Vimeo adapters
type Platform struct{}

func New() *Platform {
	return &Platform{}
}

func (p *Platform) ID() domain.PlatformID {
	return domain.PlatformVimeo
}

func (p *Platform) URLPatterns() []string {
	return []string{
		`https?://(www\.)?vimeo\.com/(?P<id>[0-9]+)$`,
		`https?://player\.vimeo\.com/video/(?P<id>[0-9]+)`,
	}
}

func (p *Platform) Script() sdk.Script {
	return sdk.Script{URL: "https://player.vimeo.com/api/player.js", Global: "Vimeo"}
}

func (p *Platform) Capabilities() domain.CapabilitySet {
	return capabilities
}

// Create constructs the player into an empty container.  Vimeo has no ready event, readiness is the ready() promise.
func (p *Platform) Create(ctx context.Context, opts player.Options) (player.Adapter, error) {
	if err := opts.Validate(p.ID()); err != nil {
		return nil, err
	}
	if err := opts.Mount.SetHTML(ctx, player.ContainerHTML(opts.DomID)); err != nil {
		return nil, fmt.Errorf("mount vimeo container: %w", err)
	}

	native, err := opts.Mount.Construct(ctx, player.Construct{
		Constructor: constructor,
		New:         true,
		Target:      opts.DomID,
		Options: map[string]any{
			"id":       videoID(opts.ContentID),
			"width":    opts.Width,
			"height":   opts.Height,
			"autoplay": opts.Autoplay,
		},
		Binding: player.BindOn,
		Events:  nativeEvents,
	})
	if err != nil {
		return nil, fmt.Errorf("construct vimeo player: %w", err)
	}

	a := &Adapter{Base: player.NewBase(p.ID(), capabilities, native, opts)}
	a.Pump(a.handle)
	if err := player.Discard(native.Call(ctx, "ready")); err != nil {
		player.Abandon(ctx, a)
		return nil, fmt.Errorf("waiting for vimeo player: %w", err)
	}
	a.MarkReady()
	return a, nil
}

// videoID passes numeric ids as numbers, which is what the SDK expects for ids as opposed to urls
func videoID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

// Adapter drives one Vimeo.Player
type Adapter struct {
	*player.Base
}

type timeUpdate struct {
	Seconds  float64 `json:"seconds"`
	Duration float64 `json:"duration"`
}

func (a *Adapter) handle(ev player.NativeEvent) {
	events := a.Events()
	switch ev.Name {
	case "play":
		events.State.Set(domain.StatePlaying)
	case "pause":
		events.State.Set(domain.StatePaused)
	case "ended":
		events.State.Set(domain.StateEnded)
	case "timeupdate":
		if t, err := player.Decode[timeUpdate](ev.Data, nil); err == nil {
			events.SetProgress(t.Seconds, t.Duration)
		}
	case "durationchange":
		if d, err := player.Decode[struct {
			Duration float64 `json:"duration"`
		}](ev.Data, nil); err == nil {
			events.SetDuration(d.Duration)
		}
	case "volumechange":
		if v, err := player.Decode[struct {
			Volume float64 `json:"volume"`
		}](ev.Data, nil); err == nil {
			events.Volume.Set(int(math.Round(v.Volume * 100)))
		}
	case "enterpictureinpicture":
		events.Pip.Set(true)
	case "leavepictureinpicture":
		events.Pip.Set(false)
	case "fullscreenchange":
		if f, err := player.Decode[struct {
			Fullscreen bool `json:"fullscreen"`
		}](ev.Data, nil); err == nil {
			events.Fullscreen.Set(f.Fullscreen)
		}
	case "loaded":
		events.State.Set(domain.StateUnstarted)
	}
}

// LoadContentByID resolves once the SDK confirms the new video loaded
func (a *Adapter) LoadContentByID(ctx context.Context, id string) error {
	return player.Discard(a.Native().Call(ctx, "loadVideo", videoID(id)))
}

func (a *Adapter) SetPlaybackState(ctx context.Context, state domain.PlaybackState) error {
	switch state {
	case domain.StatePlaying:
		return player.Discard(a.Native().Call(ctx, "play"))
	case domain.StatePaused:
		return player.Discard(a.Native().Call(ctx, "pause"))
	default:
		return nil
	}
}

func (a *Adapter) SetMute(ctx context.Context, muted bool) error {
	return player.Discard(a.Native().Call(ctx, "setMuted", muted))
}

// SetVolume rescales to the 0-1 domain of the SDK
func (a *Adapter) SetVolume(ctx context.Context, volume int) error {
	return player.Discard(a.Native().Call(ctx, "setVolume", float64(volume)/100))
}

func (a *Adapter) Seek(ctx context.Context, seconds float64) error {
	return player.Discard(a.Native().Call(ctx, "setCurrentTime", seconds))
}

// Resize mutates the iframe the SDK rendered.  Vimeo.Player cannot be resized through the API.
func (a *Adapter) Resize(ctx context.Context, width, height int) error {
	selector := fmt.Sprintf("#%s iframe", a.Options().DomID)
	mount := a.Options().Mount
	if err := mount.SetAttribute(ctx, selector, "width", strconv.Itoa(width)); err != nil {
		return err
	}
	return mount.SetAttribute(ctx, selector, "height", strconv.Itoa(height))
}

func (a *Adapter) Title(ctx context.Context) (string, error) {
	return player.Decode[string](a.Native().Call(ctx, "getVideoTitle"))
}

func (a *Adapter) SetFullscreen(ctx context.Context, fullscreen bool) error {
	if fullscreen {
		return player.Discard(a.Native().Call(ctx, "requestFullscreen"))
	}
	return player.Discard(a.Native().Call(ctx, "exitFullscreen"))
}

func (a *Adapter) Fullscreen(ctx context.Context) (bool, error) {
	return player.Decode[bool](a.Native().Call(ctx, "getFullscreen"))
}

func (a *Adapter) SetPip(ctx context.Context, pip bool) error {
	if pip {
		return player.Discard(a.Native().Call(ctx, "requestPictureInPicture"))
	}
	return player.Discard(a.Native().Call(ctx, "exitPictureInPicture"))
}

func (a *Adapter) Pip(ctx context.Context) (bool, error) {
	return player.Decode[bool](a.Native().Call(ctx, "getPictureInPicture"))
}

// Poll reads the mute flag, the only value Vimeo does not push
func (a *Adapter) Poll(ctx context.Context) (player.Sample, error) {
	muted, err := player.Decode[bool](a.Native().Call(ctx, "getMuted"))
	if err != nil {
		return player.Sample{}, err
	}
	return player.Sample{Muted: player.Bool(muted)}, nil
}

func (a *Adapter) Destroy(ctx context.Context) error {
	return a.Release(ctx, func(ctx context.Context) error {
		return player.Discard(a.Native().Call(ctx, "destroy"))
	})
}
