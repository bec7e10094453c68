// Package dailymotion adapts the legacy Dailymotion player API (DM.player)
package dailymotion

import (
	"context"
	"fmt"
	"math"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/sdk"
)

const constructor = "DM.player"

var capabilities = domain.NewCapabilitySet(
	domain.CapabilityVolume,
	domain.CapabilityMute,
	domain.CapabilityGetTitle,
)

var nativeEvents = []string{
	"apiready",
	"play",
	"playing",
	"pause",
	"end",
	"video_end",
	"durationchange",
	"volumechange",
}

// Platform creates Dailymotion adapters
type Platform struct{}

func New() *Platform {
	return &Platform{}
}

func (p *Platform) ID() domain.PlatformID {
	return domain.PlatformDailymotion
}

func (p *Platform) URLPatterns() []string {
	return []string{
		`https?://(www\.)?dailymotion\.com/video/(?P<id>[0-9A-Za-z]+)$`,
		`https?://dai\.ly/(?P<id>[0-9A-Za-z]+)$`,
	}
}

func (p *Platform) Script() sdk.Script {
	return sdk.Script{URL: "https://api.dmcdn.net/all.js", Global: "DM"}
}

func (p *Platform) Capabilities() domain.CapabilitySet {
	return capabilities
}

// Create renders into an empty child div of the container.  DM.player takes the element rather than its id.
func (p *Platform) Create(ctx context.Context, opts player.Options) (player.Adapter, error) {
	if err := opts.Validate(p.ID()); err != nil {
		return nil, err
	}
	if err := opts.Mount.SetHTML(ctx, player.ContainerHTML(opts.DomID)); err != nil {
		return nil, fmt.Errorf("mount dailymotion container: %w", err)
	}

	native, err := opts.Mount.Construct(ctx, player.Construct{
		Constructor:   constructor,
		Target:        opts.DomID,
		TargetElement: true,
		Options: map[string]any{
			"video":  opts.ContentID,
			"width":  opts.Width,
			"height": opts.Height,
			"params": map[string]any{
				"autoplay": opts.Autoplay,
			},
		},
		Binding: player.BindOptions,
		Events:  nativeEvents,
	})
	if err != nil {
		return nil, fmt.Errorf("construct dailymotion player: %w", err)
	}

	a := &Adapter{Base: player.NewBase(p.ID(), capabilities, native, opts)}
	a.Pump(a.handle)
	if err := a.WaitReady(ctx); err != nil {
		player.Abandon(ctx, a)
		return nil, err
	}
	return a, nil
}

// Adapter drives one DM.player
type Adapter struct {
	*player.Base
}

func (a *Adapter) handle(ev player.NativeEvent) {
	switch ev.Name {
	case "apiready":
		a.MarkReady()
	case "play", "playing":
		a.Events().State.Set(domain.StatePlaying)
	case "pause":
		a.Events().State.Set(domain.StatePaused)
	case "end", "video_end":
		a.Events().State.Set(domain.StateEnded)
	case "durationchange":
		if duration, err := player.Decode[float64](a.Native().Get(a.Scope(), "duration")); err == nil {
			a.Events().SetDuration(duration)
		}
	case "volumechange":
		a.readVolume(a.Scope())
	}
}

// readVolume publishes the volume and mute properties.  Both change through volumechange only.
func (a *Adapter) readVolume(ctx context.Context) {
	volume, err := player.Decode[float64](a.Native().Get(ctx, "volume"))
	if err != nil {
		a.Log().Debug("Failed to read volume", "error", err)
		return
	}
	muted, err := player.Decode[bool](a.Native().Get(ctx, "muted"))
	if err != nil {
		a.Log().Debug("Failed to read mute", "error", err)
		return
	}
	a.Events().Volume.Set(int(math.Round(volume * 100)))
	a.Events().Muted.Set(muted)
}

// LoadContentByID is confirmed as soon as the call returns.  Dailymotion keeps the player ready across loads.
func (a *Adapter) LoadContentByID(ctx context.Context, id string) error {
	return player.Discard(a.Native().Call(ctx, "load", map[string]any{
		"video":    id,
		"autoplay": a.Options().Autoplay,
	}))
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
	return player.Discard(a.Native().Call(ctx, "seek", seconds))
}

// Resize assigns the width and height properties.  DM.player has no resize method.
func (a *Adapter) Resize(ctx context.Context, width, height int) error {
	if err := a.Native().Set(ctx, "width", width); err != nil {
		return err
	}
	return a.Native().Set(ctx, "height", height)
}

func (a *Adapter) Title(ctx context.Context) (string, error) {
	video, err := player.Decode[struct {
		Title string `json:"title"`
	}](a.Native().Get(ctx, "video"))
	if err != nil {
		return "", err
	}
	return video.Title, nil
}

// Poll reads the position, which the SDK only pushes through timeupdate at a rate not worth bridging
func (a *Adapter) Poll(ctx context.Context) (player.Sample, error) {
	current, err := player.Decode[float64](a.Native().Get(ctx, "currentTime"))
	if err != nil {
		return player.Sample{}, err
	}
	return player.Sample{CurrentTime: player.Float(current)}, nil
}

// Destroy is left to player.Base: DM.player has no destroy primitive, so the handle is only released.  The native
// player dies when the controller clears the mount, leaving the SDK's own page listeners behind.
