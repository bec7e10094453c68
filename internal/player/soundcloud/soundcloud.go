// Package soundcloud adapts the SoundCloud Widget API
package soundcloud

import (
	"context"
	"fmt"
	"html"
	"math"
	"net/url"
	"strconv"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/sdk"
)

const (
	constructor = "SC.Widget"
	widgetURL   = "https://w.soundcloud.com/player/"
	// unmutedVolume is restored when unmuting.  The widget has no mute, so mute is volume 0.
	unmutedVolume = 50
)

var capabilities = domain.NewCapabilitySet(
	domain.CapabilityVolume,
	domain.CapabilityGetTitle,
)

// Platform creates SoundCloud adapters.  Content ids are full track urls.
type Platform struct{}

func New() *Platform {
	return &Platform{}
}

func (p *Platform) ID() domain.PlatformID {
	return domain.PlatformSoundCloud
}

func (p *Platform) URLPatterns() []string {
	return []string{`(?P<id>https?://(www\.)?soundcloud\.com/.+)$`}
}

func (p *Platform) Script() sdk.Script {
	return sdk.Script{URL: "https://w.soundcloud.com/player/api.js", Global: "SC"}
}

func (p *Platform) Capabilities() domain.CapabilitySet {
	return capabilities
}

// iframeHTML is the widget iframe the SDK attaches to.  The widget renders itself, SC.Widget only wraps it.
func iframeHTML(opts player.Options) string {
	query := url.Values{}
	query.Set("url", opts.ContentID)
	query.Set("show_teaser", "false")
	query.Set("auto_play", strconv.FormatBool(opts.Autoplay))
	src := widgetURL + "?" + query.Encode()
	return fmt.Sprintf(`<iframe id="%s" width="%d" height="%d" style="max-width:100%%" src="%s" allow="autoplay"></iframe>`,
		html.EscapeString(opts.DomID), opts.Width, opts.Height, html.EscapeString(src))
}

func (p *Platform) Create(ctx context.Context, opts player.Options) (player.Adapter, error) {
	if err := opts.Validate(p.ID()); err != nil {
		return nil, err
	}
	if err := opts.Mount.SetHTML(ctx, iframeHTML(opts)); err != nil {
		return nil, fmt.Errorf("mount soundcloud widget: %w", err)
	}

	native, err := opts.Mount.Construct(ctx, player.Construct{
		Constructor:   constructor,
		Target:        opts.DomID,
		TargetElement: true,
		Binding:       player.BindWidget,
		Events:        []string{"READY", "PLAY", "PAUSE", "FINISH", "PLAY_PROGRESS"},
	})
	if err != nil {
		return nil, fmt.Errorf("construct soundcloud widget: %w", err)
	}

	a := &Adapter{Base: player.NewBase(p.ID(), capabilities, native, opts)}
	a.Pump(a.handle)
	if err := a.WaitReady(ctx); err != nil {
		player.Abandon(ctx, a)
		return nil, err
	}
	return a, nil
}

// Adapter drives one SC.Widget
type Adapter struct {
	*player.Base
}

func (a *Adapter) handle(ev player.NativeEvent) {
	switch ev.Name {
	case "READY":
		a.MarkReady()
	case "PLAY":
		a.Events().State.Set(domain.StatePlaying)
		ms, err := player.Decode[float64](a.Native().CallWithCallback(a.Scope(), "getDuration"))
		if err != nil {
			a.Log().Debug("Failed to read duration", "error", err)
			return
		}
		a.Events().SetDuration(ms / 1000)
	case "PAUSE":
		a.Events().State.Set(domain.StatePaused)
	case "FINISH":
		a.Events().State.Set(domain.StateEnded)
	case "PLAY_PROGRESS":
		progress, err := player.Decode[struct {
			CurrentPosition float64 `json:"currentPosition"`
		}](ev.Data, nil)
		if err == nil {
			a.Events().SetCurrentTime(progress.CurrentPosition / 1000)
		}
	}
}

func (a *Adapter) LoadContentByID(ctx context.Context, id string) error {
	return player.Discard(a.Native().Call(ctx, "load", id, map[string]any{"auto_play": a.Options().Autoplay}))
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

// SetMute is emulated through the volume.  Unmuting restores a fixed volume, not the one before muting.
func (a *Adapter) SetMute(ctx context.Context, muted bool) error {
	if muted {
		return a.SetVolume(ctx, 0)
	}
	return a.SetVolume(ctx, unmutedVolume)
}

func (a *Adapter) SetVolume(ctx context.Context, volume int) error {
	return player.Discard(a.Native().Call(ctx, "setVolume", volume))
}

func (a *Adapter) Seek(ctx context.Context, seconds float64) error {
	return player.Discard(a.Native().Call(ctx, "seekTo", seconds*1000))
}

func (a *Adapter) Resize(ctx context.Context, width, height int) error {
	selector := "#" + a.Options().DomID
	mount := a.Options().Mount
	if err := mount.SetAttribute(ctx, selector, "width", strconv.Itoa(width)); err != nil {
		return err
	}
	return mount.SetAttribute(ctx, selector, "height", strconv.Itoa(height))
}

// Title prefers the track description over its title
func (a *Adapter) Title(ctx context.Context) (string, error) {
	sound, err := player.Decode[struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}](a.Native().CallWithCallback(ctx, "getCurrentSound"))
	if err != nil {
		return "", err
	}
	if sound.Description != "" {
		return sound.Description, nil
	}
	return sound.Title, nil
}

// Poll reads the volume.  Mute is derived from it.
func (a *Adapter) Poll(ctx context.Context) (player.Sample, error) {
	volume, err := player.Decode[float64](a.Native().CallWithCallback(ctx, "getVolume"))
	if err != nil {
		return player.Sample{}, err
	}
	v := int(math.Round(volume))
	return player.Sample{Volume: player.Int(v), Muted: player.Bool(v == 0)}, nil
}

// Destroy is left to player.Base: SC.Widget cannot be destroyed.  Clearing the mount removes the iframe, the
// widget's message listener stays in the page.
