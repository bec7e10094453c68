package ipc

import (
	"context"
	"encoding/json"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/session"
)

type handler func(ctx context.Context, s *session.Controller, args []json.RawMessage) (any, error)

var commands = map[string]handler{
	"set_url": func(ctx context.Context, s *session.Controller, args []json.RawMessage) (any, error) {
		url, err := arg[string](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.SetURL(ctx, url)
	},
	"clear": func(ctx context.Context, s *session.Controller, _ []json.RawMessage) (any, error) {
		return nil, s.Clear(ctx)
	},
	"classify": func(_ context.Context, s *session.Controller, args []json.RawMessage) (any, error) {
		url, err := arg[string](args, 0)
		if err != nil {
			return nil, err
		}
		return s.Classify(url)
	},
	"set_size": func(ctx context.Context, s *session.Controller, args []json.RawMessage) (any, error) {
		width, err := arg[int](args, 0)
		if err != nil {
			return nil, err
		}
		height, err := arg[int](args, 1)
		if err != nil {
			return nil, err
		}
		return nil, s.SetSize(ctx, width, height)
	},
	"set_state": func(ctx context.Context, s *session.Controller, args []json.RawMessage) (any, error) {
		state, err := arg[domain.PlaybackState](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.SetPlaybackState(ctx, state)
	},
	"set_volume": func(ctx context.Context, s *session.Controller, args []json.RawMessage) (any, error) {
		volume, err := arg[int](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.SetVolume(ctx, volume)
	},
	"set_mute": func(ctx context.Context, s *session.Controller, args []json.RawMessage) (any, error) {
		muted, err := arg[bool](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.SetMute(ctx, muted)
	},
	"set_pip": func(ctx context.Context, s *session.Controller, args []json.RawMessage) (any, error) {
		on, err := arg[bool](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.SetPip(ctx, on)
	},
	"set_fullscreen": func(ctx context.Context, s *session.Controller, args []json.RawMessage) (any, error) {
		on, err := arg[bool](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.SetFullscreen(ctx, on)
	},
	"seek": func(ctx context.Context, s *session.Controller, args []json.RawMessage) (any, error) {
		seconds, err := arg[float64](args, 0)
		if err != nil {
			return nil, err
		}
		return nil, s.Seek(ctx, seconds)
	},
	"get_state": func(_ context.Context, s *session.Controller, _ []json.RawMessage) (any, error) {
		return s.PlaybackState(), nil
	},
	"get_pip": func(ctx context.Context, s *session.Controller, _ []json.RawMessage) (any, error) {
		return s.Pip(ctx)
	},
	"get_fullscreen": func(ctx context.Context, s *session.Controller, _ []json.RawMessage) (any, error) {
		return s.Fullscreen(ctx)
	},
	"get_title": func(ctx context.Context, s *session.Controller, _ []json.RawMessage) (any, error) {
		return s.Title(ctx)
	},
	"get_status": func(_ context.Context, s *session.Controller, _ []json.RawMessage) (any, error) {
		return s.Status(), nil
	},
}
