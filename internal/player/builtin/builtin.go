// Package builtin assembles the registry of the platforms reel ships with
package builtin

import (
	"fmt"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/player/dailymotion"
	"github.com/PizzaHomicide/reel/internal/player/soundcloud"
	"github.com/PizzaHomicide/reel/internal/player/vimeo"
	"github.com/PizzaHomicide/reel/internal/player/youtube"
)

// Platforms returns every built-in platform in default priority order
func Platforms() []player.Platform {
	return []player.Platform{
		youtube.New(),
		dailymotion.New(),
		vimeo.New(),
		soundcloud.New(),
	}
}

// All returns a registry of every built-in platform
func All() *player.Registry {
	return player.NewRegistry(Platforms()...)
}

// New returns a registry of the named platforms, in the given order.  Unknown names are rejected with a suggestion.
func New(names []string) (*player.Registry, error) {
	all := All()
	if len(names) == 0 {
		return all, nil
	}

	registry := player.NewRegistry()
	for _, name := range names {
		id, ok := domain.ParsePlatformID(name)
		if !ok {
			if suggestion := all.Suggest(name); suggestion != "" {
				return nil, fmt.Errorf("unknown platform %q, did you mean %q?", name, suggestion)
			}
			return nil, fmt.Errorf("unknown platform %q", name)
		}
		registry.Register(all.MustResolve(id))
	}
	return registry, nil
}
