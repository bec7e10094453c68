package player

import (
	"fmt"
	"time"

	"github.com/PizzaHomicide/reel/internal/classify"
	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/sdk"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Registry maps platform ids to their Platform in classification priority order
type Registry struct {
	platforms map[domain.PlatformID]Platform
	order     []domain.PlatformID
}

// NewRegistry registers the given platforms in order
func NewRegistry(platforms ...Platform) *Registry {
	r := &Registry{platforms: make(map[domain.PlatformID]Platform)}
	for _, p := range platforms {
		r.Register(p)
	}
	return r
}

// Register adds a platform.  Registering the same id twice replaces the platform but keeps its priority.
func (r *Registry) Register(p Platform) {
	if _, exists := r.platforms[p.ID()]; !exists {
		r.order = append(r.order, p.ID())
	}
	r.platforms[p.ID()] = p
	log.Debug("Registered platform", "platform", p.ID(), "capabilities", p.Capabilities().String())
}

// Resolve returns the platform registered for id
func (r *Registry) Resolve(id domain.PlatformID) (Platform, error) {
	p, ok := r.platforms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnregistered, id)
	}
	return p, nil
}

// MustResolve is Resolve for ids that came out of this registry's classifier, where a miss is a programming error
func (r *Registry) MustResolve(id domain.PlatformID) Platform {
	p, err := r.Resolve(id)
	if err != nil {
		panic(err)
	}
	return p
}

// Capabilities reports the capability subset a platform supports
func (r *Registry) Capabilities(id domain.PlatformID) (domain.CapabilitySet, error) {
	p, err := r.Resolve(id)
	if err != nil {
		return 0, err
	}
	return p.Capabilities(), nil
}

func (r *Registry) Platforms() []domain.PlatformID {
	return append([]domain.PlatformID(nil), r.order...)
}

// Classifier builds a classifier from the URL patterns of the registered platforms, so it can only ever produce ids
// this registry resolves
func (r *Registry) Classifier() *classify.Classifier {
	rules := lo.Map(r.order, func(id domain.PlatformID, _ int) classify.Rule {
		return classify.NewRule(id, r.platforms[id].URLPatterns()...)
	})
	return classify.New(rules...)
}

// Loaders creates the SDK loader state of every registered platform
func (r *Registry) Loaders(scripts sdk.ScriptLoader, timeout time.Duration) *sdk.Set {
	set := sdk.NewSet(scripts, timeout)
	for _, id := range r.order {
		set.Register(id, r.platforms[id].Script())
	}
	return set
}

// Suggest returns the registered platform name closest to name, or "" if nothing is close
func (r *Registry) Suggest(name string) string {
	names := lo.Map(r.order, func(id domain.PlatformID, _ int) string { return string(id) })
	return suggest(name, names)
}

func suggest(name string, candidates []string) string {
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	if len(ranks) == 0 {
		// Fall back to matching the other way round for typos longer than the target, e.g. "youtubee"
		for _, c := range candidates {
			if fuzzy.MatchNormalizedFold(c, name) {
				return c
			}
		}
		return ""
	}
	best := lo.MinBy(ranks, func(a, b fuzzy.Rank) bool { return a.Distance < b.Distance })
	return best.Target
}
