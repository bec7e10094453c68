package player

import (
	"context"
	"fmt"
	"time"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/sdk"
)

// DefaultReconcileDelay is how long an adapter waits before publishing false after refusing fullscreen or pip
const DefaultReconcileDelay = 50 * time.Millisecond

// Adapter is the common control surface over one live native player.  Capability-gated operations must only be
// invoked when Capabilities reports the capability, except fullscreen and pip which fail with a
// *domain.UnsupportedError on platforms that cannot provide them.
type Adapter interface {
	Platform() domain.PlatformID
	Capabilities() domain.CapabilitySet
	// Events is the bundle of host-visible notification channels of this adapter
	Events() *Events

	// LoadContentByID replaces the content of the existing native player.  It returns once the platform reports the
	// content as loaded, which is immediate for some platforms.
	LoadContentByID(ctx context.Context, id string) error
	// SetPlaybackState drives play and pause.  Ended and unstarted are not commandable and are ignored.
	SetPlaybackState(ctx context.Context, state domain.PlaybackState) error
	SetMute(ctx context.Context, muted bool) error
	// SetVolume takes a volume in 0-100 and rescales it to the native domain
	SetVolume(ctx context.Context, volume int) error
	// Seek takes seconds and rescales them to the native unit
	Seek(ctx context.Context, seconds float64) error
	Resize(ctx context.Context, width, height int) error
	Title(ctx context.Context) (string, error)
	SetFullscreen(ctx context.Context, fullscreen bool) error
	Fullscreen(ctx context.Context) (bool, error)
	SetPip(ctx context.Context, pip bool) error
	Pip(ctx context.Context) (bool, error)

	// Poll reads the values this platform cannot push through native events
	Poll(ctx context.Context) (Sample, error)

	// Destroy releases the native player.  It is safe to call more than once.
	Destroy(ctx context.Context) error
}

// Platform creates adapters for one platform and describes what the platform needs
type Platform interface {
	ID() domain.PlatformID
	// URLPatterns are the classification expressions, each with an (?P<id>...) group, in match order
	URLPatterns() []string
	Script() sdk.Script
	Capabilities() domain.CapabilitySet
	// Create mounts the platform's scaffolding, constructs the native player and returns once it reports ready
	Create(ctx context.Context, opts Options) (Adapter, error)
}

// Options configure the creation of an adapter
type Options struct {
	// Mount is the container handle.  Required.
	Mount Mount
	// DomID is the id given to the element the SDK renders into
	DomID string
	// ContentID is loaded by the new player
	ContentID string
	Width     int
	Height    int
	Autoplay  bool
	// ReconcileDelay is the delay before publishing false after an unsupported fullscreen or pip request
	ReconcileDelay time.Duration
	// Scope ends every goroutine of the adapter when done, in addition to Destroy
	Scope context.Context
}

// Validate checks the preconditions every platform shares
func (o Options) Validate(platform domain.PlatformID) error {
	if o.Mount == nil {
		return fmt.Errorf("the %s api requires the options mount to be set: %w", platform, domain.ErrNoMount)
	}
	if o.DomID == "" {
		return fmt.Errorf("the %s api requires a dom id", platform)
	}
	return nil
}

// Sample carries polled values.  Nil fields were not polled.
type Sample struct {
	CurrentTime *float64
	Duration    *float64
	Volume      *int
	Muted       *bool
}
