// Package session owns the single live player session.  The Controller sequences SDK loading, player creation,
// content loading and teardown, hands host commands to the live adapter and runs the synchronization loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PizzaHomicide/reel/internal/classify"
	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/notify"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/sdk"
)

const notificationBuffer = 64

// job is one content request, or a teardown when req is nil.  gen is the generation the request was given.
type job struct {
	gen  uint64
	ctx  context.Context
	req  *domain.ContentRequest
	done chan error
}

// Controller is the session state machine.  Requests are numbered with a monotonically increasing generation and
// processed one at a time by a single worker, so teardown always completes before the next player is constructed.
// A newer request cancels the context of the one in flight, and every step re-checks its generation before applying
// anything.
type Controller struct {
	registry   *player.Registry
	classifier *classify.Classifier
	loaders    *sdk.Set
	mount      player.Mount
	cfg        Config
	notes      *notify.Broadcaster[domain.Notification]

	root    context.Context
	cancel  context.CancelFunc
	wake    chan struct{}
	stopped chan struct{}

	mu        sync.RWMutex
	gen       uint64
	jobCancel context.CancelFunc
	pending   *job
	phase     Phase
	req       *domain.ContentRequest
	active    player.Adapter
	stopSync  func()
	width     int
	height    int
	domSeq    int
	closed    bool
}

// New creates a controller that mounts players through mount and starts its worker
func New(registry *player.Registry, loaders *sdk.Set, mount player.Mount, cfg Config) *Controller {
	cfg = cfg.withDefaults()
	root, cancel := context.WithCancel(context.Background())
	c := &Controller{
		registry:   registry,
		classifier: registry.Classifier(),
		loaders:    loaders,
		mount:      mount,
		cfg:        cfg,
		notes:      notify.NewBroadcaster[domain.Notification](notificationBuffer),
		root:       root,
		cancel:     cancel,
		wake:       make(chan struct{}, 1),
		stopped:    make(chan struct{}),
		width:      cfg.Width,
		height:     cfg.Height,
	}
	go c.run()
	return c
}

// Subscribe returns the host notification stream and a function ending the subscription
func (c *Controller) Subscribe() (<-chan domain.Notification, func()) {
	return c.notes.Subscribe()
}

// Classify resolves url without touching the session
func (c *Controller) Classify(url string) (domain.ContentRequest, error) {
	return c.classifier.Classify(url)
}

// SetURL classifies url and makes it the current request.  An empty url clears the session.  A url no platform
// recognises is reported and leaves the session as it was.  It returns once the request is ready, failed or was
// superseded by a newer one.
func (c *Controller) SetURL(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return c.Clear(ctx)
	}
	req, err := c.classifier.Classify(url)
	if err != nil {
		log.Warn("Rejected url", "url", url, "error", err)
		return err
	}
	return c.Load(ctx, req)
}

// Load makes req the current request
func (c *Controller) Load(ctx context.Context, req domain.ContentRequest) error {
	j, err := c.enqueue(&req)
	if err != nil {
		return err
	}
	return wait(ctx, j)
}

// Clear tears the session down to idle and clears the mount
func (c *Controller) Clear(ctx context.Context) error {
	j, err := c.enqueue(nil)
	if err != nil {
		return err
	}
	return wait(ctx, j)
}

// Reset forgets every loaded SDK and clears the session.  Used when the host page was replaced.
func (c *Controller) Reset(ctx context.Context) error {
	log.Info("Host page replaced, resetting session")
	c.loaders.Reset()
	return c.Clear(ctx)
}

func wait(ctx context.Context, j *job) error {
	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue bumps the generation, cancels the request in flight and hands j to the worker.  A request still waiting
// for the worker is superseded without running.
func (c *Controller) enqueue(req *domain.ContentRequest) (*job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrClosed
	}
	if c.jobCancel != nil {
		c.jobCancel()
	}
	c.gen++
	ctx, cancel := context.WithCancel(c.root)
	c.jobCancel = cancel
	c.req = req

	j := &job{gen: c.gen, ctx: ctx, req: req, done: make(chan error, 1)}
	if c.pending != nil {
		c.pending.done <- nil
	}
	c.pending = j

	select {
	case c.wake <- struct{}{}:
	default:
	}
	log.Debug("Session request queued", "generation", j.gen, "request", describe(req))
	return j, nil
}

func describe(req *domain.ContentRequest) string {
	if req == nil {
		return "none"
	}
	return req.String()
}

func (c *Controller) run() {
	defer close(c.stopped)
	for {
		select {
		case <-c.root.Done():
			return
		case <-c.wake:
		}

		c.mu.Lock()
		j := c.pending
		c.pending = nil
		c.mu.Unlock()
		if j == nil {
			continue
		}
		j.done <- c.process(j)
	}
}

func (c *Controller) process(j *job) error {
	if j.req == nil {
		c.teardown(j.ctx)
		c.idle(j.gen)
		log.Info("Session cleared", "generation", j.gen)
		return nil
	}

	req := *j.req
	c.mu.RLock()
	active, phase := c.active, c.phase
	c.mu.RUnlock()

	if active != nil && active.Platform() == req.Platform && (phase == PhaseReady || phase == PhaseSwitchingContent) {
		return c.recycle(j, active, req)
	}
	c.teardown(j.ctx)
	return c.create(j, req)
}

// recycle loads new content into the live player of the same platform
func (c *Controller) recycle(j *job, a player.Adapter, req domain.ContentRequest) error {
	if !c.transition(j.gen, PhaseSwitchingContent) {
		return nil
	}
	log.Info("Loading content into live player", "platform", req.Platform, "content_id", req.ID, "generation", j.gen)

	err := a.LoadContentByID(j.ctx, req.ID)
	if c.stale(j.gen) {
		return nil
	}
	c.transition(j.gen, PhaseReady)
	if err != nil {
		return c.fail(j.gen, fmt.Errorf("load %s: %w", req, err))
	}
	return nil
}

// create loads the SDK, constructs a new player and waits for it to report ready
func (c *Controller) create(j *job, req domain.ContentRequest) error {
	platform := c.registry.MustResolve(req.Platform)
	loader, ok := c.loaders.Loader(req.Platform)
	if !ok {
		return c.fail(j.gen, fmt.Errorf("%w: no sdk loader for %s", domain.ErrUnregistered, req.Platform))
	}

	if !c.transition(j.gen, PhaseAwaitingSDK) {
		return nil
	}
	if err := loader.EnsureLoaded(j.ctx); err != nil {
		if c.stale(j.gen) {
			return nil
		}
		c.idle(j.gen)
		return c.fail(j.gen, err)
	}

	if !c.transition(j.gen, PhaseAwaitingPlayerReady) {
		return nil
	}
	c.mu.Lock()
	c.domSeq++
	opts := player.Options{
		Mount:          c.mount,
		DomID:          fmt.Sprintf("player%d", c.domSeq),
		ContentID:      req.ID,
		Width:          c.width,
		Height:         c.height,
		Autoplay:       c.cfg.Autoplay,
		ReconcileDelay: c.cfg.ReconcileDelay,
		Scope:          c.root,
	}
	c.mu.Unlock()

	log.Info("Creating player", "platform", req.Platform, "content_id", req.ID, "dom_id", opts.DomID,
		"generation", j.gen)
	readyCtx, cancel := context.WithTimeout(j.ctx, c.cfg.ReadyTimeout)
	defer cancel()

	a, err := platform.Create(readyCtx, opts)
	if err != nil {
		if c.stale(j.gen) {
			return nil
		}
		if errors.Is(readyCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %s after %s", domain.ErrReadyTimeout, req, c.cfg.ReadyTimeout)
		}
		c.clearMount(j.ctx)
		c.idle(j.gen)
		return c.fail(j.gen, err)
	}
	return c.accept(j, a)
}

// accept makes a the live adapter unless its request was superseded meanwhile
func (c *Controller) accept(j *job, a player.Adapter) error {
	c.mu.Lock()
	if j.gen != c.gen {
		c.mu.Unlock()
		log.Debug("Discarding player of superseded request", "platform", a.Platform(), "generation", j.gen)
		player.Abandon(j.ctx, a)
		return nil
	}
	c.active = a
	c.phase = PhaseReady
	c.mu.Unlock()

	a.Events().Attach(c.publish)
	c.startSync(a)
	log.Info("Player ready", "platform", a.Platform(), "capabilities", a.Capabilities().String(), "generation", j.gen)
	return nil
}

// teardown stops the synchronization loop, destroys the live adapter and clears the mount.  It always runs to
// completion, even for a superseded request.
func (c *Controller) teardown(ctx context.Context) {
	c.mu.Lock()
	a, stop := c.active, c.stopSync
	c.active, c.stopSync = nil, nil
	if a != nil {
		c.phase = PhaseDestroying
	}
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
	if a != nil {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.DestroyTimeout)
		if err := a.Destroy(dctx); err != nil {
			log.Warn("Failed to destroy player", "platform", a.Platform(), "error", err)
		}
		cancel()
		log.Info("Player destroyed", "platform", a.Platform())
	}
	c.clearMount(ctx)
}

func (c *Controller) clearMount(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.DestroyTimeout)
	defer cancel()
	if err := c.mount.Clear(ctx); err != nil {
		log.Warn("Failed to clear mount", "error", err)
	}
}

// transition moves to phase if gen is still the current generation
func (c *Controller) transition(gen uint64, phase Phase) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	if c.phase != phase {
		log.Debug("Session phase changed", "from", c.phase, "to", phase, "generation", gen)
		c.phase = phase
	}
	return true
}

// idle drops the request of generation gen and returns to idle
func (c *Controller) idle(gen uint64) {
	c.mu.Lock()
	if gen == c.gen {
		c.req = nil
	}
	c.mu.Unlock()
	c.transition(gen, PhaseIdle)
}

func (c *Controller) stale(gen uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return gen != c.gen
}

// fail logs err and publishes it as an error notification while gen is current
func (c *Controller) fail(gen uint64, err error) error {
	log.Error("Session request failed", "generation", gen, "error", err)
	if !c.stale(gen) {
		c.publish(domain.ErrorNotification(err))
	}
	return err
}

func (c *Controller) publish(n domain.Notification) {
	log.Trace("Publishing notification", "kind", n.Kind, "value", n.Value())
	c.notes.Publish(n)
}

// live returns the live adapter
func (c *Controller) live() (player.Adapter, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return nil, domain.ErrNoPlayer
	}
	return c.active, nil
}

// gated returns the live adapter if it has capability.  A missing capability is logged and reported as ok=false so
// the command degrades to a no-op.
func (c *Controller) gated(capability domain.Capability, operation string) (player.Adapter, bool, error) {
	a, err := c.live()
	if err != nil {
		return nil, false, err
	}
	if !a.Capabilities().Has(capability) {
		log.Warn("Ignoring command the platform does not support", "platform", a.Platform(), "operation", operation)
		return a, false, nil
	}
	return a, true, nil
}

func (c *Controller) SetPlaybackState(ctx context.Context, state domain.PlaybackState) error {
	a, err := c.live()
	if err != nil {
		return err
	}
	return a.SetPlaybackState(ctx, state)
}

func (c *Controller) SetVolume(ctx context.Context, volume int) error {
	if volume < 0 || volume > 100 {
		return fmt.Errorf("%w: volume %d is outside 0-100", domain.ErrInvalidArgument, volume)
	}
	a, ok, err := c.gated(domain.CapabilityVolume, "volume")
	if err != nil || !ok {
		return err
	}
	return a.SetVolume(ctx, volume)
}

// SetMute needs a native mute or a volume to emulate it with
func (c *Controller) SetMute(ctx context.Context, muted bool) error {
	a, err := c.live()
	if err != nil {
		return err
	}
	caps := a.Capabilities()
	if !caps.Has(domain.CapabilityMute) && !caps.Has(domain.CapabilityVolume) {
		log.Warn("Ignoring command the platform does not support", "platform", a.Platform(), "operation", "mute")
		return nil
	}
	return a.SetMute(ctx, muted)
}

func (c *Controller) Seek(ctx context.Context, seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("%w: cannot seek to %v", domain.ErrInvalidArgument, seconds)
	}
	a, err := c.live()
	if err != nil {
		return err
	}
	return a.Seek(ctx, seconds)
}

// SetSize resizes the live player and sizes every player created later
func (c *Controller) SetSize(ctx context.Context, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", domain.ErrInvalidArgument, width, height)
	}
	c.mu.Lock()
	c.width, c.height = width, height
	a := c.active
	c.mu.Unlock()

	if a == nil {
		return nil
	}
	return a.Resize(ctx, width, height)
}

// SetPip fails with a *domain.UnsupportedError on platforms without picture-in-picture
func (c *Controller) SetPip(ctx context.Context, pip bool) error {
	a, err := c.live()
	if err != nil {
		return err
	}
	return a.SetPip(ctx, pip)
}

// SetFullscreen fails with a *domain.UnsupportedError on platforms without fullscreen
func (c *Controller) SetFullscreen(ctx context.Context, fullscreen bool) error {
	a, err := c.live()
	if err != nil {
		return err
	}
	return a.SetFullscreen(ctx, fullscreen)
}

func (c *Controller) Pip(ctx context.Context) (bool, error) {
	a, err := c.live()
	if err != nil {
		return false, err
	}
	return a.Pip(ctx)
}

func (c *Controller) Fullscreen(ctx context.Context) (bool, error) {
	a, err := c.live()
	if err != nil {
		return false, err
	}
	return a.Fullscreen(ctx)
}

func (c *Controller) Title(ctx context.Context) (string, error) {
	a, err := c.live()
	if err != nil {
		return "", err
	}
	if !a.Capabilities().Has(domain.CapabilityGetTitle) {
		return "", &domain.UnsupportedError{Platform: a.Platform(), Operation: "getTitle"}
	}
	return a.Title(ctx)
}

// PlaybackState is the last published playback state, unstarted without a player
func (c *Controller) PlaybackState() domain.PlaybackState {
	a, err := c.live()
	if err != nil {
		return domain.StateUnstarted
	}
	state, _ := a.Events().State.Get()
	return state
}

func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// Status is a snapshot of the session
type Status struct {
	Phase        Phase                  `json:"phase"`
	Request      *domain.ContentRequest `json:"request,omitempty"`
	Platform     domain.PlatformID      `json:"platform,omitempty"`
	Capabilities []string               `json:"capabilities"`
	Width        int                    `json:"width"`
	Height       int                    `json:"height"`
	Player       *player.Snapshot       `json:"player,omitempty"`
}

func (c *Controller) Status() Status {
	c.mu.RLock()
	s := Status{
		Phase:        c.phase,
		Width:        c.width,
		Height:       c.height,
		Capabilities: []string{},
	}
	if c.req != nil {
		req := *c.req
		s.Request = &req
	}
	a := c.active
	c.mu.RUnlock()

	if a != nil {
		snapshot := a.Events().Snapshot()
		s.Platform = a.Platform()
		s.Capabilities = a.Capabilities().Names()
		s.Player = &snapshot
	}
	return s
}

// Close stops the worker, destroys the live player and ends every subscription
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	if pending != nil {
		pending.done <- domain.ErrClosed
	}
	c.cancel()
	<-c.stopped
	c.teardown(context.Background())

	c.mu.Lock()
	c.phase = PhaseIdle
	c.req = nil
	c.mu.Unlock()
	c.notes.Close()
	log.Debug("Session closed")
}
