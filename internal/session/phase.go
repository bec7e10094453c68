package session

import (
	"fmt"
	"time"
)

// Phase is where the session stands in its lifecycle
type Phase int

const (
	// PhaseIdle has no content request and no player
	PhaseIdle Phase = iota
	// PhaseAwaitingSDK waits for the platform script to load
	PhaseAwaitingSDK
	// PhaseAwaitingPlayerReady waits for a newly constructed native player to report ready
	PhaseAwaitingPlayerReady
	// PhaseReady has a live player and runs the synchronization loop
	PhaseReady
	// PhaseSwitchingContent loads new content into the live player
	PhaseSwitchingContent
	// PhaseDestroying tears the live player down
	PhaseDestroying
)

var phaseNames = map[Phase]string{
	PhaseIdle:                "idle",
	PhaseAwaitingSDK:         "awaiting_sdk",
	PhaseAwaitingPlayerReady: "awaiting_player_ready",
	PhaseReady:               "ready",
	PhaseSwitchingContent:    "switching_content",
	PhaseDestroying:          "destroying",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Config tunes the controller
type Config struct {
	Width    int
	Height   int
	Autoplay bool
	// SyncInterval is the cadence of the synchronization loop
	SyncInterval time.Duration
	// ReconcileDelay is passed to adapters for unsupported fullscreen and pip requests
	ReconcileDelay time.Duration
	// ReadyTimeout bounds the wait for a new native player to report ready
	ReadyTimeout time.Duration
	// DestroyTimeout bounds the teardown of a player
	DestroyTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Width:          600,
		Height:         450,
		Autoplay:       true,
		SyncInterval:   50 * time.Millisecond,
		ReconcileDelay: 50 * time.Millisecond,
		ReadyTimeout:   20 * time.Second,
		DestroyTimeout: 5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = def.SyncInterval
	}
	if c.ReconcileDelay <= 0 {
		c.ReconcileDelay = def.ReconcileDelay
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = def.ReadyTimeout
	}
	if c.DestroyTimeout <= 0 {
		c.DestroyTimeout = def.DestroyTimeout
	}
	return c
}
