package domain

import (
	"fmt"
	"strings"
)

// PlatformID identifies a third-party hosting service with its own embed SDK
type PlatformID string

const (
	PlatformYouTube     PlatformID = "youtube"
	PlatformDailymotion PlatformID = "dailymotion"
	PlatformVimeo       PlatformID = "vimeo"
	PlatformSoundCloud  PlatformID = "soundcloud"
)

// KnownPlatforms lists every platform in classification priority order
var KnownPlatforms = []PlatformID{
	PlatformYouTube,
	PlatformDailymotion,
	PlatformVimeo,
	PlatformSoundCloud,
}

// ParsePlatformID maps a configured platform name onto a known PlatformID
func ParsePlatformID(name string) (PlatformID, bool) {
	id := PlatformID(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range KnownPlatforms {
		if id == known {
			return id, true
		}
	}
	return "", false
}

// ContentRequest asks for one piece of content to be played on one platform.  A new request replaces the previous one
// wholesale, so it is passed around by value.
type ContentRequest struct {
	Platform PlatformID `json:"platform"`
	ID       string     `json:"id"`
}

func (r ContentRequest) String() string {
	return fmt.Sprintf("%s:%s", r.Platform, r.ID)
}

// PlaybackState is the cross-platform playback state every adapter maps its native vocabulary onto
type PlaybackState int

const (
	StateUnstarted PlaybackState = iota
	StatePlaying
	StatePaused
	StateEnded
)

func (s PlaybackState) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("PlaybackState(%d)", int(s))
	}
}

// ParsePlaybackState parses the lower case names produced by PlaybackState.String
func ParsePlaybackState(s string) (PlaybackState, error) {
	switch strings.ToLower(s) {
	case "unstarted":
		return StateUnstarted, nil
	case "playing":
		return StatePlaying, nil
	case "paused":
		return StatePaused, nil
	case "ended":
		return StateEnded, nil
	}
	return StateUnstarted, fmt.Errorf("unknown playback state %q", s)
}

func (s PlaybackState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PlaybackState) UnmarshalText(text []byte) error {
	parsed, err := ParsePlaybackState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Progress is the position within the current content, in seconds
type Progress struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
}
