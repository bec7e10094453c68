package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitySet(t *testing.T) {
	set := NewCapabilitySet(CapabilityVolume, CapabilityGetTitle)

	assert.True(t, set.Has(CapabilityVolume))
	assert.True(t, set.Has(CapabilityGetTitle))
	assert.False(t, set.Has(CapabilityPip))
	assert.False(t, set.Has(CapabilityFullscreen))
	assert.Equal(t, []string{"volume", "getTitle"}, set.Names())
	assert.Equal(t, "[volume getTitle]", set.String())
}

func TestPlaybackStateText(t *testing.T) {
	for _, s := range []PlaybackState{StateUnstarted, StatePlaying, StatePaused, StateEnded} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var parsed PlaybackState
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, s, parsed)
	}

	_, err := ParsePlaybackState("buffering")
	assert.Error(t, err)
}

func TestParsePlatformID(t *testing.T) {
	id, ok := ParsePlatformID(" YouTube ")
	assert.True(t, ok)
	assert.Equal(t, PlatformYouTube, id)

	_, ok = ParsePlatformID("wistia")
	assert.False(t, ok)
}

func TestErrorTaxonomy(t *testing.T) {
	notFound := fmt.Errorf("set url: %w", &NotFoundError{URL: "https://example.com/video"})
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.Contains(t, notFound.Error(), "https://example.com/video")

	var nf *NotFoundError
	require.True(t, errors.As(notFound, &nf))
	assert.Equal(t, "https://example.com/video", nf.URL)

	unsupported := &UnsupportedError{Platform: PlatformSoundCloud, Operation: "pip"}
	assert.ErrorIs(t, unsupported, ErrUnsupported)
	assert.NotErrorIs(t, unsupported, ErrNotFound)
	assert.Equal(t, "pip is not supported on soundcloud", unsupported.Error())
}

func TestNotificationJSON(t *testing.T) {
	data, err := json.Marshal(StateNotification(StatePaused))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"state","value":"paused"}`, string(data))

	data, err = json.Marshal(ProgressNotification(Progress{CurrentTime: 1.5, Duration: 10}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"progress","value":{"current_time":1.5,"duration":10}}`, string(data))

	data, err = json.Marshal(MuteNotification(false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"mute","value":false}`, string(data))
}
