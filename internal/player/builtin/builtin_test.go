package builtin_test

import (
	"testing"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/player/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	classifier := builtin.All().Classifier()

	tests := []struct {
		url  string
		want domain.ContentRequest
	}{
		{"https://www.youtube.com/watch?v=abc123&t=5", domain.ContentRequest{Platform: domain.PlatformYouTube, ID: "abc123"}},
		{"http://youtube.com/watch?v=dQw4w9WgXcQ", domain.ContentRequest{Platform: domain.PlatformYouTube, ID: "dQw4w9WgXcQ"}},
		{"https://youtu.be/dQw4w9WgXcQ?t=10", domain.ContentRequest{Platform: domain.PlatformYouTube, ID: "dQw4w9WgXcQ"}},
		{"https://www.dailymotion.com/video/x7tgad0", domain.ContentRequest{Platform: domain.PlatformDailymotion, ID: "x7tgad0"}},
		{"https://dai.ly/x7tgad0", domain.ContentRequest{Platform: domain.PlatformDailymotion, ID: "x7tgad0"}},
		{"https://vimeo.com/76979871", domain.ContentRequest{Platform: domain.PlatformVimeo, ID: "76979871"}},
		{"https://player.vimeo.com/video/76979871?h=8272103f6e", domain.ContentRequest{Platform: domain.PlatformVimeo, ID: "76979871"}},
		{
			"https://soundcloud.com/artist/some-track",
			domain.ContentRequest{Platform: domain.PlatformSoundCloud, ID: "https://soundcloud.com/artist/some-track"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			got, err := classifier.Classify(tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyNotFound(t *testing.T) {
	classifier := builtin.All().Classifier()

	for _, url := range []string{
		"https://example.com/video",
		"https://vimeo.com/channels/staffpicks",
		"https://www.dailymotion.com/video/x7tgad0?playlist=x6hynp",
		"",
	} {
		_, err := classifier.Classify(url)
		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound, url)
		assert.Equal(t, url, notFound.URL)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}

func TestNewKeepsConfiguredOrder(t *testing.T) {
	registry, err := builtin.New([]string{"Vimeo", "youtube"})
	require.NoError(t, err)
	assert.Equal(t, []domain.PlatformID{domain.PlatformVimeo, domain.PlatformYouTube}, registry.Platforms())

	_, err = registry.Resolve(domain.PlatformSoundCloud)
	assert.ErrorIs(t, err, domain.ErrUnregistered)

	_, err = registry.Classifier().Classify("https://soundcloud.com/artist/track")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewSuggestsCorrections(t *testing.T) {
	tests := []struct {
		name    string
		suggest string
	}{
		{"youtub", "youtube"},
		{"youtubee", "youtube"},
		{"soundclod", "soundcloud"},
		{"twitch", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builtin.New([]string{tc.name})
			require.Error(t, err)
			if tc.suggest == "" {
				assert.NotContains(t, err.Error(), "did you mean")
				return
			}
			assert.Contains(t, err.Error(), `did you mean "`+tc.suggest+`"`)
		})
	}
}

func TestCapabilitiesPerPlatform(t *testing.T) {
	registry := builtin.All()

	caps, err := registry.Capabilities(domain.PlatformVimeo)
	require.NoError(t, err)
	assert.True(t, caps.Has(domain.CapabilityPip))
	assert.True(t, caps.Has(domain.CapabilityFullscreen))

	for _, id := range []domain.PlatformID{domain.PlatformYouTube, domain.PlatformDailymotion, domain.PlatformSoundCloud} {
		caps, err := registry.Capabilities(id)
		require.NoError(t, err)
		assert.False(t, caps.Has(domain.CapabilityPip), id)
		assert.False(t, caps.Has(domain.CapabilityFullscreen), id)
		assert.True(t, caps.Has(domain.CapabilityVolume), id)
	}

	caps, _ = registry.Capabilities(domain.PlatformSoundCloud)
	assert.False(t, caps.Has(domain.CapabilityMute))
}
