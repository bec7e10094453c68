package classify

import (
	"testing"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPriorityAndPatternOrder(t *testing.T) {
	c := New(
		NewRule("first",
			`example\.com/a/(?P<id>[0-9]+)$`,
			`example\.com/(?P<id>[a-z]+)`,
		),
		NewRule("second",
			`example\.com/(?P<id>.+)$`,
		),
	)

	tests := []struct {
		name string
		url  string
		want domain.ContentRequest
	}{
		{"first pattern wins", "https://example.com/a/42", domain.ContentRequest{Platform: "first", ID: "42"}},
		{"second pattern of first platform", "https://example.com/abc", domain.ContentRequest{Platform: "first", ID: "abc"}},
		{"falls through to next platform", "https://example.com/123", domain.ContentRequest{Platform: "second", ID: "123"}},
		{"surrounding whitespace ignored", "  https://example.com/123 ", domain.ContentRequest{Platform: "second", ID: "123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, []domain.PlatformID{"first", "second"}, c.Platforms())
}

func TestClassifyNotFound(t *testing.T) {
	c := New(NewRule("only", `only\.tv/(?P<id>[0-9]*)$`))

	for _, url := range []string{"", "https://example.com/video", "https://only.tv/"} {
		_, err := c.Classify(url)
		require.ErrorIs(t, err, domain.ErrNotFound, url)

		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, url, nf.URL)
	}
}

func TestNewRuleRequiresIDGroup(t *testing.T) {
	assert.Panics(t, func() {
		NewRule("broken", `example\.com/([0-9]+)`)
	})
}
