package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "exactly10!", TruncateString("exactly10!", 10))
	assert.Equal(t, "a long...", TruncateString("a long title", 9))
	// Wide runes count double
	assert.Equal(t, "日本...", TruncateString("日本語のタイトル", 8))
}

func TestFormatPlaybackTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{9.9, "0:09"},
		{75, "1:15"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{7384.2, "2:03:04"},
		{-1, "--:--"},
		{math.NaN(), "--:--"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPlaybackTime(tt.seconds), "seconds %v", tt.seconds)
	}
}

func TestFraction(t *testing.T) {
	assert.Equal(t, 0.5, Fraction(30, 60))
	assert.Equal(t, 1.0, Fraction(90, 60))
	assert.Equal(t, 0.0, Fraction(-5, 60))
	assert.Equal(t, 0.0, Fraction(30, 0))
}
