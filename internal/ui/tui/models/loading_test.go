package models

import (
	"testing"

	"github.com/PizzaHomicide/reel/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestLoadingStagesFollowThePhase(t *testing.T) {
	m := NewLoadingModel("https://vimeo.com/76979871")
	m.Resize(120, 40)
	assert.Empty(t, m.Stage())
	assert.Contains(t, m.View(), "Classifying")

	m.SetPhase(session.PhaseAwaitingSDK)
	assert.Equal(t, "Loading platform SDK", m.Stage())

	m.SetPhase(session.PhaseAwaitingPlayerReady)
	assert.Equal(t, "Creating player", m.Stage())
	assert.Contains(t, m.View(), "https://vimeo.com/76979871")
	assert.NotContains(t, m.View(), "Classifying")

	// Phases that are not part of loading, or earlier ones, never move the stage back
	m.SetPhase(session.PhaseIdle)
	m.SetPhase(session.PhaseAwaitingSDK)
	assert.Equal(t, "Creating player", m.Stage())
}

func TestLoadingSkipsStages(t *testing.T) {
	m := NewLoadingModel("https://youtu.be/dQw4w9WgXcQ")
	m.SetPhase(session.PhaseSwitchingContent)
	assert.Equal(t, "Loading content", m.Stage())
}
