package models

import (
	"context"
	"time"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Session is the part of the player session the console drives.  *session.Controller implements it.
type Session interface {
	Subscribe() (<-chan domain.Notification, func())
	SetURL(ctx context.Context, url string) error
	Clear(ctx context.Context) error
	SetPlaybackState(ctx context.Context, state domain.PlaybackState) error
	SetVolume(ctx context.Context, volume int) error
	SetMute(ctx context.Context, muted bool) error
	Seek(ctx context.Context, seconds float64) error
	SetPip(ctx context.Context, pip bool) error
	SetFullscreen(ctx context.Context, fullscreen bool) error
	Title(ctx context.Context) (string, error)
	Status() session.Status
}

var _ Session = (*session.Controller)(nil)

const (
	commandTimeout = 5 * time.Second
	statusInterval = 250 * time.Millisecond
)

// waitForNotification blocks on the subscription and hands the next notification to the update loop
func waitForNotification(notes <-chan domain.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-notes
		if !ok {
			return NotificationsClosedMsg{}
		}
		return NotificationMsg{Notification: n}
	}
}

func statusTick() tea.Cmd {
	return tea.Tick(statusInterval, func(t time.Time) tea.Msg {
		return StatusTickMsg(t)
	})
}
