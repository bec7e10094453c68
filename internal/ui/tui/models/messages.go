package models

import (
	"time"

	"github.com/PizzaHomicide/reel/internal/domain"
	kb "github.com/PizzaHomicide/reel/internal/ui/tui/keybindings"
)

// NotificationMsg carries one notification published by the session
type NotificationMsg struct {
	Notification domain.Notification
}

// NotificationsClosedMsg is sent once the session has closed its notification stream
type NotificationsClosedMsg struct{}

// StatusTickMsg triggers a refresh of the session snapshot
type StatusTickMsg time.Time

// URLSubmittedMsg is sent when the user confirms the url input
type URLSubmittedMsg struct {
	URL string
}

// URLInputCancelledMsg is sent when the user leaves the url input without loading
type URLInputCancelledMsg struct{}

// LoadFinishedMsg is sent when a url request is ready, failed or was superseded
type LoadFinishedMsg struct {
	URL   string
	Error error
}

// CommandResultMsg reports the outcome of a player command
type CommandResultMsg struct {
	Action kb.Action
	Error  error
}

// TitleLoadedMsg carries the result of a title lookup
type TitleLoadedMsg struct {
	Title string
	Error error
}
