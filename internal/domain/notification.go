package domain

import "encoding/json"

// NotificationKind names one host-visible notification channel
type NotificationKind string

const (
	NotifyState      NotificationKind = "state"
	NotifyProgress   NotificationKind = "progress"
	NotifyVolume     NotificationKind = "volume"
	NotifyMute       NotificationKind = "mute"
	NotifyPip        NotificationKind = "pip"
	NotifyFullscreen NotificationKind = "fullscreen"
	NotifyError      NotificationKind = "error"
)

// Notification is one discrete value published to the host.  Only the field matching Kind is meaningful.
type Notification struct {
	Kind     NotificationKind
	State    PlaybackState
	Progress Progress
	Volume   int
	Muted    bool
	Enabled  bool // pip and fullscreen
	Message  string
}

func StateNotification(s PlaybackState) Notification {
	return Notification{Kind: NotifyState, State: s}
}

func ProgressNotification(p Progress) Notification {
	return Notification{Kind: NotifyProgress, Progress: p}
}

func VolumeNotification(v int) Notification {
	return Notification{Kind: NotifyVolume, Volume: v}
}

func MuteNotification(m bool) Notification {
	return Notification{Kind: NotifyMute, Muted: m}
}

func PipNotification(on bool) Notification {
	return Notification{Kind: NotifyPip, Enabled: on}
}

func FullscreenNotification(on bool) Notification {
	return Notification{Kind: NotifyFullscreen, Enabled: on}
}

func ErrorNotification(err error) Notification {
	return Notification{Kind: NotifyError, Message: err.Error()}
}

// Value returns the payload matching Kind
func (n Notification) Value() any {
	switch n.Kind {
	case NotifyState:
		return n.State
	case NotifyProgress:
		return n.Progress
	case NotifyVolume:
		return n.Volume
	case NotifyMute:
		return n.Muted
	case NotifyPip, NotifyFullscreen:
		return n.Enabled
	case NotifyError:
		return n.Message
	}
	return nil
}

// MarshalJSON encodes the notification as {"kind": ..., "value": ...}
func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  NotificationKind `json:"kind"`
		Value any              `json:"value"`
	}{n.Kind, n.Value()})
}
