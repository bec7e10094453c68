package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/player"
	"github.com/PizzaHomicide/reel/internal/session"
	"github.com/PizzaHomicide/reel/internal/ui/tui/components"
	kb "github.com/PizzaHomicide/reel/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/reel/internal/ui/tui/styles"
	"github.com/PizzaHomicide/reel/internal/ui/tui/util"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	seekStep   = 10.0
	volumeStep = 5
)

// PlayerModel shows the live session and turns key presses into player commands
type PlayerModel struct {
	ctx           context.Context
	session       Session
	width, height int

	pageURL       string
	pageConnected func() bool

	status    session.Status
	live      player.Snapshot // last status snapshot with later notifications applied
	title     string
	feedback  string
	lastError string
	progress  progress.Model
}

// NewPlayerModel creates the player view.  pageConnected may be nil when the page state is unknown.
func NewPlayerModel(ctx context.Context, s Session, pageURL string, pageConnected func() bool) *PlayerModel {
	m := &PlayerModel{
		ctx:           ctx,
		session:       s,
		pageURL:       pageURL,
		pageConnected: pageConnected,
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.Refresh()
	return m
}

func (m *PlayerModel) ViewType() View {
	return ViewPlayer
}

func (m *PlayerModel) Init() tea.Cmd {
	return nil
}

// Refresh replaces the displayed values with a fresh session snapshot
func (m *PlayerModel) Refresh() {
	previous := m.status.Request
	m.status = m.session.Status()
	if m.status.Player != nil {
		m.live = *m.status.Player
	} else {
		m.live = player.Snapshot{}
	}
	if !sameRequest(previous, m.status.Request) {
		m.title = ""
	}
}

func sameRequest(a, b *domain.ContentRequest) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Apply folds one session notification into the displayed values
func (m *PlayerModel) Apply(n domain.Notification) {
	switch n.Kind {
	case domain.NotifyState:
		m.live.State = n.State
	case domain.NotifyProgress:
		m.live.Progress = n.Progress
	case domain.NotifyVolume:
		m.live.Volume = n.Volume
	case domain.NotifyMute:
		m.live.Muted = n.Muted
	case domain.NotifyPip:
		m.live.Pip = n.Enabled
	case domain.NotifyFullscreen:
		m.live.Fullscreen = n.Enabled
	case domain.NotifyError:
		m.lastError = n.Message
	}
}

// SetError shows err until the next successful action.  A nil err clears it.
func (m *PlayerModel) SetError(err error) {
	if err == nil {
		m.lastError = ""
		return
	}
	m.lastError = err.Error()
}

func (m *PlayerModel) SetFeedback(text string) {
	m.feedback = text
}

func (m *PlayerModel) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case CommandResultMsg:
		if msg.Error != nil {
			log.Debug("Player command failed", "action", msg.Action, "error", msg.Error)
			m.SetError(msg.Error)
			m.feedback = ""
		} else {
			m.lastError = ""
			m.feedback = describeAction(msg.Action)
		}
		m.Refresh()
		return m, nil

	case TitleLoadedMsg:
		if msg.Error != nil {
			m.SetError(msg.Error)
			return m, nil
		}
		m.lastError = ""
		m.title = msg.Title
		return m, nil
	}
	return m, nil
}

func (m *PlayerModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	action := kb.GetActionByKey(msg, kb.ContextPlayer)
	switch action {
	case kb.ActionTogglePlay:
		target := domain.StatePlaying
		if m.live.State == domain.StatePlaying {
			target = domain.StatePaused
		}
		return m.command(action, func(ctx context.Context) error {
			return m.session.SetPlaybackState(ctx, target)
		})
	case kb.ActionSeekForward, kb.ActionSeekBackward:
		target := m.seekTarget(action)
		return m.command(action, func(ctx context.Context) error {
			return m.session.Seek(ctx, target)
		})
	case kb.ActionVolumeUp, kb.ActionVolumeDown:
		volume := m.live.Volume + volumeStep
		if action == kb.ActionVolumeDown {
			volume = m.live.Volume - volumeStep
		}
		volume = max(0, min(100, volume))
		return m.command(action, func(ctx context.Context) error {
			return m.session.SetVolume(ctx, volume)
		})
	case kb.ActionToggleMute:
		muted := !m.live.Muted
		return m.command(action, func(ctx context.Context) error {
			return m.session.SetMute(ctx, muted)
		})
	case kb.ActionToggleFullscreen:
		on := !m.live.Fullscreen
		return m.command(action, func(ctx context.Context) error {
			return m.session.SetFullscreen(ctx, on)
		})
	case kb.ActionTogglePip:
		on := !m.live.Pip
		return m.command(action, func(ctx context.Context) error {
			return m.session.SetPip(ctx, on)
		})
	case kb.ActionClear:
		return m.command(action, m.session.Clear)
	case kb.ActionShowTitle:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(m.ctx, commandTimeout)
			defer cancel()
			title, err := m.session.Title(ctx)
			return TitleLoadedMsg{Title: title, Error: err}
		}
	}
	return nil
}

// seekTarget steps from the last known position, staying inside the content
func (m *PlayerModel) seekTarget(action kb.Action) float64 {
	target := m.live.Progress.CurrentTime + seekStep
	if action == kb.ActionSeekBackward {
		target = m.live.Progress.CurrentTime - seekStep
	}
	if d := m.live.Progress.Duration; d > 0 && target > d {
		target = d
	}
	return max(0, target)
}

// command runs fn off the update loop and reports its outcome as a CommandResultMsg
func (m *PlayerModel) command(action kb.Action, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, commandTimeout)
		defer cancel()
		return CommandResultMsg{Action: action, Error: fn(ctx)}
	}
}

func describeAction(action kb.Action) string {
	switch action {
	case kb.ActionClear:
		return "Player closed"
	case kb.ActionSeekForward, kb.ActionSeekBackward:
		return "Seeked"
	case kb.ActionVolumeUp, kb.ActionVolumeDown:
		return "Volume changed"
	case kb.ActionTogglePlay:
		return "Playback state requested"
	case kb.ActionToggleMute:
		return "Mute toggled"
	case kb.ActionToggleFullscreen:
		return "Fullscreen toggled"
	case kb.ActionTogglePip:
		return "Picture-in-picture toggled"
	}
	return ""
}

func (m *PlayerModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.progress.Width = max(10, width-50)
}

func (m *PlayerModel) View() string {
	header := styles.Header(m.width, "reel")

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(styles.Label.Render(fmt.Sprintf("%-13s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	page := styles.Url.Render(m.pageURL)
	if m.pageConnected != nil {
		if m.pageConnected() {
			page += styles.Info.Render("  (connected)")
		} else {
			page += styles.Dim.Render("  (waiting for the page)")
		}
	}
	row("Host page", page)
	row("Phase", m.status.Phase.String())

	if m.status.Request == nil {
		row("Content", styles.Dim.Render("nothing loaded, press o to open a url"))
	} else {
		row("Content", m.status.Request.String())
	}

	if m.status.Player != nil {
		row("Capabilities", util.TruncateString(strings.Join(m.status.Capabilities, ", "), max(10, m.width-20)))
		if m.title != "" {
			row("Title", util.TruncateString(m.title, max(10, m.width-20)))
		}
		row("State", m.live.State.String())
		p := m.live.Progress
		row("Position", m.progress.ViewAs(util.Fraction(p.CurrentTime, p.Duration))+"  "+
			util.FormatPlaybackTime(p.CurrentTime)+" / "+util.FormatPlaybackTime(p.Duration))
		volume := fmt.Sprintf("%d", m.live.Volume)
		if m.live.Muted {
			volume += styles.Dim.Render("  (muted)")
		}
		row("Volume", volume)
		row("Fullscreen", onOff(m.live.Fullscreen))
		row("PiP", onOff(m.live.Pip))
	}
	row("Size", fmt.Sprintf("%dx%d", m.status.Width, m.status.Height))

	var message string
	switch {
	case m.lastError != "":
		message = styles.Error.Render(m.lastError)
	case m.feedback != "":
		message = styles.Info.Render(m.feedback)
	}

	footer := components.KeyBindingsBar(m.width, components.BarFor(kb.ContextPlayer, map[kb.Action]string{
		kb.ActionOpenURL:    "Open",
		kb.ActionTogglePlay: "Play/pause",
		kb.ActionToggleMute: "Mute",
		kb.ActionClear:      "Close",
	}, kb.ActionOpenURL, kb.ActionTogglePlay, kb.ActionToggleMute, kb.ActionClear))
	help := styles.CenteredText(m.width, styles.Dim.Render("ctrl+h: help • ctrl+c: quit"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		styles.ContentBox(m.width-2, strings.TrimRight(b.String(), "\n"), 1),
		styles.StatusLine.Render(message),
		footer,
		help,
	)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
