package models

import (
	"context"

	"github.com/PizzaHomicide/reel/internal/domain"
	"github.com/PizzaHomicide/reel/internal/log"
	kb "github.com/PizzaHomicide/reel/internal/ui/tui/keybindings"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel is the main application model that coordinates all child models.  It is the high level wrapper.
type AppModel struct {
	ctx           context.Context
	session       Session
	activeView    View  // Track the current active 'main view'
	activeModal   Modal // Track the current active 'modal overlay' if any
	width, height int

	notes       <-chan domain.Notification
	unsubscribe func()

	// Models used for various views
	playerModel   *PlayerModel
	loadingModel  *LoadingModel
	helpModel     *HelpModel
	urlInputModel *URLInputModel
}

// NewAppModel creates the console for s.  It subscribes to the session straight away so no notification published
// while the program starts is missed.  Close ends the subscription.
func NewAppModel(ctx context.Context, s Session, pageURL string, pageConnected func() bool) AppModel {
	notes, unsubscribe := s.Subscribe()
	return AppModel{
		ctx:           ctx,
		session:       s,
		activeView:    ViewPlayer,
		activeModal:   ModalNone,
		notes:         notes,
		unsubscribe:   unsubscribe,
		playerModel:   NewPlayerModel(ctx, s, pageURL, pageConnected),
		helpModel:     NewHelpModel(ViewPlayer),
		urlInputModel: NewURLInputModel(),
	}
}

// Close ends the notification subscription
func (m AppModel) Close() {
	m.unsubscribe()
}

func (m AppModel) Init() tea.Cmd {
	log.Info("Initialising reel TUI")
	return tea.Batch(waitForNotification(m.notes), statusTick())
}

// Update handles messages and updates the models as appropriate
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch kb.GetActionByKey(msg, kb.ContextGlobal) {
		case kb.ActionQuit:
			log.Info("Quit command received.  Shutting down...")
			return m, tea.Quit
		case kb.ActionToggleHelp:
			log.Debug("Help requested", "active_view", m.activeView)
			// Disable/toggle modal if one already active
			if m.activeModal == ModalHelp {
				m.activeModal = ModalNone
			} else {
				m.helpModel.SetContext(m.helpContext())
				m.activeModal = ModalHelp
			}
			return m, nil

		case kb.ActionBack:
			// Closing the help modal.  The url input handles esc itself so it can report the cancellation.
			if m.activeModal == ModalHelp {
				m.activeModal = ModalNone
				return m, nil
			}
			if m.activeModal == ModalNone && m.activeView == ViewLoading {
				log.Info("Loading cancelled, closing the player")
				return m, m.clear()
			}
		}

	case tea.WindowSizeMsg:
		log.Debug("Window size changed", "old_width", m.width, "new_width", msg.Width, "old_height", m.height, "new_height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

		// Propagate new window size to all views so they are aware and can render correctly
		m.playerModel.Resize(msg.Width, msg.Height)
		m.helpModel.Resize(msg.Width, msg.Height)
		m.urlInputModel.Resize(msg.Width, msg.Height)
		if m.loadingModel != nil {
			m.loadingModel.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case NotificationMsg:
		log.Trace("Notification received", "kind", msg.Notification.Kind)
		m.playerModel.Apply(msg.Notification)
		return m, waitForNotification(m.notes)

	case NotificationsClosedMsg:
		log.Info("Session closed.  Shutting down...")
		return m, tea.Quit

	case StatusTickMsg:
		m.playerModel.Refresh()
		if m.loadingModel != nil {
			m.loadingModel.SetPhase(m.playerModel.status.Phase)
		}
		return m, statusTick()

	case URLSubmittedMsg:
		m.activeModal = ModalNone
		if msg.URL == "" {
			return m, m.clear()
		}
		log.Info("Opening url", "url", msg.URL)
		m.loadingModel = NewLoadingModel(msg.URL)
		m.loadingModel.Resize(m.width, m.height)
		m.activeView = ViewLoading
		return m, tea.Batch(m.loadingModel.Init(), m.load(msg.URL))

	case URLInputCancelledMsg:
		m.activeModal = ModalNone
		return m, nil

	case CommandResultMsg, TitleLoadedMsg:
		// Results belong to the player whatever is on screen
		model, cmd := m.playerModel.Update(msg)
		m.playerModel = model.(*PlayerModel)
		return m, cmd

	case spinner.TickMsg:
		if m.loadingModel == nil {
			return m, nil
		}
		model, cmd := m.loadingModel.Update(msg)
		m.loadingModel = model.(*LoadingModel)
		return m, cmd

	case LoadFinishedMsg:
		if msg.Error != nil {
			log.Warn("Failed to open url", "url", msg.URL, "error", msg.Error)
		}
		m.playerModel.SetError(msg.Error)
		m.playerModel.SetFeedback("")
		m.playerModel.Refresh()
		m.activeView = ViewPlayer
		m.loadingModel = nil
		return m, nil
	}

	// Prioritise delegating messages to a modal if one is active
	switch m.activeModal {
	case ModalHelp:
		return m.updateHelpModal(msg)
	case ModalURLInput:
		return m.updateURLInputModal(msg)
	}

	// Delegate message processing to the active view
	switch m.activeView {
	case ViewLoading:
		// Only esc means something while the player is being created, and it was handled above
		return m, nil
	case ViewPlayer:
		return m.updatePlayerView(msg)
	}

	return m, nil
}

func (m AppModel) View() string {
	// If there is an active modal it takes precedence
	switch m.activeModal {
	case ModalHelp:
		return m.helpModel.View()
	case ModalURLInput:
		return m.urlInputModel.View()
	}

	// Else display the actual view
	switch m.activeView {
	case ViewLoading:
		if m.loadingModel != nil {
			return m.loadingModel.View()
		}
	case ViewPlayer:
		return m.playerModel.View()
	}
	return "Unknown view\nPress ctrl+c to quit."
}

func (m AppModel) helpContext() View {
	if m.activeModal == ModalURLInput {
		return ViewURLInput
	}
	return m.activeView
}

// load asks the session for url.  The command returns once the player is ready, the request failed or a newer
// request superseded it.
func (m AppModel) load(url string) tea.Cmd {
	return func() tea.Msg {
		return LoadFinishedMsg{URL: url, Error: m.session.SetURL(m.ctx, url)}
	}
}

func (m AppModel) clear() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, commandTimeout)
		defer cancel()
		return CommandResultMsg{Action: kb.ActionClear, Error: m.session.Clear(ctx)}
	}
}

// updatePlayerView opens the url input itself and delegates everything else to the player model
func (m AppModel) updatePlayerView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && kb.GetActionByKey(keyMsg, kb.ContextPlayer) == kb.ActionOpenURL {
		m.activeModal = ModalURLInput
		return m, m.urlInputModel.Init()
	}

	model, cmd := m.playerModel.Update(msg)
	m.playerModel = model.(*PlayerModel)
	return m, cmd
}

func (m AppModel) updateHelpModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.helpModel.Update(msg)
	m.helpModel = model.(*HelpModel)
	return m, cmd
}

func (m AppModel) updateURLInputModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.urlInputModel.Update(msg)
	m.urlInputModel = model.(*URLInputModel)
	return m, cmd
}
