package models

import (
	"strings"

	kb "github.com/PizzaHomicide/reel/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/reel/internal/ui/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// URLInputModel asks for the url of the content to load
type URLInputModel struct {
	width, height int
	input         textinput.Model
}

func NewURLInputModel() *URLInputModel {
	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/watch?v=..."
	ti.Prompt = "url> "
	ti.CharLimit = 2048
	return &URLInputModel{input: ti}
}

func (m *URLInputModel) ViewType() View {
	return ViewURLInput
}

// Init focuses the input.  It is called every time the modal opens, so the previous value is dropped.
func (m *URLInputModel) Init() tea.Cmd {
	m.input.Reset()
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *URLInputModel) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch kb.GetActionByKey(keyMsg, kb.ContextURLInput) {
		case kb.ActionSubmitURL:
			url := strings.TrimSpace(m.input.Value())
			m.input.Blur()
			return m, func() tea.Msg { return URLSubmittedMsg{URL: url} }
		case kb.ActionBack:
			m.input.Blur()
			return m, func() tea.Msg { return URLInputCancelledMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *URLInputModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(20, min(100, width-16))
}

func (m *URLInputModel) View() string {
	hint := styles.Dim.Render("enter: load • esc: cancel • an empty url closes the player")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#9D86FF")).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Label.Render("Open a YouTube, Dailymotion, Vimeo or SoundCloud url"),
			"",
			m.input.View(),
			"",
			hint,
		))
	return styles.CenteredView(m.width, m.height, box)
}
