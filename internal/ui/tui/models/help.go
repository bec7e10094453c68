package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PizzaHomicide/reel/internal/ui/tui/components"
	kb "github.com/PizzaHomicide/reel/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/reel/internal/ui/tui/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
)

// HelpModel displays contextual help with scrolling
type HelpModel struct {
	width, height int
	context       View
	viewport      viewport.Model
}

// NewHelpModel creates a new help model for the given context
func NewHelpModel(context View) *HelpModel {
	return &HelpModel{
		context:  context,
		viewport: viewport.New(0, 0),
	}
}

func (m *HelpModel) ViewType() View {
	return ViewHelp
}

func (m *HelpModel) Init() tea.Cmd {
	if m.width > 0 && m.height > 0 {
		m.updateContent()
	}
	return nil
}

func (m *HelpModel) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
	case tea.KeyMsg:
		switch kb.GetActionByKey(msg, kb.ContextHelp) {
		case kb.ActionMoveUp, kb.ActionMoveDown, kb.ActionPageUp, kb.ActionPageDown:
			m.viewport, cmd = m.viewport.Update(msg)
		case kb.ActionMoveTop:
			m.viewport.GotoTop()
		case kb.ActionMoveBottom:
			m.viewport.GotoBottom()
		}
	}
	return m, cmd
}

// Resize fits the viewport inside the content box, below the header and above the footer
func (m *HelpModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-4, 1)
	m.viewport.Height = max(height-10, 1)
	m.updateContent()
}

// updateContent regenerates the help text and scrolls back to the top
func (m *HelpModel) updateContent() {
	m.viewport.SetContent(wrapContent(m.generateHelpContent(), m.viewport.Width))
	m.viewport.GotoTop()
}

// wrapContent fits content to width, breaking on words first and then hard wrapping anything still too long
func wrapContent(content string, width int) string {
	if width <= 0 {
		return content
	}
	return wrap.String(wordwrap.String(content, width), width)
}

func (m *HelpModel) View() string {
	scroll := components.BarFor(kb.ContextHelp, map[kb.Action]string{
		kb.ActionMoveUp:     "Scroll",
		kb.ActionPageUp:     "Page",
		kb.ActionMoveTop:    "Top",
		kb.ActionMoveBottom: "Bottom",
	}, kb.ActionMoveUp, kb.ActionPageUp, kb.ActionMoveTop, kb.ActionMoveBottom)
	back := components.BarFor(kb.ContextGlobal, map[kb.Action]string{kb.ActionBack: "Close"}, kb.ActionBack)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		styles.Header(m.width, "Help: "+m.getContextTitle()),
		"",
		styles.ContentBox(m.width-2, m.viewport.View(), 1),
		"",
		components.KeyBindingsBar(m.width, append(scroll, back...)),
	)
}

// getContextTitle returns a user-friendly title for the context
func (m *HelpModel) getContextTitle() string {
	switch m.context {
	case ViewPlayer:
		return "Player"
	case ViewURLInput:
		return "Open URL"
	case ViewLoading:
		return "Loading"
	default:
		return "General"
	}
}

// SetContext switches the help content to another view
func (m *HelpModel) SetContext(context View) {
	if m.context == context {
		return
	}
	m.context = context
	m.updateContent()
}

// formatKeybindingSection lists bindings under title with their help text aligned.  Actions in skip are left out.
func (m *HelpModel) formatKeybindingSection(title string, bindings []kb.Binding, skip map[kb.Action]bool) string {
	shown := lo.Filter(bindings, func(b kb.Binding, _ int) bool { return !skip[b.Action] })
	if len(shown) == 0 {
		return ""
	}
	keys := lo.Map(shown, func(b kb.Binding, _ int) string { return b.Keys(" or ") })
	keyWidth := lo.Max(lo.Map(keys, func(k string, _ int) int { return utf8.RuneCountInString(k) }))

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n\n")
	for i, binding := range shown {
		padding := strings.Repeat(" ", keyWidth-utf8.RuneCountInString(keys[i]))
		fmt.Fprintf(&b, "• %s%s : %s\n", lipgloss.NewStyle().Bold(true).Render(keys[i]), padding, binding.KeyMap.Help)
	}
	return b.String()
}

// generateHelpContent builds the complete help content
func (m *HelpModel) generateHelpContent() string {
	var b strings.Builder

	// Title style for sections
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

	// Add context description section
	b.WriteString(titleStyle.Render(m.getContextTitle()))
	b.WriteString("\n\n")
	b.WriteString(m.getContextDescription())
	b.WriteString("\n\n")

	// Add keybindings section
	b.WriteString(titleStyle.Render("Keybindings"))
	b.WriteString("\n\n")

	// Global keybindings
	globalBindings := m.formatKeybindingSection("Global commands:", kb.ContextBindings[kb.ContextGlobal], nil)
	b.WriteString(globalBindings)

	// Build a map of global actions to avoid duplicating them in context-specific bindings
	globalActions := make(map[kb.Action]bool)
	for _, binding := range kb.ContextBindings[kb.ContextGlobal] {
		globalActions[binding.Action] = true
	}

	// The player bindings are always listed, they are what the console is for
	b.WriteString("\n")
	b.WriteString(m.formatKeybindingSection("Player commands:", kb.ContextBindings[kb.ContextPlayer], globalActions))

	if m.context == ViewURLInput || m.context == ViewPlayer {
		b.WriteString("\n")
		b.WriteString(m.formatKeybindingSection("When entering a url:", kb.ContextBindings[kb.ContextURLInput], nil))
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Platforms"))
	b.WriteString("\n\n")
	b.WriteString(m.getPlatformDetails())

	return b.String()
}

// getPlatformDetails explains what each platform can do
func (m *HelpModel) getPlatformDetails() string {
	var b strings.Builder
	b.WriteString("• YouTube     : play/pause, seek, volume, mute, title\n")
	b.WriteString("• Dailymotion : play/pause, seek, volume, mute, title\n")
	b.WriteString("• Vimeo       : play/pause, seek, volume, mute, fullscreen, picture-in-picture, title\n")
	b.WriteString("• SoundCloud  : play/pause, seek, volume, title.  Mute is emulated with the volume\n\n")
	b.WriteString("Commands a platform does not support are ignored or reported in the status line.\n")
	b.WriteString("Fullscreen and picture-in-picture requests that are refused are switched back off.\n")
	return b.String()
}

// getContextDescription returns help text for the current context
func (m *HelpModel) getContextDescription() string {
	switch m.context {
	case ViewPlayer:
		return "The player screen shows the session driving the host page.\n\n" +
			"Open the host page address in a browser, then open a url here.  The url is classified, the platform " +
			"SDK is loaded into the page and the player is created.  Opening another url on the same platform " +
			"reuses the player, otherwise the old one is destroyed first."

	case ViewURLInput:
		return "Paste a YouTube, Dailymotion, Vimeo or SoundCloud url and press enter.\n\n" +
			"Submitting an empty url closes the current player."

	case ViewLoading:
		return "The player is being created.  Press esc to give up and close it."

	default:
		return "Welcome to reel, a terminal console for embedded web players."
	}
}
