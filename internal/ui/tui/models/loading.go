package models

import (
	"strings"
	"time"

	"github.com/PizzaHomicide/reel/internal/log"
	"github.com/PizzaHomicide/reel/internal/session"
	"github.com/PizzaHomicide/reel/internal/ui/tui/styles"
	"github.com/PizzaHomicide/reel/internal/ui/tui/util"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loadStage is one visible step of opening a url
type loadStage struct {
	label  string
	phases []session.Phase
}

// loadStages are shown in order.  The session may skip a stage, e.g. the SDK is already loaded or the player is
// reused.
var loadStages = []loadStage{
	{label: "Loading platform SDK", phases: []session.Phase{session.PhaseAwaitingSDK}},
	{label: "Creating player", phases: []session.Phase{session.PhaseAwaitingPlayerReady, session.PhaseDestroying}},
	{label: "Loading content", phases: []session.Phase{session.PhaseSwitchingContent}},
}

// LoadingModel shows the progress of opening one url while the session works through its phases
type LoadingModel struct {
	width, height int
	url           string
	// stage is the index into loadStages reached so far, -1 before the session reported anything
	stage     int
	spinner   spinner.Model
	startTime time.Time
}

// NewLoadingModel creates a loading model for url
func NewLoadingModel(url string) *LoadingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D86FF")).Bold(true)

	return &LoadingModel{
		url:       url,
		stage:     -1,
		spinner:   s,
		startTime: time.Now(),
	}
}

func (m *LoadingModel) ViewType() View {
	return ViewLoading
}

func (m *LoadingModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetPhase advances the visible stage.  Stages never move backwards, a later phase seen once stays reached.
func (m *LoadingModel) SetPhase(phase session.Phase) {
	for i, stage := range loadStages {
		for _, p := range stage.phases {
			if p == phase && i > m.stage {
				m.stage = i
			}
		}
	}
}

// Stage returns the label of the stage in progress, or an empty string before the session reported a phase
func (m *LoadingModel) Stage() string {
	if m.stage < 0 {
		return ""
	}
	return loadStages[m.stage].label
}

func (m *LoadingModel) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	log.Trace("Loading model ignoring message", "message", msg)
	return m, nil
}

func (m *LoadingModel) View() string {
	contentWidth := min(m.width-20, 80)
	if contentWidth < 40 {
		contentWidth = min(m.width-4, 40)
	}
	innerWidth := max(contentWidth-6, 10)

	var b strings.Builder
	b.WriteString(styles.Url.Render(util.TruncateString(m.url, innerWidth)))
	b.WriteString("\n\n")

	for i, stage := range loadStages {
		switch {
		case i < m.stage:
			b.WriteString(styles.Dim.Render("✓ " + stage.label))
		case i == m.stage:
			b.WriteString(m.spinner.View() + " " + lipgloss.NewStyle().Bold(true).Render(stage.label))
		default:
			b.WriteString(styles.Dim.Render("  " + stage.label))
		}
		b.WriteString("\n")
	}
	if m.stage < 0 {
		b.WriteString("\n" + m.spinner.View() + " Classifying")
	}

	// Only worth showing once the wait gets noticeable
	if elapsed := time.Since(m.startTime); elapsed >= 2*time.Second {
		b.WriteString("\n" + styles.Dim.Render("waiting "+elapsed.Truncate(time.Second).String()))
	}
	b.WriteString("\n\n" + styles.Info.Render("Press esc to cancel"))

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 2).
		Align(lipgloss.Center).
		Width(contentWidth)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#9D86FF")).
		Padding(1, 3).
		Width(contentWidth)

	view := lipgloss.JoinVertical(lipgloss.Center, titleStyle.Render("Opening"), boxStyle.Render(b.String()))
	return styles.CenteredView(m.width, m.height, view)
}

func (m *LoadingModel) Resize(width, height int) {
	m.width = width
	m.height = height
}
