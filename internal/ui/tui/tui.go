// Package tui is the terminal console for a running player session
package tui

import (
	"context"
	"errors"

	"github.com/PizzaHomicide/reel/internal/ui/tui/models"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the console until the user quits or ctx is cancelled.  pageURL is the host page address shown to the
// user and pageConnected reports whether a page is attached.
func Run(ctx context.Context, s models.Session, pageURL string, pageConnected func() bool) error {
	app := models.NewAppModel(ctx, s, pageURL, pageConnected)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
