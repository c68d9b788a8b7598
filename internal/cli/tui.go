package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/blockout/internal/session"
	"github.com/julianstephens/blockout/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	store, err := ctx.LoadedStore()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	// the model fetches the dates itself so the first frame can show progress
	p := tea.NewProgram(tui.NewModel(session.New(store, ctx.ProductID)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
