package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/tui"
)

type TuiCmd struct {
	Date string `short:"d" help:"Date to open (YYYY-MM-DD, default today)."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewModel(tui.Deps{
		Ctx:      runCtx,
		Session:  sess,
		Resolver: ctx.Resolver(),
		Engine:   ctx.Engine(),
		Catalog:  ctx.Catalog(),
		Insights: ctx.InsightGenerator(runCtx),
		Today:    ctx.Today,
	}, date)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
