package days

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/insights"
)

type InsightsCmd struct {
	Date string `short:"d" help:"Date to analyze (YYYY-MM-DD, default today)."`
}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	v, err := loadDay(ctx, c.Date)
	if err != nil {
		return err
	}

	desc, ok := insights.Describe(v.Day.Tasks, v.Day.Date)
	if !ok {
		fmt.Println("No tasks on this day, nothing to analyze.")
		return nil
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := ctx.InsightGenerator(sigCtx)
	fmt.Println(cli.MutedStyle.Render("Asking for insights..."))
	ins, ok := insights.Fetch(sigCtx, gen, desc)
	if !ok {
		fmt.Println(cli.WarningStyle.Render("Insights unavailable right now."))
		return nil
	}

	fmt.Println(cli.TitleStyle.Render("Insights for " + v.Day.Date))
	fmt.Println(ins.Summary)
	if len(ins.Tips) > 0 {
		fmt.Println()
		for _, tip := range ins.Tips {
			fmt.Printf("  • %s\n", tip)
		}
	}
	return nil
}
