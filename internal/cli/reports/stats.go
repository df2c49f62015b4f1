package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/stats"
)

type StatsCmd struct {
	Month string `short:"m" help:"Month to report (YYYY-MM, default this month)."`
	Prev  int    `short:"p" help:"Go back this many months from --month."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	month := c.Month
	if month == "" {
		month = ctx.Today()[:len(constants.MonthFormat)]
	}
	if c.Prev != 0 {
		if month, err = stats.ShiftMonth(month, -c.Prev); err != nil {
			return err
		}
	}

	tasks, err := ctx.Store.GetAllDailyTasks(sess.UserID())
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	report, err := stats.BuildMonth(month, tasks)
	if err != nil {
		return err
	}

	fmt.Print(render(report))
	return nil
}

func render(m stats.Month) string {
	var b strings.Builder

	title := m.Month
	if t, err := time.Parse(constants.MonthFormat, m.Month); err == nil {
		title = t.Format("January 2006")
	}
	b.WriteString(cli.TitleStyle.Render(title) + "\n\n")

	fmt.Fprintf(&b, "Total points:   %d\n", m.Total)
	fmt.Fprintf(&b, "Active days:    %d/%d\n", m.ActiveDays, len(m.Days))
	fmt.Fprintf(&b, "Daily average:  %d pts\n", m.Average)
	if m.Total > 0 {
		fmt.Fprintf(&b, "Best day:       %s (%d pts)\n", m.Best.Date, m.Best.Points)
		fmt.Fprintf(&b, "Worst day:      %s (%d pts)\n", m.Worst.Date, m.Worst.Points)
	}

	b.WriteString("\n" + cli.TitleStyle.Render("Weeks") + "\n")
	for _, w := range m.Weeks {
		first, last := w.Days[0], w.Days[len(w.Days)-1]
		fmt.Fprintf(&b, "  Week %d  %02d-%02d  %4d pts  %3d done  %d active\n",
			w.Number, first.Day, last.Day, w.Points, w.Completions, w.ActiveDays)
	}

	b.WriteString("\n" + cli.TitleStyle.Render("Days") + "\n")
	for _, d := range m.Days {
		mark := cli.MutedStyle.Render("·")
		if d.Active {
			mark = cli.DoneStyle.Render("●")
		}
		fmt.Fprintf(&b, "  %s %s %2d  %4d pts  %d/%d\n",
			mark, d.Weekday.String()[:3], d.Day, d.Points, d.Completions, d.TotalTasks)
	}
	return b.String()
}
