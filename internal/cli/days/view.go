package days

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/trackpro/internal/catalog"
	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/day"
	"github.com/julianstephens/trackpro/internal/models"
)

// dayView is a resolved day plus what is needed to label its tasks.
type dayView struct {
	Day        *day.Day
	Activities []models.Activity
	Categories map[string]models.Category
}

func loadDay(ctx *cli.Context, date string) (*dayView, error) {
	sess, err := ctx.RequireSession()
	if err != nil {
		return nil, err
	}
	date, err = ctx.ResolveDate(date)
	if err != nil {
		return nil, err
	}

	d, err := ctx.Resolver().Resolve(sess.UserID(), date)
	if err != nil {
		return nil, err
	}

	cat := ctx.Catalog()
	acts, err := cat.Activities(sess.UserID())
	if err != nil {
		return nil, err
	}
	cats, err := cat.Categories(sess.UserID())
	if err != nil {
		return nil, err
	}

	v := &dayView{Day: d, Activities: acts, Categories: make(map[string]models.Category, len(cats))}
	for _, c := range cats {
		v.Categories[c.ID] = c
	}
	return v, nil
}

func (v *dayView) groups() []day.Group {
	return day.GroupByCategory(v.Day.Tasks, v.Activities)
}

// ordered lists tasks in display order; task numbers index into it.
func (v *dayView) ordered() []models.DailyTask {
	var tasks []models.DailyTask
	for _, g := range v.groups() {
		tasks = append(tasks, g.Tasks...)
	}
	return tasks
}

func (v *dayView) activityName(id string) string {
	for _, a := range v.Activities {
		if a.ID == id {
			return a.Name
		}
	}
	return "(deleted activity)"
}

// resolveTask maps a task number, task id or activity name to a task id.
// A reference that matches nothing is returned unchanged.
func (v *dayView) resolveTask(ref string) (string, error) {
	tasks := v.ordered()
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(tasks) {
		return tasks[n-1].ID, nil
	}
	if _, ok := v.Day.Task(ref); ok {
		return ref, nil
	}

	var matches []string
	for _, t := range tasks {
		if strings.EqualFold(v.activityName(t.ActivityID), strings.TrimSpace(ref)) {
			matches = append(matches, t.ID)
		}
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("%w: %d tasks for %q, use the task number", catalog.ErrAmbiguousReference, len(matches), ref)
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return ref, nil
}

func (v *dayView) render() string {
	var b strings.Builder

	header := v.Day.Date
	if t, err := time.Parse(constants.DateFormat, v.Day.Date); err == nil {
		header = t.Format("Monday, January 2 2006")
	}
	b.WriteString(cli.TitleStyle.Render(header))
	if v.Day.Virtual {
		b.WriteString(cli.MutedStyle.Render("  (from template)"))
	}
	b.WriteString("\n\n")

	if len(v.Day.Tasks) == 0 {
		b.WriteString("No tasks for this day. Add activities with 'trackpro activity add'.\n")
		return b.String()
	}

	n := 0
	for _, g := range v.groups() {
		name, color := "Uncategorized", "240"
		if c, ok := v.Categories[g.CategoryID]; ok {
			name, color = c.Name, c.Color
		}
		b.WriteString(cli.Swatch(color, "● "+name) + "\n")

		for _, t := range g.Tasks {
			n++
			check := "[ ]"
			label := v.activityName(t.ActivityID)
			if t.Completed {
				check = cli.DoneStyle.Render("[✓]")
				label = cli.MutedStyle.Render(label)
			}
			fmt.Fprintf(&b, "  %2d. %s %-28s %4d pts\n", n, check, label, t.PointsEarned)
		}
	}

	s := day.Summarize(v.Day.Tasks)
	fmt.Fprintf(&b, "\n%s %3d%%  %d/%d tasks  %d/%d pts\n",
		cli.ProgressBar(s.Percent, 24), s.Percent, s.Completed, s.Total, s.Earned, s.Possible)
	return b.String()
}
