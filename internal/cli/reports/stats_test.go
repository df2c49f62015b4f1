package reports

import (
	"strings"
	"testing"

	"github.com/julianstephens/trackpro/internal/cli/clitest"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/stats"
)

func TestStatsCmd(t *testing.T) {
	ctx, store := clitest.New(t)
	user := clitest.SignIn(t, ctx, "u1", "AAAAAAAA")

	tasks := []models.DailyTask{
		{ID: "t1", ActivityID: "a1", UserID: user.ID, Date: "2025-05-03", Completed: true, PointsEarned: 10},
		{ID: "t2", ActivityID: "a1", UserID: user.ID, Date: "2025-04-30", Completed: true, PointsEarned: 4},
	}
	for _, task := range tasks {
		if err := store.AddDailyTask(task); err != nil {
			t.Fatal(err)
		}
	}

	for _, cmd := range []*StatsCmd{{}, {Month: "2025-04"}, {Prev: 1}} {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("stats %+v failed: %v", cmd, err)
		}
	}

	if err := (&StatsCmd{Month: "May 2025"}).Run(ctx); err == nil {
		t.Error("expected error for malformed month")
	}
}

func TestRender(t *testing.T) {
	m, err := stats.BuildMonth("2025-05", []models.DailyTask{
		{Date: "2025-05-03", Completed: true, PointsEarned: 10},
	})
	if err != nil {
		t.Fatal(err)
	}

	out := render(m)
	for _, want := range []string{"May 2025", "Total points:   10", "Best day:       2025-05-03", "Week 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
