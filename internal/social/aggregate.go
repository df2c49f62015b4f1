package social

import (
	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/utils"
)

// LifetimePoints sums the points of every completed task.
func LifetimePoints(tasks []models.DailyTask) int {
	total := 0
	for _, t := range tasks {
		if t.Completed {
			total += t.PointsEarned
		}
	}
	return total
}

// Streak counts consecutive days with at least one completed task, walking
// back from today. A today without completions yields 0.
func Streak(tasks []models.DailyTask, today string) int {
	active := make(map[string]bool)
	for _, t := range tasks {
		if t.Completed {
			active[t.Date] = true
		}
	}

	day, err := utils.ParseDate(today)
	if err != nil {
		return 0
	}
	streak := 0
	for active[day.Format(constants.DateFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// PointsOn sums completed points per date.
func PointsOn(tasks []models.DailyTask) map[string]int {
	points := make(map[string]int)
	for _, t := range tasks {
		if t.Completed {
			points[t.Date] += t.PointsEarned
		}
	}
	return points
}

// DayPoints is one entry of the comparison series.
type DayPoints struct {
	Date   string
	Label  string
	Self   int
	Friend int
}

// WeekSeries lines up both users' completed points over the trailing
// ComparisonDays days ending today, oldest first.
func WeekSeries(self, friend []models.DailyTask, today string) ([]DayPoints, error) {
	dates, err := utils.TrailingDates(today, constants.ComparisonDays)
	if err != nil {
		return nil, err
	}
	selfPoints := PointsOn(self)
	friendPoints := PointsOn(friend)

	series := make([]DayPoints, len(dates))
	for i, date := range dates {
		series[i] = DayPoints{
			Date:   date,
			Label:  utils.ShortWeekday(date),
			Self:   selfPoints[date],
			Friend: friendPoints[date],
		}
	}
	return series, nil
}

// Standing is one user's side of a comparison.
type Standing struct {
	User     models.User
	Lifetime int
	Streak   int
}

// Comparison pits the current user against a friend.
type Comparison struct {
	Self   Standing
	Friend Standing
	Series []DayPoints
	// Difference is Self.Lifetime - Friend.Lifetime.
	Difference int
}

// Compare aggregates both users' histories. It does not look at the
// friend's sharing flag; Service.Compare does.
func Compare(self, friend models.User, selfTasks, friendTasks []models.DailyTask, today string) (Comparison, error) {
	series, err := WeekSeries(selfTasks, friendTasks, today)
	if err != nil {
		return Comparison{}, err
	}
	c := Comparison{
		Self:   Standing{User: self, Lifetime: LifetimePoints(selfTasks), Streak: Streak(selfTasks, today)},
		Friend: Standing{User: friend, Lifetime: LifetimePoints(friendTasks), Streak: Streak(friendTasks, today)},
		Series: series,
	}
	c.Difference = c.Self.Lifetime - c.Friend.Lifetime
	return c, nil
}
