// Package stats builds the monthly performance report.
package stats

import (
	"fmt"
	"time"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/day"
	"github.com/julianstephens/trackpro/internal/models"
)

// Day is one calendar day of the month.
type Day struct {
	Date        string
	Day         int
	Weekday     time.Weekday
	Points      int
	Completions int
	TotalTasks  int
	// Active means at least one task was completed.
	Active bool
}

// Week groups consecutive days; a week closes on Sunday or on the last day
// of the month.
type Week struct {
	Number      int
	Points      int
	Completions int
	ActiveDays  int
	Days        []Day
}

type Month struct {
	Month      string
	Days       []Day
	Weeks      []Week
	Total      int
	ActiveDays int
	// Average is Total over the days in the month, rounded half up.
	Average int
	// Best is the first day with the most points, Worst the last day with
	// the fewest.
	Best  Day
	Worst Day
}

// BuildMonth computes the report for month (YYYY-MM) from a user's tasks.
func BuildMonth(month string, tasks []models.DailyTask) (Month, error) {
	first, err := time.Parse(constants.MonthFormat, month)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
	}

	byDate := make(map[string][]models.DailyTask)
	for _, t := range tasks {
		byDate[t.Date] = append(byDate[t.Date], t)
	}

	m := Month{Month: month}
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		date := d.Format(constants.DateFormat)
		sum := day.Summarize(byDate[date])
		m.Days = append(m.Days, Day{
			Date:        date,
			Day:         d.Day(),
			Weekday:     d.Weekday(),
			Points:      sum.Earned,
			Completions: sum.Completed,
			TotalTasks:  sum.Total,
			Active:      sum.Completed > 0,
		})
	}

	week := Week{Number: 1}
	for i, d := range m.Days {
		week.Points += d.Points
		week.Completions += d.Completions
		if d.Active {
			week.ActiveDays++
		}
		week.Days = append(week.Days, d)

		if d.Weekday == time.Sunday || i == len(m.Days)-1 {
			m.Weeks = append(m.Weeks, week)
			week = Week{Number: len(m.Weeks) + 1}
		}
	}

	m.Best, m.Worst = m.Days[0], m.Days[0]
	for _, d := range m.Days {
		m.Total += d.Points
		if d.Active {
			m.ActiveDays++
		}
		if d.Points > m.Best.Points {
			m.Best = d
		}
		if d.Points <= m.Worst.Points {
			m.Worst = d
		}
	}
	m.Average = day.RoundHalfUp(float64(m.Total) / float64(len(m.Days)))
	return m, nil
}

// ShiftMonth moves a YYYY-MM month by n months.
func ShiftMonth(month string, n int) (string, error) {
	t, err := time.Parse(constants.MonthFormat, month)
	if err != nil {
		return "", fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
	}
	return t.AddDate(0, n, 0).Format(constants.MonthFormat), nil
}
