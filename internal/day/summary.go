package day

import (
	"math"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/models"
)

// Summary totals a day's tasks.
type Summary struct {
	Earned    int
	Possible  int
	Completed int
	Total     int
	// Percent is Earned/Possible rounded half up, 0 when nothing is possible.
	Percent int
}

func Summarize(tasks []models.DailyTask) Summary {
	var s Summary
	s.Total = len(tasks)
	for _, t := range tasks {
		s.Possible += t.PointsEarned
		if t.Completed {
			s.Earned += t.PointsEarned
			s.Completed++
		}
	}
	if s.Possible > 0 {
		s.Percent = RoundHalfUp(float64(s.Earned) * 100 / float64(s.Possible))
	}
	return s
}

// RoundHalfUp rounds x to the nearest integer, ties toward +Inf.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Group is the tasks of one category, in day order.
type Group struct {
	CategoryID string
	Tasks      []models.DailyTask
}

// GroupByCategory buckets tasks by the category of their activity. Tasks
// whose activity is gone land in constants.UncategorizedID. Groups appear
// in order of their first task.
func GroupByCategory(tasks []models.DailyTask, activities []models.Activity) []Group {
	categoryOf := make(map[string]string, len(activities))
	for _, a := range activities {
		categoryOf[a.ID] = a.CategoryID
	}

	var groups []Group
	index := map[string]int{}
	for _, t := range tasks {
		cat := categoryOf[t.ActivityID]
		if cat == "" {
			cat = constants.UncategorizedID
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, Group{CategoryID: cat})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}
