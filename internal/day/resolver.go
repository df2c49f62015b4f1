package day

import (
	"fmt"

	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/utils"
)

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the persisted tasks of (userID, date) when the day has
// any rows or a day marker. Otherwise it synthesizes one incomplete task per
// template activity, worth the activity's current points.
func (r *Resolver) Resolve(userID, date string) (*Day, error) {
	if !utils.ValidateDate(date) {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}

	tasks, err := r.store.GetDailyTasks(userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for %s: %w", date, err)
	}
	if len(tasks) > 0 {
		return &Day{UserID: userID, Date: date, Tasks: tasks}, nil
	}

	persisted, err := r.store.IsDayPersisted(userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check day %s: %w", date, err)
	}
	if persisted {
		return &Day{UserID: userID, Date: date, Tasks: []models.DailyTask{}}, nil
	}

	activities, err := r.store.GetActivities(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	tasks = make([]models.DailyTask, 0, len(activities))
	for _, a := range activities {
		tasks = append(tasks, models.DailyTask{
			ID:           VirtualTaskID(date, a.ID),
			ActivityID:   a.ID,
			UserID:       userID,
			Date:         date,
			Completed:    false,
			PointsEarned: a.Points,
		})
	}
	return &Day{UserID: userID, Date: date, Tasks: tasks, Virtual: true}, nil
}
