// Package day materializes a user's task list for a date and applies
// mutations to it. A day is virtual until its first mutation; at that point
// the whole in-memory list is written to the store and the day stays
// persisted for good.
package day

import (
	"github.com/julianstephens/trackpro/internal/models"
)

// Store is the subset of the record store the day engine needs.
// storage.Provider satisfies it.
type Store interface {
	GetActivities(userID string) ([]models.Activity, error)
	GetDailyTasks(userID, date string) ([]models.DailyTask, error)
	IsDayPersisted(userID, date string) (bool, error)
	SaveDay(userID, date string, tasks []models.DailyTask) error
	AddDailyTask(models.DailyTask) error
	UpdateDailyTask(models.DailyTask) error
	DeleteDailyTask(id string) error
}

// Day is the resolved task list of one user on one date.
type Day struct {
	UserID  string
	Date    string
	Tasks   []models.DailyTask
	Virtual bool
}

// Task returns the task with the given id.
func (d *Day) Task(id string) (models.DailyTask, bool) {
	if i := d.index(id); i >= 0 {
		return d.Tasks[i], true
	}
	return models.DailyTask{}, false
}

func (d *Day) index(id string) int {
	for i, t := range d.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// HasActivity reports whether any task of the day is bound to activityID.
// Adding the same activity twice is allowed; callers use this to flag it.
func (d *Day) HasActivity(activityID string) bool {
	for _, t := range d.Tasks {
		if t.ActivityID == activityID {
			return true
		}
	}
	return false
}
