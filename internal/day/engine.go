package day

import (
	"fmt"
	"slices"

	"github.com/julianstephens/trackpro/internal/logger"
	"github.com/julianstephens/trackpro/internal/models"
)

// Engine applies mutations to a resolved Day. Every operation writes the
// store first and updates the Day only once the write succeeded. An id that
// is not in the Day is ignored.
type Engine struct {
	store Store
	ids   IDGenerator
}

func NewEngine(store Store, ids IDGenerator) *Engine {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Engine{store: store, ids: ids}
}

// Toggle is the outcome of ToggleCompletion.
type Toggle struct {
	Task  models.DailyTask
	Found bool
	// BecameCompleted is true only for an incomplete -> complete transition.
	BecameCompleted bool
}

func (e *Engine) ToggleCompletion(d *Day, taskID string) (Toggle, error) {
	i := d.index(taskID)
	if i < 0 {
		return Toggle{}, nil
	}

	task := d.Tasks[i]
	task.Completed = !task.Completed
	if err := e.replace(d, i, task); err != nil {
		return Toggle{}, err
	}
	return Toggle{Task: task, Found: true, BecameCompleted: task.Completed}, nil
}

// UpdatePoints overwrites the points of one task. The activity template is
// left alone.
func (e *Engine) UpdatePoints(d *Day, taskID string, points int) (bool, error) {
	i := d.index(taskID)
	if i < 0 {
		return false, nil
	}

	task := d.Tasks[i]
	task.PointsEarned = points
	if err := e.replace(d, i, task); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) replace(d *Day, i int, task models.DailyTask) error {
	if d.Virtual {
		next := slices.Clone(d.Tasks)
		next[i] = task
		return e.promote(d, next)
	}

	if err := e.store.UpdateDailyTask(task); err != nil {
		return fmt.Errorf("failed to update task %s: %w", task.ID, err)
	}
	d.Tasks[i] = task
	return nil
}

// RemoveTask drops a task. On a virtual day the filtered list is what gets
// promoted, so the removed task is never written.
func (e *Engine) RemoveTask(d *Day, taskID string) (bool, error) {
	i := d.index(taskID)
	if i < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(d.Tasks), i, i+1)
	if d.Virtual {
		if err := e.promote(d, next); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := e.store.DeleteDailyTask(taskID); err != nil {
		return false, fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	d.Tasks = next
	return true, nil
}

// AddOverrideTask appends a fresh task for activity, even when the day
// already has one for it.
func (e *Engine) AddOverrideTask(d *Day, activity models.Activity) (models.DailyTask, error) {
	task := models.DailyTask{
		ID:           e.ids.NewID(),
		ActivityID:   activity.ID,
		UserID:       d.UserID,
		Date:         d.Date,
		Completed:    false,
		PointsEarned: activity.Points,
	}

	if d.Virtual {
		next := append(slices.Clone(d.Tasks), task)
		if err := e.promote(d, next); err != nil {
			return models.DailyTask{}, err
		}
		return task, nil
	}

	if err := e.store.AddDailyTask(task); err != nil {
		return models.DailyTask{}, fmt.Errorf("failed to add task: %w", err)
	}
	d.Tasks = append(d.Tasks, task)
	return task, nil
}

// promote writes the whole list plus the day marker and flips the day to
// persisted.
func (e *Engine) promote(d *Day, tasks []models.DailyTask) error {
	if err := e.store.SaveDay(d.UserID, d.Date, tasks); err != nil {
		return fmt.Errorf("failed to persist day %s: %w", d.Date, err)
	}
	logger.Debug("Day promoted", "user", d.UserID, "date", d.Date, "tasks", len(tasks))
	d.Tasks = tasks
	d.Virtual = false
	return nil
}
