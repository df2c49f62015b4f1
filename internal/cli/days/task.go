package days

import (
	"fmt"

	"github.com/julianstephens/trackpro/internal/catalog"
	"github.com/julianstephens/trackpro/internal/cli"
)

const noMatch = "No task matches %q; nothing changed.\n"

type TaskToggleCmd struct {
	Task string `arg:"" help:"Task number, task id or activity name."`
	Date string `short:"d" help:"Date of the task (YYYY-MM-DD, default today)."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	v, err := loadDay(ctx, c.Date)
	if err != nil {
		return err
	}
	id, err := v.resolveTask(c.Task)
	if err != nil {
		return err
	}

	res, err := ctx.Engine().ToggleCompletion(v.Day, id)
	if err != nil {
		return err
	}
	if !res.Found {
		fmt.Printf(noMatch, c.Task)
		return nil
	}

	name := v.activityName(res.Task.ActivityID)
	if res.BecameCompleted {
		fmt.Printf("✓ Completed %s (+%d pts)\n", name, res.Task.PointsEarned)
	} else {
		fmt.Printf("○ Reopened %s\n", name)
	}
	return nil
}

type TaskPointsCmd struct {
	Task   string `arg:"" help:"Task number, task id or activity name."`
	Points int    `arg:"" help:"Points for this task only."`
	Date   string `short:"d" help:"Date of the task (YYYY-MM-DD, default today)."`
}

func (c *TaskPointsCmd) Run(ctx *cli.Context) error {
	if c.Points < 0 {
		return catalog.ErrNegativePoints
	}

	v, err := loadDay(ctx, c.Date)
	if err != nil {
		return err
	}
	id, err := v.resolveTask(c.Task)
	if err != nil {
		return err
	}

	found, err := ctx.Engine().UpdatePoints(v.Day, id, c.Points)
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf(noMatch, c.Task)
		return nil
	}

	task, _ := v.Day.Task(id)
	fmt.Printf("✓ %s is now worth %d pts on %s\n", v.activityName(task.ActivityID), c.Points, v.Day.Date)
	return nil
}

type TaskRemoveCmd struct {
	Task string `arg:"" help:"Task number, task id or activity name."`
	Date string `short:"d" help:"Date of the task (YYYY-MM-DD, default today)."`
}

func (c *TaskRemoveCmd) Run(ctx *cli.Context) error {
	v, err := loadDay(ctx, c.Date)
	if err != nil {
		return err
	}
	id, err := v.resolveTask(c.Task)
	if err != nil {
		return err
	}

	task, _ := v.Day.Task(id)
	removed, err := ctx.Engine().RemoveTask(v.Day, id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf(noMatch, c.Task)
		return nil
	}

	fmt.Printf("✓ Removed %s from %s\n", v.activityName(task.ActivityID), v.Day.Date)
	return nil
}

type TaskAddCmd struct {
	Activity string `arg:"" help:"Activity id or name."`
	Date     string `short:"d" help:"Date to add the task to (YYYY-MM-DD, default today)."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	v, err := loadDay(ctx, c.Date)
	if err != nil {
		return err
	}

	act, err := ctx.Catalog().FindActivity(v.Day.UserID, c.Activity)
	if err != nil {
		return err
	}

	task, err := ctx.Engine().AddOverrideTask(v.Day, act)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added %s (%d pts) to %s\n", act.Name, task.PointsEarned, v.Day.Date)
	return nil
}
