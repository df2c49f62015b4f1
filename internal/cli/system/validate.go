package system

import (
	"fmt"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/validation"
)

type ValidateCmd struct {
	All bool `help:"Validate every account instead of the signed-in one."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	var users []models.User
	if c.All {
		all, err := ctx.Store.GetAllUsers()
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
		users = all
	} else {
		sess, err := ctx.RequireSession()
		if err != nil {
			return err
		}
		users = []models.User{sess.User}
	}

	validator := validation.New()
	failed := false
	for _, user := range users {
		cats, err := ctx.Catalog().Categories(user.ID)
		if err != nil {
			return err
		}
		acts, err := ctx.Store.GetActivities(user.ID)
		if err != nil {
			return fmt.Errorf("failed to load activities: %w", err)
		}
		tasks, err := ctx.Store.GetAllDailyTasks(user.ID)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}

		result := validator.ValidateTemplate(cats, acts)
		history := validator.ValidateHistory(tasks, acts)
		result.Conflicts = append(result.Conflicts, history.Conflicts...)

		if len(users) > 1 {
			fmt.Println(cli.TitleStyle.Render(user.Username))
		}
		fmt.Println(result.FormatReport())
		if result.HasErrors() {
			failed = true
		}
	}

	if failed {
		return fmt.Errorf("validation found errors")
	}
	return nil
}
