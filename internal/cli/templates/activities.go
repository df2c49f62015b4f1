package templates

import (
	"fmt"

	"github.com/julianstephens/trackpro/internal/catalog"
	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/models"
)

type ActivityAddCmd struct {
	Name     string `arg:"" help:"Activity name."`
	Category string `short:"c" required:"" help:"Category id or name."`
	Points   int    `short:"p" default:"${default_points}" help:"Points earned per completion."`
}

func (c *ActivityAddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	act, err := ctx.Catalog().AddActivity(sess.UserID(), c.Category, c.Name, c.Points)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added activity %s (%d pts)\n", act.Name, act.Points)
	fmt.Println("  It appears on every day that has not been changed yet.")
	return nil
}

type ActivityListCmd struct{}

func (c *ActivityListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	cat := ctx.Catalog()
	cats, err := cat.Categories(sess.UserID())
	if err != nil {
		return err
	}
	acts, err := cat.Activities(sess.UserID())
	if err != nil {
		return err
	}

	if len(acts) == 0 {
		fmt.Println("No activities yet. Add one with 'trackpro activity add <name> --category <category>'.")
		return nil
	}

	byCategory := make(map[string][]models.Activity)
	for _, a := range acts {
		byCategory[a.CategoryID] = append(byCategory[a.CategoryID], a)
	}

	for _, category := range cats {
		list := byCategory[category.ID]
		if len(list) == 0 {
			continue
		}
		fmt.Println(cli.Swatch(category.Color, "● "+category.Name))
		for _, a := range list {
			fmt.Printf("  %-28s %4d pts  %s\n", a.Name, a.Points, cli.MutedStyle.Render(a.ID))
		}
		delete(byCategory, category.ID)
	}

	// Activities whose category no longer resolves
	for _, a := range acts {
		if _, ok := byCategory[a.CategoryID]; ok {
			fmt.Printf("  %-28s %4d pts  %s %s\n", a.Name, a.Points, cli.MutedStyle.Render(a.ID), cli.WarningStyle.Render("(unknown category)"))
		}
	}
	return nil
}

type ActivityEditCmd struct {
	Activity string  `arg:"" help:"Activity id or name."`
	Name     *string `help:"New name."`
	Category *string `short:"c" help:"New category id or name."`
	Points   *int    `short:"p" help:"New points. Existing tasks keep their points."`
}

func (c *ActivityEditCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}
	if c.Name == nil && c.Category == nil && c.Points == nil {
		return fmt.Errorf("nothing to change, pass --name, --category or --points")
	}

	cat := ctx.Catalog()
	act, err := cat.FindActivity(sess.UserID(), c.Activity)
	if err != nil {
		return err
	}

	updated, err := cat.UpdateActivity(sess.UserID(), act.ID, catalog.ActivityEdit{
		Name:     c.Name,
		Category: c.Category,
		Points:   c.Points,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Updated activity %s (%d pts)\n", updated.Name, updated.Points)
	return nil
}

type ActivityDeleteCmd struct {
	Activity string `arg:"" help:"Activity id or name."`
}

func (c *ActivityDeleteCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	cat := ctx.Catalog()
	act, err := cat.FindActivity(sess.UserID(), c.Activity)
	if err != nil {
		return err
	}
	if err := cat.DeleteActivity(sess.UserID(), act.ID); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted activity %s\n", act.Name)
	fmt.Println("  Past tasks keep their history.")
	return nil
}
