package templates

import (
	"fmt"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/constants"
)

type CategoryAddCmd struct {
	Name  string `arg:"" help:"Category name."`
	Color string `short:"c" help:"Hex color like #10b981 (defaults to the first palette color)."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	cat, err := ctx.Catalog().AddCategory(sess.UserID(), c.Name, c.Color)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added category %s %s\n", cli.Swatch(cat.Color, "●"), cat.Name)
	return nil
}

type CategoryListCmd struct {
	Palette bool `help:"Also show the colors offered for new categories."`
}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	cats, err := ctx.Catalog().Categories(sess.UserID())
	if err != nil {
		return err
	}

	for _, cat := range cats {
		owner := ""
		if cat.UserID == constants.DefaultOwner {
			owner = cli.MutedStyle.Render(" (built-in)")
		}
		fmt.Printf("%s %-20s %s  %s%s\n", cli.Swatch(cat.Color, "●"), cat.Name, cat.Color, cli.MutedStyle.Render(cat.ID), owner)
	}

	if c.Palette {
		fmt.Println()
		for _, color := range constants.Palette {
			fmt.Printf("%s %s\n", cli.Swatch(color, "■"), color)
		}
	}
	return nil
}
