package days

import (
	"fmt"

	"github.com/julianstephens/trackpro/internal/cli"
)

type DayCmd struct {
	Date string `short:"d" help:"Date to show (YYYY-MM-DD, default today)."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	v, err := loadDay(ctx, c.Date)
	if err != nil {
		return err
	}
	fmt.Print(v.render())
	return nil
}
