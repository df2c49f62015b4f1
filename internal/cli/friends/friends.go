package friends

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/social"
)

type FriendAddCmd struct {
	Code string `arg:"" help:"Friend's share code."`
}

func (c *FriendAddCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	friend, err := ctx.Social().AddFriend(sess, c.Code)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added %s (%s)\n", friend.Username, friend.ShareID)
	return nil
}

type FriendRemoveCmd struct {
	Code string `arg:"" help:"Friend's share code."`
}

func (c *FriendRemoveCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}
	if err := ctx.Social().RemoveFriend(sess, c.Code); err != nil {
		return err
	}
	fmt.Printf("✓ %s is no longer in your friend list\n", strings.ToUpper(strings.TrimSpace(c.Code)))
	return nil
}

type FriendListCmd struct{}

func (c *FriendListCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	friends, err := ctx.Social().Friends(sess)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		fmt.Printf("No friends yet. Share your code %s or add theirs with 'trackpro friend add <code>'.\n", sess.User.ShareID)
		return nil
	}

	for _, f := range friends {
		switch {
		case !f.Found:
			fmt.Printf("  %s  %s\n", f.ShareID, cli.WarningStyle.Render("(account no longer exists)"))
		case !f.User.IsSharingEnabled:
			fmt.Printf("  %s  %-20s %s\n", f.ShareID, f.User.Username, cli.MutedStyle.Render("sharing off"))
		default:
			fmt.Printf("  %s  %-20s %s\n", f.ShareID, f.User.Username, cli.DoneStyle.Render("sharing"))
		}
	}
	return nil
}

type ShareOnCmd struct{}

func (c *ShareOnCmd) Run(ctx *cli.Context) error {
	return setSharing(ctx, true)
}

type ShareOffCmd struct{}

func (c *ShareOffCmd) Run(ctx *cli.Context) error {
	return setSharing(ctx, false)
}

func setSharing(ctx *cli.Context, enabled bool) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}
	if err := ctx.Social().SetSharing(sess, enabled); err != nil {
		return err
	}
	if enabled {
		fmt.Println("✓ Friends can now compare their progress with yours")
	} else {
		fmt.Println("✓ Sharing turned off")
	}
	return nil
}

type CompareCmd struct {
	Code string `arg:"" help:"Friend's share code."`
}

func (c *CompareCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	comparison, err := ctx.Social().Compare(sess, c.Code, ctx.Today())
	if err != nil {
		return err
	}
	fmt.Print(renderComparison(comparison))
	return nil
}

var (
	selfBar   = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Palette[0]))
	friendBar = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Palette[4]))
)

const barWidth = 20

func renderComparison(c social.Comparison) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s vs %s\n\n",
		selfBar.Bold(true).Render(c.Self.User.Username),
		friendBar.Bold(true).Render(c.Friend.User.Username))

	table := lipgloss.JoinHorizontal(lipgloss.Top,
		standing("You", c.Self),
		"    ",
		standing(c.Friend.User.Username, c.Friend),
	)
	b.WriteString(table + "\n\n")

	switch {
	case c.Difference > 0:
		fmt.Fprintf(&b, "You are %d pts ahead.\n\n", c.Difference)
	case c.Difference < 0:
		fmt.Fprintf(&b, "You are %d pts behind.\n\n", -c.Difference)
	default:
		b.WriteString("You are tied.\n\n")
	}

	peak := 1
	for _, d := range c.Series {
		peak = max(peak, d.Self, d.Friend)
	}
	b.WriteString(cli.TitleStyle.Render(fmt.Sprintf("Last %d days", constants.ComparisonDays)) + "\n")
	for _, d := range c.Series {
		fmt.Fprintf(&b, "%s %s %3d\n    %s %3d\n",
			d.Label,
			selfBar.Render(bar(d.Self, peak)), d.Self,
			friendBar.Render(bar(d.Friend, peak)), d.Friend)
	}
	return b.String()
}

func standing(title string, s social.Standing) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\nLifetime: %d pts\nStreak:   %d days", title, s.Lifetime, s.Streak))
}

func bar(points, peak int) string {
	n := points * barWidth / peak
	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}
