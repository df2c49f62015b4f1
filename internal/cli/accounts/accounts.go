package accounts

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/constants"
)

type RegisterCmd struct {
	Username string `arg:"" help:"Display name."`
	Email    string `arg:"" help:"Email address used to log in."`
	Password string `help:"Password (prompted when omitted)." env:"TRACKPRO_PASSWORD"`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	password, err := passwordOrPrompt(c.Password, "Choose a password", true)
	if err != nil {
		return err
	}

	user, err := ctx.Auth().Register(c.Username, c.Email, password)
	if err != nil {
		return err
	}
	if _, err := ctx.Sessions.Start(user); err != nil {
		return err
	}

	fmt.Printf("✓ Welcome, %s!\n", user.Username)
	fmt.Printf("  Your share code is %s. Give it to friends so they can add you.\n", cli.TitleStyle.Render(user.ShareID))
	return nil
}

type LoginCmd struct {
	Email    string `arg:"" help:"Email address."`
	Password string `help:"Password (prompted when omitted)." env:"TRACKPRO_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	password, err := passwordOrPrompt(c.Password, "Password", false)
	if err != nil {
		return err
	}

	user, err := ctx.Auth().Login(c.Email, password)
	if err != nil {
		return err
	}
	if _, err := ctx.Sessions.Start(user); err != nil {
		return err
	}

	fmt.Printf("✓ Logged in as %s\n", user.Username)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Sessions.End(); err != nil {
		return err
	}
	fmt.Println("✓ Logged out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}
	user := sess.User

	sharing := "on"
	if !user.IsSharingEnabled {
		sharing = "off"
	}

	fmt.Println(cli.TitleStyle.Render(user.Username))
	fmt.Printf("  Email:      %s\n", user.Email)
	fmt.Printf("  Share code: %s\n", user.ShareID)
	fmt.Printf("  Joined:     %s\n", user.JoinedAt.In(ctx.Config.Location()).Format(constants.DateFormat))
	fmt.Printf("  Sharing:    %s\n", sharing)
	fmt.Printf("  Friends:    %d\n", len(user.Friends))
	return nil
}

func passwordOrPrompt(password, title string, confirm bool) (string, error) {
	if password != "" {
		return password, nil
	}

	var first, second string
	fields := []huh.Field{
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Value(&first),
	}
	if confirm {
		fields = append(fields, huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&second).
			Validate(func(s string) error {
				if s != first {
					return fmt.Errorf("passwords do not match")
				}
				return nil
			}))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return "", fmt.Errorf("password prompt failed: %w", err)
	}
	return first, nil
}
