package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/cli/accounts"
	"github.com/julianstephens/trackpro/internal/cli/backups"
	"github.com/julianstephens/trackpro/internal/cli/days"
	"github.com/julianstephens/trackpro/internal/cli/friends"
	"github.com/julianstephens/trackpro/internal/cli/reports"
	"github.com/julianstephens/trackpro/internal/cli/system"
	"github.com/julianstephens/trackpro/internal/cli/templates"
	"github.com/julianstephens/trackpro/internal/config"
	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/errors"
	"github.com/julianstephens/trackpro/internal/logger"
	"github.com/julianstephens/trackpro/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	DB      string `name:"db" help:"Storage location: a SQLite file, a .json file, a PostgreSQL connection string without credentials, or 'keyring'. Overrides the config file."`
	Debug   bool   `help:"Enable debug logging."`

	Init     system.InitCmd     `cmd:"" help:"Initialize trackpro storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check the activity template and task history for problems."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Register accounts.RegisterCmd `cmd:"" help:"Create an account and sign in."`
	Login    accounts.LoginCmd    `cmd:"" help:"Sign in."`
	Logout   accounts.LogoutCmd   `cmd:"" help:"Sign out."`
	Whoami   accounts.WhoamiCmd   `cmd:"" help:"Show the signed-in user."`

	Category struct {
		Add  templates.CategoryAddCmd  `cmd:"" help:"Add a custom category."`
		List templates.CategoryListCmd `cmd:"" help:"List categories." default:"1"`
	} `cmd:"" help:"Manage categories."`
	Activity struct {
		Add    templates.ActivityAddCmd    `cmd:"" help:"Add an activity to the daily template."`
		List   templates.ActivityListCmd   `cmd:"" help:"List the daily template." default:"1"`
		Edit   templates.ActivityEditCmd   `cmd:"" help:"Edit an activity."`
		Delete templates.ActivityDeleteCmd `cmd:"" help:"Delete an activity."`
	} `cmd:"" help:"Manage the activity template."`

	Day  days.DayCmd `cmd:"" help:"Show the tasks of a day."`
	Task struct {
		Toggle days.TaskToggleCmd `cmd:"" help:"Mark a task done or not done."`
		Points days.TaskPointsCmd `cmd:"" help:"Change the points of one task."`
		Remove days.TaskRemoveCmd `cmd:"" help:"Remove a task from a day."`
		Add    days.TaskAddCmd    `cmd:"" help:"Add an extra task for an activity."`
	} `cmd:"" help:"Change a day's tasks."`
	Insights days.InsightsCmd `cmd:"" help:"Ask for AI insights about a day."`

	Friend struct {
		Add    friends.FriendAddCmd    `cmd:"" help:"Add a friend by share id."`
		Remove friends.FriendRemoveCmd `cmd:"" help:"Remove a friend."`
		List   friends.FriendListCmd   `cmd:"" help:"List friends." default:"1"`
	} `cmd:"" help:"Manage friends."`
	Share struct {
		On  friends.ShareOnCmd  `cmd:"" help:"Let friends compare progress with you."`
		Off friends.ShareOffCmd `cmd:"" help:"Stop sharing progress."`
	} `cmd:"" help:"Control progress sharing."`
	Compare friends.CompareCmd `cmd:"" help:"Compare the last week with a friend."`

	Stats reports.StatsCmd `cmd:"" help:"Show monthly statistics."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret (connection or gemini)."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret, masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a stored secret."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily activity tracker with points, streaks and friends"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"config_path":    config.DefaultPath(),
			"default_points": strconv.Itoa(constants.DefaultActivityPoints),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.DB != "" {
		cfg.Storage.Location = CLI.DB
	}
	if CLI.Debug {
		cfg.Logging.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Logging.Debug, LogDir: cfg.LogDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	// Keyring commands must work before any store exists; init creates it.
	keyringCmd := isKeyringCommand(ctx)
	store, err := cli.OpenStore(cfg.Storage.Location)
	if err != nil {
		if !keyringCmd {
			errors.Fatal(err)
		}
		store = storage.NewMemoryStore()
	}

	selected := ""
	if ctx.Selected() != nil {
		selected = ctx.Selected().Name
	}
	if selected != "init" && !keyringCmd {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := cli.NewContext(store, cfg)
	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
}

func isKeyringCommand(ctx *kong.Context) bool {
	for _, p := range ctx.Path {
		if p.Command != nil && p.Command.Name == "keyring" {
			return true
		}
	}
	return false
}
