package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/trackpro/internal/backup"
	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/keyring"
	"github.com/julianstephens/trackpro/internal/storage/sqlite"
	"github.com/julianstephens/trackpro/internal/utils"
	"github.com/julianstephens/trackpro/internal/validation"
)

// errSkipped marks a check that does not apply to the current setup.
var errSkipped = errors.New("not applicable")

type doctorCheck struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks never fail the run
	warnOnly bool
	needsDB  bool
}

var doctorChecks = []doctorCheck{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Data validation", run: checkValidation, needsDB: true},
	{name: "Day markers", run: checkDayMarkers, warnOnly: true, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Keyring", run: checkKeyring, warnOnly: true},
	{name: "Insights", run: checkInsights, warnOnly: true},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, check := range doctorChecks {
		if check.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", check.name)
			continue
		}

		err := check.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", check.name)
		case errors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED (%v)\n", check.name, err)
		case check.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", check.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", check.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if store, ok := ctx.Store.(*sqlite.Store); ok {
		db := store.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("%w: no schema", errSkipped)
	}
	return m.Runner().ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("%w: no schema", errSkipped)
	}
	current, latest, err := m.Runner().Status()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("database is at version %d, latest is %d (run 'trackpro migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return fmt.Errorf("%w: backups need SQLite storage", errSkipped)
	}
	mgr := backup.NewManager(store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s (run 'trackpro backup create')", mgr.Dir())
	}
	return nil
}

// checkValidation runs the template and history checks for every user.
// Info findings such as duplicate tasks are allowed.
func checkValidation(ctx *cli.Context) error {
	users, err := ctx.Store.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	validator := validation.New()
	var problems int
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

		template := validator.ValidateTemplate(cats, acts)
		history := validator.ValidateHistory(tasks, acts)
		for _, r := range []validation.Result{template, history} {
			for _, c := range r.Conflicts {
				if c.Severity == validation.SeverityError {
					problems++
				}
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("found %d problem(s), run 'trackpro validate' for details", problems)
	}
	return nil
}

func checkDayMarkers(ctx *cli.Context) error {
	n, err := ctx.Store.UnmarkedDays()
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%d day(s) have tasks but no day marker and will reset to the template if emptied", n)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available, secrets must come from the environment")
	}
	return nil
}

func checkInsights(ctx *cli.Context) error {
	if !ctx.Config.Insights.Enabled {
		return fmt.Errorf("%w: insights disabled", errSkipped)
	}
	if ctx.Config.Insights.APIKey != "" {
		return nil
	}
	if _, err := keyring.Get(keyring.GeminiAPIKey); err != nil {
		return errors.New("no Gemini API key in GEMINI_API_KEY or the keyring, insights will be unavailable")
	}
	return nil
}
