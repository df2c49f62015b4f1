package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/storage"
	"github.com/julianstephens/trackpro/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting an existing SQLite database before initialization."`
	Source string `help:"Storage location (SQLite file, .json document or PostgreSQL connection string) to import records from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized trackpro storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Importing data from: %s\n", c.Source)
		if err := c.importFrom(ctx); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Println("Import completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return errors.New("--force is only supported for SQLite storage")
	}
	dbPath := store.GetConfigPath()

	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSource, errSource := filepath.Abs(c.Source)
		if errDB == nil && errSource == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) importFrom(ctx *cli.Context) error {
	source, err := cli.OpenStore(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer source.Close()

	return Copy(source, ctx.Store)
}

// Copy moves every user with their categories, activities and task history
// from src to dst. Tasks are written a day at a time so every copied day
// gets a marker. The session is not copied.
func Copy(src, dst storage.Provider) error {
	users, err := src.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to read users: %w", err)
	}

	var categories, activities, tasks int
	for _, user := range users {
		if err := dst.AddUser(user); err != nil {
			return fmt.Errorf("failed to add user %s: %w", user.ID, err)
		}

		cats, err := src.GetCategories(user.ID)
		if err != nil {
			return fmt.Errorf("failed to read categories of %s: %w", user.ID, err)
		}
		for _, cat := range cats {
			if err := dst.AddCategory(cat); err != nil {
				return fmt.Errorf("failed to add category %s: %w", cat.ID, err)
			}
		}
		categories += len(cats)

		acts, err := src.GetActivities(user.ID)
		if err != nil {
			return fmt.Errorf("failed to read activities of %s: %w", user.ID, err)
		}
		for _, act := range acts {
			if err := dst.AddActivity(act); err != nil {
				return fmt.Errorf("failed to add activity %s: %w", act.ID, err)
			}
		}
		activities += len(acts)

		history, err := src.GetAllDailyTasks(user.ID)
		if err != nil {
			return fmt.Errorf("failed to read tasks of %s: %w", user.ID, err)
		}
		var dates []string
		byDate := make(map[string][]models.DailyTask)
		for _, t := range history {
			if _, ok := byDate[t.Date]; !ok {
				dates = append(dates, t.Date)
			}
			byDate[t.Date] = append(byDate[t.Date], t)
		}
		for _, date := range dates {
			if err := dst.SaveDay(user.ID, date, byDate[date]); err != nil {
				return fmt.Errorf("failed to save day %s of %s: %w", date, user.ID, err)
			}
		}
		tasks += len(history)
	}

	fmt.Printf("  Imported %d users, %d categories, %d activities, %d tasks\n", len(users), categories, activities, tasks)
	return nil
}
