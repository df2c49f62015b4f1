package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/trackpro/internal/auth"
	"github.com/julianstephens/trackpro/internal/backup"
	"github.com/julianstephens/trackpro/internal/catalog"
	"github.com/julianstephens/trackpro/internal/config"
	"github.com/julianstephens/trackpro/internal/day"
	"github.com/julianstephens/trackpro/internal/insights"
	"github.com/julianstephens/trackpro/internal/keyring"
	"github.com/julianstephens/trackpro/internal/logger"
	"github.com/julianstephens/trackpro/internal/session"
	"github.com/julianstephens/trackpro/internal/social"
	"github.com/julianstephens/trackpro/internal/storage"
	"github.com/julianstephens/trackpro/internal/storage/postgres"
	"github.com/julianstephens/trackpro/internal/storage/sqlite"
	"github.com/julianstephens/trackpro/internal/utils"
)

type Context struct {
	Store    storage.Provider
	Config   *config.Config
	Sessions *session.Manager
	Now      func() time.Time
}

func NewContext(store storage.Provider, cfg *config.Config) *Context {
	return &Context{
		Store:    store,
		Config:   cfg,
		Sessions: session.NewManager(store),
		Now:      time.Now,
	}
}

// OpenStore picks a backend from a storage location: a PostgreSQL
// connection string, a .json document, or a SQLite file. An empty location
// or "keyring" reads the connection string from the OS keyring.
func OpenStore(location string) (storage.Provider, error) {
	if location == "" || location == "keyring" {
		connStr, err := keyring.Get(keyring.ConnectionString)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("no storage location configured and no connection string in keyring, use 'trackpro keyring set connection <dsn>'")
			}
			return nil, err
		}
		location = connStr
	}

	switch {
	case postgres.IsConnString(location) || strings.Contains(location, "host="):
		if err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the connection string with 'trackpro keyring set connection' or use .pgpass", err)
			}
			return nil, err
		}
		return postgres.New(location), nil
	case strings.HasSuffix(strings.ToLower(location), ".json"):
		return storage.NewJSONStore(utils.ExpandPath(location)), nil
	default:
		return sqlite.NewStore(utils.ExpandPath(location)), nil
	}
}

// Today is the current date in the configured timezone.
func (c *Context) Today() string {
	return utils.Today(c.Now(), c.Config.Location())
}

// ResolveDate returns date, or today when date is empty.
func (c *Context) ResolveDate(date string) (string, error) {
	if date == "" {
		return c.Today(), nil
	}
	if _, err := utils.ParseDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// RequireSession returns the signed-in user or session.ErrNoSession.
func (c *Context) RequireSession() (*session.Context, error) {
	return c.Sessions.Current()
}

func (c *Context) Auth() *auth.Service {
	return auth.NewService(c.Store, auth.WithClock(c.Now))
}

func (c *Context) Catalog() *catalog.Catalog {
	return catalog.New(c.Store)
}

func (c *Context) Resolver() *day.Resolver {
	return day.NewResolver(c.Store)
}

func (c *Context) Engine() *day.Engine {
	return day.NewEngine(c.Store, day.UUIDGenerator{})
}

func (c *Context) Social() *social.Service {
	return social.NewService(c.Store, c.Sessions)
}

// InsightGenerator returns the configured insight service, or insights.Nop
// when insights are disabled or no API key is available.
func (c *Context) InsightGenerator(ctx context.Context) insights.Generator {
	if !c.Config.Insights.Enabled {
		return insights.Nop{}
	}

	apiKey := c.Config.Insights.APIKey
	if apiKey == "" {
		key, err := keyring.Get(keyring.GeminiAPIKey)
		if err != nil {
			if !errors.Is(err, keyring.ErrNotFound) {
				logger.Warn("Failed to read Gemini API key from keyring", "error", err)
			}
			return insights.Nop{}
		}
		apiKey = key
	}

	gen, err := insights.NewGemini(ctx, apiKey, c.Config.Insights.Model, c.Config.InsightTimeout())
	if err != nil {
		logger.Warn("Failed to create insight client", "error", err)
		return insights.Nop{}
	}
	return gen
}

// PerformAutomaticBackup snapshots a SQLite store and silently handles errors.
func (c *Context) PerformAutomaticBackup() {
	store, ok := c.Store.(*sqlite.Store)
	if !ok {
		return
	}
	mgr := backup.NewManager(store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
