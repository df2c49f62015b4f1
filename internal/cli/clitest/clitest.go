// Package clitest builds command contexts backed by an in-memory store.
package clitest

import (
	"testing"
	"time"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/config"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/storage"
)

// Today is the date every test context reports as today.
const Today = "2025-05-14"

// New returns a context over a fresh memory store with insights disabled
// and the clock fixed at noon UTC on Today.
func New(t *testing.T) (*cli.Context, *storage.JSONStore) {
	t.Helper()
	store := storage.NewMemoryStore()

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.Insights.Enabled = false

	ctx := cli.NewContext(store, cfg)
	ctx.Now = func() time.Time {
		return time.Date(2025, 5, 14, 12, 0, 0, 0, time.UTC)
	}
	return ctx, store
}

// SignIn stores a user and starts a session for them.
func SignIn(t *testing.T, ctx *cli.Context, id, shareID string) models.User {
	t.Helper()
	user := AddUser(t, ctx.Store, id, shareID)
	if _, err := ctx.Sessions.Start(user); err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	return user
}

// AddUser stores a user with sharing enabled.
func AddUser(t *testing.T, store storage.Provider, id, shareID string) models.User {
	t.Helper()
	user := models.User{
		ID:               id,
		ShareID:          shareID,
		Username:         id,
		Email:            id + "@example.com",
		JoinedAt:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Friends:          []string{},
		IsSharingEnabled: true,
	}
	if err := store.AddUser(user); err != nil {
		t.Fatalf("failed to add user %s: %v", id, err)
	}
	return user
}
