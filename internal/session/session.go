// Package session tracks the signed-in user across CLI invocations.
package session

import (
	"errors"
	"fmt"

	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/storage"
)

// ErrNoSession is returned when nobody is signed in.
var ErrNoSession = errors.New("not logged in, run 'trackpro login' first")

// Store is the subset of the record store the session needs.
type Store interface {
	GetUser(id string) (models.User, error)
	UpdateUser(models.User) error
	GetSession() (string, error)
	SetSession(userID string) error
	ClearSession() error
}

// Context is the current user, handed explicitly to the components that act
// on their behalf.
type Context struct {
	User models.User
}

func (c *Context) UserID() string {
	return c.User.ID
}

// Manager owns the session slot. Only the user id is stored; the user record
// is re-read on Restore so it is never stale across invocations.
type Manager struct {
	store   Store
	current *Context
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Start signs user in.
func (m *Manager) Start(user models.User) (*Context, error) {
	if err := m.store.SetSession(user.ID); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	m.current = &Context{User: user}
	return m.current, nil
}

// Restore loads the signed-in user from the store. A session pointing at a
// deleted user is cleared.
func (m *Manager) Restore() (*Context, error) {
	id, err := m.store.GetSession()
	if err != nil {
		if errors.Is(err, storage.ErrNoSession) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	user, err := m.store.GetUser(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if clearErr := m.store.ClearSession(); clearErr != nil {
				return nil, fmt.Errorf("failed to clear stale session: %w", clearErr)
			}
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	m.current = &Context{User: user}
	return m.current, nil
}

// Current returns the active context, restoring it on first use.
func (m *Manager) Current() (*Context, error) {
	if m.current != nil {
		return m.current, nil
	}
	return m.Restore()
}

// Update persists user and refreshes the context when it is the current user.
func (m *Manager) Update(user models.User) error {
	if err := m.store.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if m.current != nil && m.current.User.ID == user.ID {
		m.current.User = user
	}
	return nil
}

// End signs out. Ending without a session is not an error.
func (m *Manager) End() error {
	if err := m.store.ClearSession(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.current = nil
	return nil
}
