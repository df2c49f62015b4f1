// Package social holds the friend graph and the progress comparison
// between friends.
package social

import (
	"errors"
	"fmt"
	"slices"

	"github.com/julianstephens/trackpro/internal/auth"
	"github.com/julianstephens/trackpro/internal/logger"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/session"
	"github.com/julianstephens/trackpro/internal/storage"
)

var (
	ErrSelfAdd         = errors.New("you cannot add yourself")
	ErrAlreadyFriend   = errors.New("already a friend")
	ErrUserNotFound    = errors.New("no user with that share code")
	ErrNotFriend       = errors.New("not in your friend list")
	ErrSharingDisabled = errors.New("this friend has sharing turned off")
)

// Store is the subset of the record store the social service reads.
type Store interface {
	GetUserByShareID(shareID string) (models.User, error)
	GetAllDailyTasks(userID string) ([]models.DailyTask, error)
}

// Sessions persists user changes and keeps the session copy current.
// *session.Manager satisfies it.
type Sessions interface {
	Update(models.User) error
}

type Service struct {
	store    Store
	sessions Sessions
}

func NewService(store Store, sessions Sessions) *Service {
	return &Service{store: store, sessions: sessions}
}

// AddFriend adds a share code to the current user's friend set. Checks run
// in order: own code, already present, unknown code.
func (s *Service) AddFriend(ctx *session.Context, code string) (models.User, error) {
	code = auth.NormalizeShareID(code)
	me := ctx.User

	if code == me.ShareID {
		return models.User{}, ErrSelfAdd
	}
	if me.HasFriend(code) {
		return models.User{}, ErrAlreadyFriend
	}
	friend, err := s.store.GetUserByShareID(code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to look up share code: %w", err)
	}

	me.Friends = append(slices.Clone(me.Friends), code)
	if err := s.sessions.Update(me); err != nil {
		return models.User{}, err
	}
	logger.Debug("Friend added", "user", me.ID, "friend", friend.ID)
	return friend, nil
}

// RemoveFriend drops a share code. Removing an absent code succeeds.
func (s *Service) RemoveFriend(ctx *session.Context, code string) error {
	code = auth.NormalizeShareID(code)
	me := ctx.User
	if !me.HasFriend(code) {
		return nil
	}
	me.Friends = slices.DeleteFunc(slices.Clone(me.Friends), func(f string) bool { return f == code })
	return s.sessions.Update(me)
}

// SetSharing toggles whether friends may compare against the current user.
func (s *Service) SetSharing(ctx *session.Context, enabled bool) error {
	me := ctx.User
	me.IsSharingEnabled = enabled
	return s.sessions.Update(me)
}

// Friend is a friend-list entry. Found is false when the code no longer
// resolves to a user.
type Friend struct {
	ShareID string
	User    models.User
	Found   bool
}

// Friends lists the current user's friends in the order they were added.
func (s *Service) Friends(ctx *session.Context) ([]Friend, error) {
	friends := make([]Friend, 0, len(ctx.User.Friends))
	for _, code := range ctx.User.Friends {
		user, err := s.store.GetUserByShareID(code)
		switch {
		case err == nil:
			friends = append(friends, Friend{ShareID: code, User: user, Found: true})
		case errors.Is(err, storage.ErrNotFound):
			friends = append(friends, Friend{ShareID: code})
		default:
			return nil, fmt.Errorf("failed to look up friend %s: %w", code, err)
		}
	}
	return friends, nil
}

// Compare builds the comparison with a friend who shares their data.
func (s *Service) Compare(ctx *session.Context, code, today string) (Comparison, error) {
	code = auth.NormalizeShareID(code)
	if !ctx.User.HasFriend(code) {
		return Comparison{}, ErrNotFriend
	}
	friend, err := s.store.GetUserByShareID(code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Comparison{}, ErrUserNotFound
		}
		return Comparison{}, fmt.Errorf("failed to look up friend: %w", err)
	}
	if !friend.IsSharingEnabled {
		return Comparison{}, ErrSharingDisabled
	}

	selfTasks, err := s.store.GetAllDailyTasks(ctx.User.ID)
	if err != nil {
		return Comparison{}, fmt.Errorf("failed to load your history: %w", err)
	}
	friendTasks, err := s.store.GetAllDailyTasks(friend.ID)
	if err != nil {
		return Comparison{}, fmt.Errorf("failed to load friend history: %w", err)
	}
	return Compare(ctx.User, friend, selfTasks, friendTasks, today)
}
