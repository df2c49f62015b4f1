// Package auth registers accounts and checks credentials.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/logger"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/storage"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
)

// Store is the subset of the record store auth needs.
type Store interface {
	AddUser(models.User) error
	GetUserByEmail(email string) (models.User, error)
	GetUserByShareID(shareID string) (models.User, error)
}

type Service struct {
	store Store
	now   func() time.Time
	rand  io.Reader
	cost  int
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the time source for joinedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand sets the randomness source for share codes.
func WithRand(r io.Reader) Option {
	return func(s *Service) { s.rand = r }
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		rand:  rand.Reader,
		cost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account with sharing enabled and a fresh share code.
func (s *Service) Register(username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, fmt.Errorf("%w: %q is not a valid email", ErrInvalidInput, email)
	}
	if password == "" {
		return models.User{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	if _, err := s.store.GetUserByEmail(email); err == nil {
		return models.User{}, ErrEmailExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	shareID, err := s.uniqueShareID()
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:               uuid.NewString(),
		ShareID:          shareID,
		Username:         username,
		Email:            email,
		PasswordHash:     string(hash),
		JoinedAt:         s.now().UTC(),
		Friends:          []string{},
		IsSharingEnabled: true,
	}
	if err := s.store.AddUser(user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return models.User{}, ErrEmailExists
		}
		return models.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", "user", user.ID)
	return user, nil
}

// Login returns the account for email when password matches its hash.
func (s *Service) Login(email, password string) (models.User, error) {
	user, err := s.store.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Debug("Password mismatch", "user", user.ID)
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) uniqueShareID() (string, error) {
	for i := 0; i < constants.ShareIDAttempts; i++ {
		id, err := GenerateShareID(s.rand)
		if err != nil {
			return "", err
		}
		_, err = s.store.GetUserByShareID(id)
		if errors.Is(err, storage.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check share code: %w", err)
		}
	}
	return "", fmt.Errorf("failed to generate a unique share code after %d attempts", constants.ShareIDAttempts)
}

// GenerateShareID draws ShareIDLength characters from ShareIDAlphabet.
// The alphabet has 32 symbols, so one byte modulo 32 is uniform.
func GenerateShareID(r io.Reader) (string, error) {
	buf := make([]byte, constants.ShareIDLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("failed to generate share code: %w", err)
	}
	alphabet := constants.ShareIDAlphabet
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}

// NormalizeShareID trims and upper-cases a human-entered share code.
func NormalizeShareID(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
