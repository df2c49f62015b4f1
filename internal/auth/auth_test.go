package auth

import (
	"bytes"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/storage"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *storage.JSONStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	opts = append([]Option{WithCost(bcrypt.MinCost)}, opts...)
	return NewService(store, opts...), store
}

func TestRegister(t *testing.T) {
	joined := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, WithClock(func() time.Time { return joined }))

	user, err := svc.Register("  alice ", " Alice@Example.com ", "secret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Errorf("unexpected identity: %+v", user)
	}
	if !user.IsSharingEnabled {
		t.Error("sharing should be enabled for new users")
	}
	if !user.JoinedAt.Equal(joined) {
		t.Errorf("JoinedAt = %v, want %v", user.JoinedAt, joined)
	}
	if len(user.Friends) != 0 {
		t.Errorf("expected no friends, got %v", user.Friends)
	}
	if user.PasswordHash == "secret" {
		t.Error("password stored in clear text")
	}
	if len(user.ShareID) != constants.ShareIDLength {
		t.Errorf("share code %q has wrong length", user.ShareID)
	}

	stored, err := store.GetUser(user.ID)
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.ShareID != user.ShareID {
		t.Errorf("stored share code %q, want %q", stored.ShareID, user.ShareID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Register("alice", "alice@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register("other", "ALICE@example.com", "x"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name, username, email, password string
	}{
		{"no username", " ", "a@example.com", "pw"},
		{"bad email", "a", "not-an-email", "pw"},
		{"no password", "a", "a@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(tt.username, tt.email, tt.password); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	registered, err := svc.Register("alice", "alice@example.com", "secret")
	if err != nil {
		t.Fatal(err)
	}

	user, err := svc.Login("Alice@Example.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("logged in as %s, want %s", user.ID, registered.ID)
	}

	if _, err := svc.Login("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login("nobody@example.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestGenerateShareID(t *testing.T) {
	id, err := GenerateShareID(bytes.NewReader(bytes.Repeat([]byte{0}, 8)))
	if err != nil {
		t.Fatalf("GenerateShareID failed: %v", err)
	}
	if id != "AAAAAAAA" {
		t.Errorf("zero bytes should pick the first symbol, got %q", id)
	}

	// 33 wraps to the second symbol
	id, _ = GenerateShareID(bytes.NewReader(bytes.Repeat([]byte{33}, 8)))
	if id != "BBBBBBBB" {
		t.Errorf("expected BBBBBBBB, got %q", id)
	}

	if _, err := GenerateShareID(bytes.NewReader([]byte{1, 2})); err == nil {
		t.Error("expected error for short entropy")
	}
}

func TestGeneratedShareIDsUseAlphabet(t *testing.T) {
	for i := 0; i < 20; i++ {
		id, err := GenerateShareID(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		if len(id) != constants.ShareIDLength {
			t.Errorf("share code %q has wrong length", id)
		}
		for _, r := range id {
			if !strings.ContainsRune(constants.ShareIDAlphabet, r) {
				t.Errorf("share code %q contains %q outside the alphabet", id, r)
			}
		}
	}
}

func TestShareIDCollisionRetries(t *testing.T) {
	zeros := bytes.Repeat([]byte{0}, 8)
	svc, store := newTestService(t, WithRand(bytes.NewReader(zeros)))
	first, err := svc.Register("first", "first@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if first.ShareID != "AAAAAAAA" {
		t.Fatalf("first share code = %q", first.ShareID)
	}

	// First draw collides with AAAAAAAA, the retry yields BBBBBBBB
	entropy := append(bytes.Repeat([]byte{0}, 8), bytes.Repeat([]byte{1}, 8)...)
	svc2 := NewService(store, WithCost(bcrypt.MinCost), WithRand(bytes.NewReader(entropy)))
	second, err := svc2.Register("second", "second@example.com", "pw")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if second.ShareID != "BBBBBBBB" {
		t.Errorf("second share code = %q, want BBBBBBBB", second.ShareID)
	}
}

func TestNormalizeShareID(t *testing.T) {
	if got := NormalizeShareID("  abcd2345\n"); got != "ABCD2345" {
		t.Errorf("NormalizeShareID = %q", got)
	}
}
