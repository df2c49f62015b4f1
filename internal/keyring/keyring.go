package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/trackpro/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names the secrets trackpro keeps in the OS keyring.
type Secret string

const (
	ConnectionString Secret = constants.DefaultKeyringUser
	GeminiAPIKey     Secret = constants.GeminiKeyringUser
)

// ParseSecret maps a user-facing name to a Secret.
func ParseSecret(name string) (Secret, error) {
	switch name {
	case "connection", "connection-string", string(ConnectionString):
		return ConnectionString, nil
	case "gemini", "gemini-api-key":
		return GeminiAPIKey, nil
	}
	return "", fmt.Errorf("unknown secret %q (expected connection or gemini)", name)
}

// Get retrieves a secret from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func Get(secret Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(secret))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret in the OS keyring.
func Set(secret Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", secret)
	}
	if err := keyring.Set(constants.AppName, string(secret), value); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(secret Secret) error {
	err := keyring.Delete(constants.AppName, string(secret))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
