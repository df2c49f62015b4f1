package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trackpro/internal/cli"
	"github.com/julianstephens/trackpro/internal/keyring"
	"github.com/julianstephens/trackpro/internal/storage/postgres"
)

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Secret string `arg:"" help:"Secret to store: connection or gemini."`
	Value  string `arg:"" optional:"" help:"Secret value (prompted when omitted)."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}

	value := cmd.Value
	if value == "" {
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Value for %s", secret)).
				EchoMode(huh.EchoModePassword).
				Value(&value),
		)).Run()
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
	}

	if secret == keyring.ConnectionString {
		if err := postgres.ValidateConnString(value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// The keyring is encrypted, so an embedded password is acceptable here
			fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(secret, value); err != nil {
		return err
	}

	fmt.Printf("✓ %s stored in OS keyring\n", secret)
	if secret == keyring.ConnectionString {
		fmt.Println("  Set storage.location to \"keyring\" to use it by default")
	}
	return nil
}

// KeyringGetCmd shows a stored secret with its sensitive parts masked
type KeyringGetCmd struct {
	Secret string `arg:"" help:"Secret to show: connection or gemini."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}

	value, err := keyring.Get(secret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring, use 'trackpro keyring set %s'", secret, cmd.Secret)
		}
		return err
	}

	if secret == keyring.ConnectionString {
		fmt.Println(maskPassword(value))
	} else {
		fmt.Println(maskKey(value))
	}
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Secret string `arg:"" help:"Secret to delete: connection or gemini."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", secret)
		}
		return err
	}
	fmt.Printf("✓ %s deleted from OS keyring\n", secret)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}

	fmt.Println("✓ OS keyring is available")
	for _, secret := range []keyring.Secret{keyring.ConnectionString, keyring.GeminiAPIKey} {
		if _, err := keyring.Get(secret); err == nil {
			fmt.Printf("✓ %s is stored\n", secret)
		} else if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("ℹ No %s stored\n", secret)
		}
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}

// maskKey keeps the first four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + strings.Repeat("*", 8)
}
