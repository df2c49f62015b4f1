package constants

import (
	"time"

	"github.com/julianstephens/trackpro/internal/models"
)

const (
	AppName            = "trackpro"
	Version            = "v0.2.0"
	DefaultConfigPath  = "~/.config/trackpro/config.yaml"
	DefaultStorePath   = "~/.config/trackpro/trackpro.db"
	DefaultKeyringUser = "database-connection"
	GeminiKeyringUser  = "gemini-api-key"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat identifies a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// DefaultOwner marks categories that belong to every user
	DefaultOwner = "default"

	// UncategorizedID groups tasks whose activity or category no longer resolves
	UncategorizedID = "uncategorized"

	// VirtualTaskPrefix prefixes the deterministic ids of synthesized tasks
	VirtualTaskPrefix = "task-"

	// Share codes
	ShareIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	ShareIDLength   = 8
	ShareIDAttempts = 16

	// Social comparison window, today included
	ComparisonDays = 7

	// Default points for a new activity
	DefaultActivityPoints = 10

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "trackpro-"
	BackupFileSuffix = ".db"

	// Insights
	DefaultInsightModel   = "gemini-3-flash-preview"
	DefaultInsightTimeout = 20 * time.Second
)

// DefaultCategories exist for every user and are injected at read time.
var DefaultCategories = []models.Category{
	{ID: "cat-1", UserID: DefaultOwner, Name: "Physical Exercise", Color: "#3b82f6"},
	{ID: "cat-2", UserID: DefaultOwner, Name: "Skill Development", Color: "#10b981"},
	{ID: "cat-3", UserID: DefaultOwner, Name: "Mindfulness", Color: "#8b5cf6"},
	{ID: "cat-4", UserID: DefaultOwner, Name: "Work/Career", Color: "#f59e0b"},
	{ID: "cat-5", UserID: DefaultOwner, Name: "Leisure", Color: "#ec4899"},
}

// Palette is the set of colors offered for new categories.
var Palette = []string{
	"#3b82f6", "#10b981", "#8b5cf6", "#f59e0b", "#ec4899",
	"#ef4444", "#06b6d4", "#6366f1", "#14b8a6", "#f97316",
}
