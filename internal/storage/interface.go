package storage

import (
	"errors"

	"github.com/julianstephens/trackpro/internal/models"
)

var (
	// ErrNotFound is returned when a lookup or update matches no record
	ErrNotFound = errors.New("record not found")
	// ErrNoSession is returned when the session slot is empty
	ErrNoSession = errors.New("no active session")
	// ErrDuplicate is returned when an insert collides with an existing unique key
	ErrDuplicate = errors.New("record already exists")
	// ErrNotLoaded is returned when the store is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is the record store: four collections plus the session slot.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	AddUser(models.User) error
	GetUser(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	GetUserByShareID(shareID string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	UpdateUser(models.User) error

	// Categories. Only user-owned categories are stored; defaults are injected by callers.
	AddCategory(models.Category) error
	GetCategories(userID string) ([]models.Category, error)

	// Activities
	AddActivity(models.Activity) error
	GetActivity(id string) (models.Activity, error)
	GetActivities(userID string) ([]models.Activity, error)
	UpdateActivity(models.Activity) error
	DeleteActivity(id string) error

	// Daily tasks, returned in insertion order
	AddDailyTask(models.DailyTask) error
	GetDailyTasks(userID, date string) ([]models.DailyTask, error)
	GetAllDailyTasks(userID string) ([]models.DailyTask, error)
	UpdateDailyTask(models.DailyTask) error
	DeleteDailyTask(id string) error

	// SaveDay writes a promoted day: every task plus the day marker, atomically.
	SaveDay(userID, date string, tasks []models.DailyTask) error
	// IsDayPersisted reports whether a day marker exists for (userID, date).
	IsDayPersisted(userID, date string) (bool, error)
	// UnmarkedDays counts (user, date) pairs with tasks but no day marker.
	UnmarkedDays() (int, error)

	// Session slot
	GetSession() (string, error)
	SetSession(userID string) error
	ClearSession() error

	// Utils
	GetConfigPath() string
}
