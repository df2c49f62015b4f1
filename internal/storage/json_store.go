package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/julianstephens/trackpro/internal/models"
)

// Document is the on-disk layout of the JSON store: one array per collection.
type Document struct {
	Version    int                `json:"version"`
	Users      []models.User      `json:"users"`
	Categories []models.Category  `json:"categories"`
	Activities []models.Activity  `json:"activities"`
	DailyTasks []models.DailyTask `json:"daily_tasks"`
	Days       []DayMarker        `json:"days"`
	Session    string             `json:"session,omitempty"`
}

// DayMarker records that a (user, date) pair has been promoted.
type DayMarker struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

// JSONStore keeps every collection in memory and, when it has a path,
// rewrites the whole document after each write.
type JSONStore struct {
	path string
	doc  *Document
}

// NewJSONStore creates a file-backed store.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// NewMemoryStore creates a store that never touches the disk. It is ready to use.
func NewMemoryStore() *JSONStore {
	return &JSONStore{doc: &Document{Version: 1}}
}

func (s *JSONStore) Init() error {
	if s.path == "" {
		s.doc = &Document{Version: 1}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	doc := &Document{Version: 1}
	if err := s.write(doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Load() error {
	if s.doc != nil {
		return nil
	}
	if s.path == "" {
		s.doc = &Document{Version: 1}
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'trackpro init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// commit applies mutate to a copy of the document and keeps the copy only
// once it is on disk. A failed write leaves the store as it was.
func (s *JSONStore) commit(mutate func(doc *Document) error) error {
	if err := s.loaded(); err != nil {
		return err
	}
	next := s.doc.clone()
	if err := mutate(next); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (d *Document) clone() *Document {
	c := *d
	c.Users = slices.Clone(d.Users)
	c.Categories = slices.Clone(d.Categories)
	c.Activities = slices.Clone(d.Activities)
	c.DailyTasks = slices.Clone(d.DailyTasks)
	c.Days = slices.Clone(d.Days)
	return &c
}

func (s *JSONStore) write(doc *Document) error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	return nil
}

// Users

func (s *JSONStore) AddUser(user models.User) error {
	return s.commit(func(doc *Document) error {
		for _, u := range doc.Users {
			if u.ID == user.ID || u.Email == user.Email || u.ShareID == user.ShareID {
				return ErrDuplicate
			}
		}
		doc.Users = append(doc.Users, cloneUser(user))
		return nil
	})
}

func (s *JSONStore) GetUser(id string) (models.User, error) {
	return s.findUser(func(u models.User) bool { return u.ID == id })
}

func (s *JSONStore) GetUserByEmail(email string) (models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *JSONStore) GetUserByShareID(shareID string) (models.User, error) {
	return s.findUser(func(u models.User) bool { return u.ShareID == shareID })
}

func (s *JSONStore) findUser(match func(models.User) bool) (models.User, error) {
	if err := s.loaded(); err != nil {
		return models.User{}, err
	}
	for _, u := range s.doc.Users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *JSONStore) GetAllUsers() ([]models.User, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(s.doc.Users))
	for _, u := range s.doc.Users {
		users = append(users, cloneUser(u))
	}
	return users, nil
}

func (s *JSONStore) UpdateUser(user models.User) error {
	return s.commit(func(doc *Document) error {
		i := slices.IndexFunc(doc.Users, func(u models.User) bool { return u.ID == user.ID })
		if i == -1 {
			return ErrNotFound
		}
		doc.Users[i] = cloneUser(user)
		return nil
	})
}

func cloneUser(u models.User) models.User {
	u.Friends = slices.Clone(u.Friends)
	if u.Friends == nil {
		u.Friends = []string{}
	}
	return u
}

// Categories

func (s *JSONStore) AddCategory(category models.Category) error {
	return s.commit(func(doc *Document) error {
		if slices.ContainsFunc(doc.Categories, func(c models.Category) bool { return c.ID == category.ID }) {
			return ErrDuplicate
		}
		doc.Categories = append(doc.Categories, category)
		return nil
	})
}

func (s *JSONStore) GetCategories(userID string) ([]models.Category, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var cats []models.Category
	for _, c := range s.doc.Categories {
		if c.UserID == userID {
			cats = append(cats, c)
		}
	}
	return cats, nil
}

// Activities

func (s *JSONStore) AddActivity(activity models.Activity) error {
	return s.commit(func(doc *Document) error {
		if slices.ContainsFunc(doc.Activities, func(a models.Activity) bool { return a.ID == activity.ID }) {
			return ErrDuplicate
		}
		doc.Activities = append(doc.Activities, activity)
		return nil
	})
}

func (s *JSONStore) GetActivity(id string) (models.Activity, error) {
	if err := s.loaded(); err != nil {
		return models.Activity{}, err
	}
	for _, a := range s.doc.Activities {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Activity{}, ErrNotFound
}

func (s *JSONStore) GetActivities(userID string) ([]models.Activity, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var acts []models.Activity
	for _, a := range s.doc.Activities {
		if a.UserID == userID {
			acts = append(acts, a)
		}
	}
	return acts, nil
}

func (s *JSONStore) UpdateActivity(activity models.Activity) error {
	return s.commit(func(doc *Document) error {
		i := slices.IndexFunc(doc.Activities, func(a models.Activity) bool { return a.ID == activity.ID })
		if i == -1 {
			return ErrNotFound
		}
		doc.Activities[i] = activity
		return nil
	})
}

func (s *JSONStore) DeleteActivity(id string) error {
	return s.commit(func(doc *Document) error {
		n := len(doc.Activities)
		doc.Activities = slices.DeleteFunc(doc.Activities, func(a models.Activity) bool { return a.ID == id })
		if len(doc.Activities) == n {
			return ErrNotFound
		}
		return nil
	})
}

// Daily tasks

func (s *JSONStore) AddDailyTask(task models.DailyTask) error {
	return s.commit(func(doc *Document) error {
		if slices.ContainsFunc(doc.DailyTasks, func(t models.DailyTask) bool { return t.ID == task.ID }) {
			return ErrDuplicate
		}
		doc.DailyTasks = append(doc.DailyTasks, task)
		return nil
	})
}

func (s *JSONStore) GetDailyTasks(userID, date string) ([]models.DailyTask, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var tasks []models.DailyTask
	for _, t := range s.doc.DailyTasks {
		if t.UserID == userID && t.Date == date {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *JSONStore) GetAllDailyTasks(userID string) ([]models.DailyTask, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var tasks []models.DailyTask
	for _, t := range s.doc.DailyTasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *JSONStore) UpdateDailyTask(task models.DailyTask) error {
	return s.commit(func(doc *Document) error {
		i := slices.IndexFunc(doc.DailyTasks, func(t models.DailyTask) bool { return t.ID == task.ID })
		if i == -1 {
			return ErrNotFound
		}
		doc.DailyTasks[i] = task
		return nil
	})
}

func (s *JSONStore) DeleteDailyTask(id string) error {
	return s.commit(func(doc *Document) error {
		n := len(doc.DailyTasks)
		doc.DailyTasks = slices.DeleteFunc(doc.DailyTasks, func(t models.DailyTask) bool { return t.ID == id })
		if len(doc.DailyTasks) == n {
			return ErrNotFound
		}
		return nil
	})
}

// SaveDay writes the tasks and the day marker together; a failed write keeps
// neither.
func (s *JSONStore) SaveDay(userID, date string, tasks []models.DailyTask) error {
	return s.commit(func(doc *Document) error {
		for _, task := range tasks {
			if slices.ContainsFunc(doc.DailyTasks, func(t models.DailyTask) bool { return t.ID == task.ID }) {
				return fmt.Errorf("task %s: %w", task.ID, ErrDuplicate)
			}
		}
		doc.DailyTasks = append(doc.DailyTasks, tasks...)
		marker := DayMarker{UserID: userID, Date: date}
		if !slices.Contains(doc.Days, marker) {
			doc.Days = append(doc.Days, marker)
		}
		return nil
	})
}

func (s *JSONStore) IsDayPersisted(userID, date string) (bool, error) {
	if err := s.loaded(); err != nil {
		return false, err
	}
	return slices.Contains(s.doc.Days, DayMarker{UserID: userID, Date: date}), nil
}

// Session

func (s *JSONStore) GetSession() (string, error) {
	if err := s.loaded(); err != nil {
		return "", err
	}
	if s.doc.Session == "" {
		return "", ErrNoSession
	}
	return s.doc.Session, nil
}

func (s *JSONStore) SetSession(userID string) error {
	return s.commit(func(doc *Document) error {
		doc.Session = userID
		return nil
	})
}

func (s *JSONStore) ClearSession() error {
	return s.commit(func(doc *Document) error {
		doc.Session = ""
		return nil
	})
}

// UnmarkedDays counts (user, date) pairs that have tasks but no day marker.
func (s *JSONStore) UnmarkedDays() (int, error) {
	if err := s.loaded(); err != nil {
		return 0, err
	}
	seen := make(map[DayMarker]bool)
	for _, t := range s.doc.DailyTasks {
		m := DayMarker{UserID: t.UserID, Date: t.Date}
		if !seen[m] && !slices.Contains(s.doc.Days, m) {
			seen[m] = true
		}
	}
	return len(seen), nil
}
