// Package sqldb implements the record collections on database/sql. The SQLite
// and PostgreSQL backends embed DB and only differ in driver, dialect and
// lifecycle.
package sqldb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/trackpro/internal/migration"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/storage"
)

// DB holds the connection shared by every collection.
type DB struct {
	Conn    *sql.DB
	Dialect migration.Dialect
	// IsUniqueViolation maps a driver error to storage.ErrDuplicate
	IsUniqueViolation func(error) bool
}

func (d *DB) q(query string) string {
	return d.Dialect.Rebind(query)
}

func (d *DB) ready() error {
	if d.Conn == nil {
		return storage.ErrNotLoaded
	}
	return nil
}

func (d *DB) exec(query string, args ...any) (sql.Result, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	res, err := d.Conn.Exec(d.q(query), args...)
	if err != nil && d.IsUniqueViolation != nil && d.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
	}
	return res, err
}

// execOne runs an update or delete that must touch exactly one row
func (d *DB) execOne(query string, args ...any) error {
	res, err := d.exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Users

const userColumns = "id, share_id, username, email, password_hash, joined_at, friends, is_sharing_enabled"

func (d *DB) AddUser(user models.User) error {
	friends, err := encodeFriends(user.Friends)
	if err != nil {
		return err
	}
	_, err = d.exec(
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.ShareID, user.Username, user.Email, user.PasswordHash,
		formatTime(user.JoinedAt), friends, boolToInt(user.IsSharingEnabled),
	)
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	return nil
}

func (d *DB) GetUser(id string) (models.User, error) {
	return d.queryUser("SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (d *DB) GetUserByEmail(email string) (models.User, error) {
	return d.queryUser("SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (d *DB) GetUserByShareID(shareID string) (models.User, error) {
	return d.queryUser("SELECT "+userColumns+" FROM users WHERE share_id = ?", shareID)
}

func (d *DB) queryUser(query string, arg string) (models.User, error) {
	if err := d.ready(); err != nil {
		return models.User{}, err
	}
	user, err := scanUser(d.Conn.QueryRow(d.q(query), arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, storage.ErrNotFound
	}
	return user, err
}

func (d *DB) GetAllUsers() ([]models.User, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.Conn.Query("SELECT " + userColumns + " FROM users ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (d *DB) UpdateUser(user models.User) error {
	friends, err := encodeFriends(user.Friends)
	if err != nil {
		return err
	}
	return d.execOne(
		"UPDATE users SET share_id = ?, username = ?, email = ?, password_hash = ?, joined_at = ?, friends = ?, is_sharing_enabled = ? WHERE id = ?",
		user.ShareID, user.Username, user.Email, user.PasswordHash,
		formatTime(user.JoinedAt), friends, boolToInt(user.IsSharingEnabled), user.ID,
	)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (models.User, error) {
	var (
		user     models.User
		joinedAt string
		friends  string
		sharing  int
	)
	if err := row.Scan(&user.ID, &user.ShareID, &user.Username, &user.Email, &user.PasswordHash, &joinedAt, &friends, &sharing); err != nil {
		return models.User{}, err
	}

	t, err := parseTime(joinedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("user %s: invalid joined_at: %w", user.ID, err)
	}
	user.JoinedAt = t

	if err := json.Unmarshal([]byte(friends), &user.Friends); err != nil {
		return models.User{}, fmt.Errorf("user %s: invalid friends: %w", user.ID, err)
	}
	if user.Friends == nil {
		user.Friends = []string{}
	}
	user.IsSharingEnabled = sharing != 0
	return user, nil
}

func encodeFriends(friends []string) (string, error) {
	if friends == nil {
		friends = []string{}
	}
	data, err := json.Marshal(friends)
	if err != nil {
		return "", fmt.Errorf("failed to encode friends: %w", err)
	}
	return string(data), nil
}

// Categories

func (d *DB) AddCategory(category models.Category) error {
	_, err := d.exec(
		"INSERT INTO categories (id, user_id, name, color) VALUES (?, ?, ?, ?)",
		category.ID, category.UserID, category.Name, category.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

func (d *DB) GetCategories(userID string) ([]models.Category, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.Conn.Query(d.q("SELECT id, user_id, name, color FROM categories WHERE user_id = ? ORDER BY seq"), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Activities

func (d *DB) AddActivity(activity models.Activity) error {
	_, err := d.exec(
		"INSERT INTO activities (id, user_id, category_id, name, points) VALUES (?, ?, ?, ?, ?)",
		activity.ID, activity.UserID, activity.CategoryID, activity.Name, activity.Points,
	)
	if err != nil {
		return fmt.Errorf("failed to add activity: %w", err)
	}
	return nil
}

func (d *DB) GetActivity(id string) (models.Activity, error) {
	if err := d.ready(); err != nil {
		return models.Activity{}, err
	}
	var a models.Activity
	err := d.Conn.QueryRow(d.q("SELECT id, user_id, category_id, name, points FROM activities WHERE id = ?"), id).
		Scan(&a.ID, &a.UserID, &a.CategoryID, &a.Name, &a.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, storage.ErrNotFound
	}
	return a, err
}

func (d *DB) GetActivities(userID string) ([]models.Activity, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.Conn.Query(d.q("SELECT id, user_id, category_id, name, points FROM activities WHERE user_id = ? ORDER BY seq"), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var acts []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.Name, &a.Points); err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

func (d *DB) UpdateActivity(activity models.Activity) error {
	return d.execOne(
		"UPDATE activities SET user_id = ?, category_id = ?, name = ?, points = ? WHERE id = ?",
		activity.UserID, activity.CategoryID, activity.Name, activity.Points, activity.ID,
	)
}

func (d *DB) DeleteActivity(id string) error {
	return d.execOne("DELETE FROM activities WHERE id = ?", id)
}

// Daily tasks

const taskColumns = "id, activity_id, user_id, date, completed, points_earned"

func (d *DB) AddDailyTask(task models.DailyTask) error {
	_, err := d.exec(
		"INSERT INTO daily_tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		task.ID, task.ActivityID, task.UserID, task.Date, boolToInt(task.Completed), task.PointsEarned,
	)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return nil
}

func (d *DB) GetDailyTasks(userID, date string) ([]models.DailyTask, error) {
	return d.queryTasks("SELECT "+taskColumns+" FROM daily_tasks WHERE user_id = ? AND date = ? ORDER BY seq", userID, date)
}

func (d *DB) GetAllDailyTasks(userID string) ([]models.DailyTask, error) {
	return d.queryTasks("SELECT "+taskColumns+" FROM daily_tasks WHERE user_id = ? ORDER BY seq", userID)
}

func (d *DB) queryTasks(query string, args ...any) ([]models.DailyTask, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.Conn.Query(d.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.DailyTask
	for rows.Next() {
		var (
			t         models.DailyTask
			completed int
		)
		if err := rows.Scan(&t.ID, &t.ActivityID, &t.UserID, &t.Date, &completed, &t.PointsEarned); err != nil {
			return nil, err
		}
		t.Completed = completed != 0
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (d *DB) UpdateDailyTask(task models.DailyTask) error {
	return d.execOne(
		"UPDATE daily_tasks SET activity_id = ?, user_id = ?, date = ?, completed = ?, points_earned = ? WHERE id = ?",
		task.ActivityID, task.UserID, task.Date, boolToInt(task.Completed), task.PointsEarned, task.ID,
	)
}

func (d *DB) DeleteDailyTask(id string) error {
	return d.execOne("DELETE FROM daily_tasks WHERE id = ?", id)
}

func (d *DB) SaveDay(userID, date string, tasks []models.DailyTask) error {
	if err := d.ready(); err != nil {
		return err
	}
	tx, err := d.Conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := d.q("INSERT INTO daily_tasks (" + taskColumns + ") VALUES (?, ?, ?, ?, ?, ?)")
	for _, t := range tasks {
		if _, err := tx.Exec(insert, t.ID, t.ActivityID, t.UserID, t.Date, boolToInt(t.Completed), t.PointsEarned); err != nil {
			if d.IsUniqueViolation != nil && d.IsUniqueViolation(err) {
				return fmt.Errorf("task %s: %w", t.ID, storage.ErrDuplicate)
			}
			return fmt.Errorf("failed to save task %s: %w", t.ID, err)
		}
	}

	if _, err := tx.Exec(d.q("INSERT INTO persisted_days (user_id, date) VALUES (?, ?) ON CONFLICT DO NOTHING"), userID, date); err != nil {
		return fmt.Errorf("failed to mark day: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit day: %w", err)
	}
	return nil
}

func (d *DB) IsDayPersisted(userID, date string) (bool, error) {
	if err := d.ready(); err != nil {
		return false, err
	}
	var count int
	err := d.Conn.QueryRow(d.q("SELECT COUNT(*) FROM persisted_days WHERE user_id = ? AND date = ?"), userID, date).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check day: %w", err)
	}
	return count > 0, nil
}

// Session

func (d *DB) GetSession() (string, error) {
	if err := d.ready(); err != nil {
		return "", err
	}
	var userID string
	err := d.Conn.QueryRow("SELECT user_id FROM session WHERE id = 1").Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	return userID, nil
}

func (d *DB) SetSession(userID string) error {
	_, err := d.exec(
		"INSERT INTO session (id, user_id) VALUES (1, ?) ON CONFLICT (id) DO UPDATE SET user_id = excluded.user_id",
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (d *DB) ClearSession() error {
	if _, err := d.exec("DELETE FROM session"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UnmarkedDays counts (user, date) pairs that have tasks but no day marker.
// Such days resurrect from the template once their last task is removed.
func (d *DB) UnmarkedDays() (int, error) {
	if err := d.ready(); err != nil {
		return 0, err
	}
	var n int
	err := d.Conn.QueryRow(`
		SELECT COUNT(*) FROM (
			SELECT DISTINCT t.user_id, t.date
			FROM daily_tasks t
			LEFT JOIN persisted_days p ON p.user_id = t.user_id AND p.date = t.date
			WHERE p.user_id IS NULL
		) unmarked
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unmarked days: %w", err)
	}
	return n, nil
}
