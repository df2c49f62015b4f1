// Package storagetest runs the same behavioural checks against every
// storage.Provider implementation.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/storage"
)

// Run exercises p, which must be initialized and empty.
func Run(t *testing.T, newProvider func(t *testing.T) storage.Provider) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newProvider(t)) })
	t.Run("Categories", func(t *testing.T) { testCategories(t, newProvider(t)) })
	t.Run("Activities", func(t *testing.T) { testActivities(t, newProvider(t)) })
	t.Run("DailyTasks", func(t *testing.T) { testDailyTasks(t, newProvider(t)) })
	t.Run("SaveDay", func(t *testing.T) { testSaveDay(t, newProvider(t)) })
	t.Run("Session", func(t *testing.T) { testSession(t, newProvider(t)) })
	t.Run("UnmarkedDays", func(t *testing.T) { testUnmarkedDays(t, newProvider(t)) })
}

func sampleUser(id, email, shareID string) models.User {
	return models.User{
		ID:               id,
		ShareID:          shareID,
		Username:         id,
		Email:            email,
		PasswordHash:     "hash-" + id,
		JoinedAt:         time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Friends:          []string{},
		IsSharingEnabled: true,
	}
}

func testUsers(t *testing.T, p storage.Provider) {
	alice := sampleUser("u1", "alice@example.com", "ABCD2345")
	if err := p.AddUser(alice); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	got, err := p.GetUser("u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if diff := cmp.Diff(alice, got); diff != "" {
		t.Errorf("GetUser mismatch (-want +got):\n%s", diff)
	}

	if _, err := p.GetUserByEmail("alice@example.com"); err != nil {
		t.Errorf("GetUserByEmail failed: %v", err)
	}
	if _, err := p.GetUserByShareID("ABCD2345"); err != nil {
		t.Errorf("GetUserByShareID failed: %v", err)
	}
	if _, err := p.GetUser("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	dupEmail := sampleUser("u2", "alice@example.com", "ZZZZ2345")
	if err := p.AddUser(dupEmail); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for email, got %v", err)
	}

	alice.Friends = []string{"WXYZ6789"}
	alice.IsSharingEnabled = false
	if err := p.UpdateUser(alice); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	got, _ = p.GetUser("u1")
	if diff := cmp.Diff(alice, got); diff != "" {
		t.Errorf("UpdateUser mismatch (-want +got):\n%s", diff)
	}

	if err := p.UpdateUser(sampleUser("nobody", "n@example.com", "NNNN2345")); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating missing user, got %v", err)
	}

	if err := p.AddUser(sampleUser("u3", "bob@example.com", "BBBB2345")); err != nil {
		t.Fatal(err)
	}
	users, err := p.GetAllUsers()
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if len(users) != 2 || users[0].ID != "u1" || users[1].ID != "u3" {
		t.Errorf("unexpected users: %+v", users)
	}
}

func testCategories(t *testing.T, p storage.Provider) {
	cats := []models.Category{
		{ID: "c1", UserID: "u1", Name: "Music", Color: "#ef4444"},
		{ID: "c2", UserID: "u2", Name: "Other", Color: "#84cc16"},
		{ID: "c3", UserID: "u1", Name: "Cooking", Color: "#06b6d4"},
	}
	for _, c := range cats {
		if err := p.AddCategory(c); err != nil {
			t.Fatalf("AddCategory failed: %v", err)
		}
	}

	got, err := p.GetCategories("u1")
	if err != nil {
		t.Fatalf("GetCategories failed: %v", err)
	}
	want := []models.Category{cats[0], cats[2]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetCategories mismatch (-want +got):\n%s", diff)
	}

	if err := p.AddCategory(cats[0]); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func testActivities(t *testing.T, p storage.Provider) {
	run := models.Activity{ID: "a1", UserID: "u1", CategoryID: "cat-1", Name: "Run", Points: 20}
	read := models.Activity{ID: "a2", UserID: "u1", CategoryID: "cat-2", Name: "Read", Points: 10}
	for _, a := range []models.Activity{run, read} {
		if err := p.AddActivity(a); err != nil {
			t.Fatalf("AddActivity failed: %v", err)
		}
	}

	got, err := p.GetActivity("a1")
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if got != run {
		t.Errorf("GetActivity = %+v, want %+v", got, run)
	}

	run.Points = 25
	if err := p.UpdateActivity(run); err != nil {
		t.Fatalf("UpdateActivity failed: %v", err)
	}

	acts, err := p.GetActivities("u1")
	if err != nil {
		t.Fatalf("GetActivities failed: %v", err)
	}
	if diff := cmp.Diff([]models.Activity{run, read}, acts); diff != "" {
		t.Errorf("GetActivities mismatch (-want +got):\n%s", diff)
	}

	if err := p.DeleteActivity("a1"); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	if _, err := p.GetActivity("a1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := p.DeleteActivity("a1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func testDailyTasks(t *testing.T, p storage.Provider) {
	tasks := []models.DailyTask{
		{ID: "t1", ActivityID: "a1", UserID: "u1", Date: "2025-03-01", PointsEarned: 20},
		{ID: "t2", ActivityID: "a2", UserID: "u1", Date: "2025-03-01", Completed: true, PointsEarned: 10},
		{ID: "t3", ActivityID: "a1", UserID: "u1", Date: "2025-03-02", PointsEarned: 20},
		{ID: "t4", ActivityID: "a9", UserID: "u2", Date: "2025-03-01", PointsEarned: 5},
	}
	for _, task := range tasks {
		if err := p.AddDailyTask(task); err != nil {
			t.Fatalf("AddDailyTask failed: %v", err)
		}
	}

	day, err := p.GetDailyTasks("u1", "2025-03-01")
	if err != nil {
		t.Fatalf("GetDailyTasks failed: %v", err)
	}
	if diff := cmp.Diff(tasks[:2], day); diff != "" {
		t.Errorf("GetDailyTasks mismatch (-want +got):\n%s", diff)
	}

	all, err := p.GetAllDailyTasks("u1")
	if err != nil {
		t.Fatalf("GetAllDailyTasks failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 tasks for u1, got %d", len(all))
	}

	updated := tasks[0]
	updated.Completed = true
	updated.PointsEarned = 30
	if err := p.UpdateDailyTask(updated); err != nil {
		t.Fatalf("UpdateDailyTask failed: %v", err)
	}
	day, _ = p.GetDailyTasks("u1", "2025-03-01")
	if diff := cmp.Diff(updated, day[0]); diff != "" {
		t.Errorf("UpdateDailyTask mismatch (-want +got):\n%s", diff)
	}

	if err := p.DeleteDailyTask("t2"); err != nil {
		t.Fatalf("DeleteDailyTask failed: %v", err)
	}
	day, _ = p.GetDailyTasks("u1", "2025-03-01")
	if len(day) != 1 {
		t.Errorf("expected 1 task after delete, got %d", len(day))
	}

	if err := p.UpdateDailyTask(models.DailyTask{ID: "missing"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := p.DeleteDailyTask("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testSaveDay(t *testing.T, p storage.Provider) {
	persisted, err := p.IsDayPersisted("u1", "2025-03-01")
	if err != nil {
		t.Fatalf("IsDayPersisted failed: %v", err)
	}
	if persisted {
		t.Error("fresh day should not be persisted")
	}

	tasks := []models.DailyTask{
		{ID: "task-2025-03-01-a1", ActivityID: "a1", UserID: "u1", Date: "2025-03-01", Completed: true, PointsEarned: 20},
		{ID: "task-2025-03-01-a2", ActivityID: "a2", UserID: "u1", Date: "2025-03-01", PointsEarned: 10},
	}
	if err := p.SaveDay("u1", "2025-03-01", tasks); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}

	got, _ := p.GetDailyTasks("u1", "2025-03-01")
	if diff := cmp.Diff(tasks, got); diff != "" {
		t.Errorf("SaveDay tasks mismatch (-want +got):\n%s", diff)
	}
	if persisted, _ := p.IsDayPersisted("u1", "2025-03-01"); !persisted {
		t.Error("expected day marker after SaveDay")
	}
	if persisted, _ := p.IsDayPersisted("u2", "2025-03-01"); persisted {
		t.Error("day marker leaked to another user")
	}

	// An empty promoted day still gets its marker
	if err := p.SaveDay("u1", "2025-03-02", nil); err != nil {
		t.Fatalf("SaveDay with no tasks failed: %v", err)
	}
	if persisted, _ := p.IsDayPersisted("u1", "2025-03-02"); !persisted {
		t.Error("expected marker for empty day")
	}

	// A failed save writes nothing
	clash := []models.DailyTask{
		{ID: "fresh", ActivityID: "a1", UserID: "u1", Date: "2025-03-03", PointsEarned: 1},
		tasks[0],
	}
	if err := p.SaveDay("u1", "2025-03-03", clash); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if got, _ := p.GetDailyTasks("u1", "2025-03-03"); len(got) != 0 {
		t.Errorf("expected no tasks after failed save, got %d", len(got))
	}
	if persisted, _ := p.IsDayPersisted("u1", "2025-03-03"); persisted {
		t.Error("expected no marker after failed save")
	}
}

func testSession(t *testing.T, p storage.Provider) {
	if _, err := p.GetSession(); !errors.Is(err, storage.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}

	if err := p.SetSession("u1"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}
	if err := p.SetSession("u2"); err != nil {
		t.Fatalf("SetSession overwrite failed: %v", err)
	}
	id, err := p.GetSession()
	if err != nil || id != "u2" {
		t.Errorf("GetSession = %q, %v; want u2", id, err)
	}

	if err := p.ClearSession(); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}
	if _, err := p.GetSession(); !errors.Is(err, storage.ErrNoSession) {
		t.Errorf("expected ErrNoSession after clear, got %v", err)
	}
}

func testUnmarkedDays(t *testing.T, p storage.Provider) {
	task := func(id, date string) models.DailyTask {
		return models.DailyTask{ID: id, ActivityID: "a1", UserID: "u1", Date: date, PointsEarned: 1}
	}

	if err := p.SaveDay("u1", "2025-05-01", []models.DailyTask{task("t1", "2025-05-01")}); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	for _, tk := range []models.DailyTask{task("t2", "2025-05-02"), task("t3", "2025-05-02"), task("t4", "2025-05-03")} {
		if err := p.AddDailyTask(tk); err != nil {
			t.Fatalf("AddDailyTask failed: %v", err)
		}
	}

	n, err := p.UnmarkedDays()
	if err != nil {
		t.Fatalf("UnmarkedDays failed: %v", err)
	}
	if n != 2 {
		t.Errorf("UnmarkedDays = %d, want 2", n)
	}
}
