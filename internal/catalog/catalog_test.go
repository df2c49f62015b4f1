package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/storage"
)

func newTestCatalog(t *testing.T) (*Catalog, *storage.JSONStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	c := New(store)
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return c, store
}

func TestCategoriesDefaultsFirst(t *testing.T) {
	c, _ := newTestCatalog(t)

	if _, err := c.AddCategory("u1", "Music", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddCategory("u2", "Other user", "#000000"); err != nil {
		t.Fatal(err)
	}

	cats, err := c.Categories("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != len(constants.DefaultCategories)+1 {
		t.Fatalf("expected %d categories, got %d", len(constants.DefaultCategories)+1, len(cats))
	}
	for i, def := range constants.DefaultCategories {
		if cats[i] != def {
			t.Errorf("category %d = %+v, want %+v", i, cats[i], def)
		}
	}
	last := cats[len(cats)-1]
	if last.Name != "Music" || last.Color != constants.Palette[0] || last.UserID != "u1" {
		t.Errorf("unexpected user category: %+v", last)
	}
}

func TestDefaultsNeverStored(t *testing.T) {
	c, store := newTestCatalog(t)
	if _, err := c.Categories("u1"); err != nil {
		t.Fatal(err)
	}
	own, _ := store.GetCategories("u1")
	if len(own) != 0 {
		t.Errorf("defaults leaked into the store: %+v", own)
	}
}

func TestAddCategoryValidation(t *testing.T) {
	c, _ := newTestCatalog(t)

	if _, err := c.AddCategory("u1", "  ", ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := c.AddCategory("u1", "X", "blue"); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
}

func TestAddActivity(t *testing.T) {
	c, _ := newTestCatalog(t)

	act, err := c.AddActivity("u1", "physical exercise", "Run", 20)
	if err != nil {
		t.Fatalf("AddActivity failed: %v", err)
	}
	want := models.Activity{ID: "id-1", UserID: "u1", CategoryID: "cat-1", Name: "Run", Points: 20}
	if act != want {
		t.Errorf("AddActivity = %+v, want %+v", act, want)
	}

	if _, err := c.AddActivity("u1", "nope", "Read", 5); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	if _, err := c.AddActivity("u1", "cat-1", "", 5); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if _, err := c.AddActivity("u1", "cat-1", "Walk", -1); !errors.Is(err, ErrNegativePoints) {
		t.Errorf("expected ErrNegativePoints, got %v", err)
	}
}

func TestOtherUsersCategoryIsUnknown(t *testing.T) {
	c, _ := newTestCatalog(t)
	cat, err := c.AddCategory("u2", "Private", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddActivity("u1", cat.ID, "Peek", 1); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestUpdateActivity(t *testing.T) {
	c, store := newTestCatalog(t)
	act, err := c.AddActivity("u1", "cat-1", "Run", 20)
	if err != nil {
		t.Fatal(err)
	}

	task := models.DailyTask{ID: "t1", ActivityID: act.ID, UserID: "u1", Date: "2025-01-01", PointsEarned: 20}
	if err := store.AddDailyTask(task); err != nil {
		t.Fatal(err)
	}

	points := 35
	name := "Long run"
	updated, err := c.UpdateActivity("u1", act.ID, ActivityEdit{Name: &name, Points: &points})
	if err != nil {
		t.Fatalf("UpdateActivity failed: %v", err)
	}
	if updated.Points != 35 || updated.Name != "Long run" || updated.CategoryID != "cat-1" {
		t.Errorf("unexpected update: %+v", updated)
	}

	tasks, _ := store.GetDailyTasks("u1", "2025-01-01")
	if tasks[0].PointsEarned != 20 {
		t.Errorf("existing task rewritten to %d points", tasks[0].PointsEarned)
	}

	if _, err := c.UpdateActivity("u2", act.ID, ActivityEdit{Points: &points}); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("expected ErrActivityNotFound for foreign user, got %v", err)
	}
}

func TestDeleteActivityKeepsHistory(t *testing.T) {
	c, store := newTestCatalog(t)
	act, err := c.AddActivity("u1", "cat-1", "Run", 20)
	if err != nil {
		t.Fatal(err)
	}
	task := models.DailyTask{ID: "t1", ActivityID: act.ID, UserID: "u1", Date: "2025-01-01", Completed: true, PointsEarned: 20}
	if err := store.AddDailyTask(task); err != nil {
		t.Fatal(err)
	}

	if err := c.DeleteActivity("u2", act.ID); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("expected ErrActivityNotFound for foreign user, got %v", err)
	}
	if err := c.DeleteActivity("u1", act.ID); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}

	acts, _ := c.Activities("u1")
	if len(acts) != 0 {
		t.Errorf("activity still listed: %+v", acts)
	}
	tasks, _ := store.GetAllDailyTasks("u1")
	if len(tasks) != 1 {
		t.Error("history deleted with activity")
	}
}

func TestFindActivityAmbiguous(t *testing.T) {
	c, _ := newTestCatalog(t)
	for i := 0; i < 2; i++ {
		if _, err := c.AddActivity("u1", "cat-1", "Run", 10); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.FindActivity("u1", "run"); !errors.Is(err, ErrAmbiguousReference) {
		t.Errorf("expected ErrAmbiguousReference, got %v", err)
	}
	if a, err := c.FindActivity("u1", "id-2"); err != nil || a.ID != "id-2" {
		t.Errorf("FindActivity by id = %+v, %v", a, err)
	}
}

func TestIsHexColor(t *testing.T) {
	for s, want := range map[string]bool{
		"#3b82f6": true,
		"#ABCDEF": true,
		"3b82f6":  false,
		"#3b82f":  false,
		"#3b82fg": false,
	} {
		if got := IsHexColor(s); got != want {
			t.Errorf("IsHexColor(%q) = %v, want %v", s, got, want)
		}
	}
}
