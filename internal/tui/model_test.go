package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/trackpro/internal/catalog"
	"github.com/julianstephens/trackpro/internal/day"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/session"
	"github.com/julianstephens/trackpro/internal/storage"
	"github.com/julianstephens/trackpro/internal/tui/components/tasklist"
)

const testDate = "2025-05-14"

type fixedGenerator struct {
	insights models.Insights
}

func (g fixedGenerator) Generate(context.Context, string) (models.Insights, error) {
	return g.insights, nil
}

func setupModel(t *testing.T, gen fixedGenerator) (Model, *storage.JSONStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	user := models.User{ID: "u1", ShareID: "AAAAAAAA", Username: "u1", Email: "u1@example.com", Friends: []string{}}
	if err := store.AddUser(user); err != nil {
		t.Fatal(err)
	}
	for _, a := range []models.Activity{
		{ID: "a1", UserID: "u1", CategoryID: "cat-1", Name: "Run", Points: 10},
		{ID: "a2", UserID: "u1", CategoryID: "cat-3", Name: "Meditate", Points: 5},
	} {
		if err := store.AddActivity(a); err != nil {
			t.Fatal(err)
		}
	}

	m := NewModel(Deps{
		Session:  &session.Context{User: user},
		Resolver: day.NewResolver(store),
		Engine:   day.NewEngine(store, &day.SequenceGenerator{Prefix: "t"}),
		Catalog:  catalog.New(store),
		Insights: gen,
	}, testDate)
	return m, store
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelShowsVirtualDay(t *testing.T) {
	m, store := setupModel(t, fixedGenerator{})

	if m.Date() != testDate {
		t.Errorf("Date() = %q, want %q", m.Date(), testDate)
	}
	if !m.day.Virtual {
		t.Error("expected a virtual day")
	}
	if len(m.day.Tasks) != 2 {
		t.Errorf("expected 2 tasks from the template, got %d", len(m.day.Tasks))
	}

	persisted, err := store.IsDayPersisted("u1", testDate)
	if err != nil {
		t.Fatal(err)
	}
	if persisted {
		t.Error("opening the TUI must not persist the day")
	}
}

func TestToggleTaskPromotesDay(t *testing.T) {
	m, store := setupModel(t, fixedGenerator{})
	id := day.VirtualTaskID(testDate, "a1")

	m, _ = send(t, m, tasklist.ToggleTaskMsg{ID: id})

	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.day.Virtual {
		t.Error("expected the day to be persisted after a toggle")
	}

	tasks, err := store.GetDailyTasks("u1", testDate)
	if err != nil {
		t.Fatal(err)
	}
	var completed []string
	for _, task := range tasks {
		if task.Completed {
			completed = append(completed, task.ActivityID)
		}
	}
	if diff := cmp.Diff([]string{"a1"}, completed); diff != "" {
		t.Errorf("completed activities mismatch (-want +got):\n%s", diff)
	}
	if m.status == "" {
		t.Error("expected a completion status line")
	}
}

func TestRemoveTaskNeedsConfirmation(t *testing.T) {
	m, store := setupModel(t, fixedGenerator{})
	id := day.VirtualTaskID(testDate, "a2")

	m, _ = send(t, m, tasklist.RemoveTaskMsg{ID: id})
	if m.state != StateConfirmRemove {
		t.Fatalf("state = %v, want StateConfirmRemove", m.state)
	}

	m, _ = send(t, m, keyPress("n"))
	if m.state != StateDay || len(m.day.Tasks) != 2 {
		t.Fatalf("declining must keep the task, state=%v tasks=%d", m.state, len(m.day.Tasks))
	}

	m, _ = send(t, m, tasklist.RemoveTaskMsg{ID: id})
	m, _ = send(t, m, keyPress("y"))
	if len(m.day.Tasks) != 1 {
		t.Fatalf("expected 1 task after removal, got %d", len(m.day.Tasks))
	}

	persisted, err := store.IsDayPersisted("u1", testDate)
	if err != nil {
		t.Fatal(err)
	}
	if !persisted {
		t.Error("removal should persist the day")
	}
}

func TestShiftDate(t *testing.T) {
	m, _ := setupModel(t, fixedGenerator{})

	m, _ = send(t, m, keyPress("h"))
	if m.Date() != "2025-05-13" {
		t.Errorf("after h, Date() = %q, want 2025-05-13", m.Date())
	}

	m, _ = send(t, m, keyPress("l"))
	m, _ = send(t, m, keyPress("l"))
	if m.Date() != "2025-05-15" {
		t.Errorf("after l l, Date() = %q, want 2025-05-15", m.Date())
	}

	m, _ = send(t, m, keyPress("t"))
	if m.Date() != testDate {
		t.Errorf("after t, Date() = %q, want %q", m.Date(), testDate)
	}
}

func TestInsightsAreAccepted(t *testing.T) {
	want := models.Insights{Summary: "Solid start.", Tips: []string{"Keep going"}}
	m, _ := setupModel(t, fixedGenerator{insights: want})

	m, cmd := send(t, m, keyPress("i"))
	if cmd == nil {
		t.Fatal("expected an insight request")
	}
	if !m.insightsLoading {
		t.Error("expected the loading state")
	}

	m, _ = send(t, m, cmd())
	if m.insightsLoading {
		t.Error("loading should end once the result arrives")
	}
	if m.insights == nil {
		t.Fatal("expected insights")
	}
	if diff := cmp.Diff(want, *m.insights); diff != "" {
		t.Errorf("insights mismatch (-want +got):\n%s", diff)
	}

	m, _ = send(t, m, keyPress("x"))
	if m.insights != nil {
		t.Error("x should clear insights")
	}
}

func TestInsightsForPreviousDateAreDropped(t *testing.T) {
	m, _ := setupModel(t, fixedGenerator{insights: models.Insights{Summary: "Late answer."}})

	m, cmd := send(t, m, keyPress("i"))
	if cmd == nil {
		t.Fatal("expected an insight request")
	}
	m, _ = send(t, m, keyPress("l"))

	m, _ = send(t, m, cmd())
	if m.insights != nil {
		t.Errorf("stale insights were shown: %+v", m.insights)
	}
}

func TestClearDropsPendingInsights(t *testing.T) {
	m, _ := setupModel(t, fixedGenerator{insights: models.Insights{Summary: "Late answer."}})

	m, cmd := send(t, m, keyPress("i"))
	if cmd == nil {
		t.Fatal("expected an insight request")
	}
	m, _ = send(t, m, keyPress("x"))
	if m.insightsLoading {
		t.Error("x should end the loading state")
	}

	m, _ = send(t, m, cmd())
	if m.insights != nil {
		t.Errorf("cleared request still shown: %+v", m.insights)
	}
}

func TestInsightsUnavailable(t *testing.T) {
	m, _ := setupModel(t, fixedGenerator{})

	m, cmd := send(t, m, keyPress("i"))
	if cmd == nil {
		t.Fatal("expected an insight request")
	}
	m, _ = send(t, m, cmd())
	if m.insights != nil {
		t.Error("empty answer should not produce insights")
	}
	if m.status != "Insights unavailable right now." {
		t.Errorf("status = %q", m.status)
	}
}

func TestTabSwitching(t *testing.T) {
	m, _ := setupModel(t, fixedGenerator{})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateActivities {
		t.Errorf("state = %v, want StateActivities", m.state)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateDay {
		t.Errorf("state = %v, want StateDay", m.state)
	}
}
