package social

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/session"
	"github.com/julianstephens/trackpro/internal/storage"
)

const today = "2025-03-12" // a Wednesday

func done(userID, date string, points int) models.DailyTask {
	return models.DailyTask{ID: userID + date, UserID: userID, Date: date, Completed: true, PointsEarned: points}
}

func open(userID, date string, points int) models.DailyTask {
	return models.DailyTask{ID: userID + date + "-open", UserID: userID, Date: date, PointsEarned: points}
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name  string
		tasks []models.DailyTask
		want  int
	}{
		{"three days", []models.DailyTask{done("u", "2025-03-12", 1), done("u", "2025-03-11", 1), done("u", "2025-03-10", 1)}, 3},
		{"today missing", []models.DailyTask{done("u", "2025-03-11", 1)}, 0},
		{"gap stops the scan", []models.DailyTask{done("u", "2025-03-12", 1), done("u", "2025-03-10", 1)}, 1},
		{"incomplete tasks do not count", []models.DailyTask{done("u", "2025-03-12", 1), open("u", "2025-03-11", 5)}, 1},
		{"several completions on one day count once", []models.DailyTask{done("u", "2025-03-12", 1), {ID: "x", Date: "2025-03-12", Completed: true}}, 1},
		{"across a month boundary", []models.DailyTask{done("u", "2025-03-01", 1), done("u", "2025-02-28", 1)}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.tasks, today); got != tt.want {
				t.Errorf("Streak = %d, want %d", got, tt.want)
			}
		})
	}

	if got := Streak([]models.DailyTask{done("u", "2025-03-01", 1), done("u", "2025-02-28", 1)}, "2025-03-01"); got != 2 {
		t.Errorf("month boundary streak = %d, want 2", got)
	}
}

func TestLifetimePoints(t *testing.T) {
	tasks := []models.DailyTask{
		done("u", "2024-01-01", 20),
		open("u", "2024-01-01", 500),
		done("u", "2025-03-12", 15),
	}
	if got := LifetimePoints(tasks); got != 35 {
		t.Errorf("LifetimePoints = %d, want 35", got)
	}
}

func TestWeekSeries(t *testing.T) {
	self := []models.DailyTask{done("a", "2025-03-12", 20), done("a", "2025-03-06", 5), done("a", "2025-03-05", 99)}
	friend := []models.DailyTask{done("b", "2025-03-10", 7), open("b", "2025-03-12", 30)}

	got, err := WeekSeries(self, friend, today)
	if err != nil {
		t.Fatal(err)
	}
	want := []DayPoints{
		{Date: "2025-03-06", Label: "Thu", Self: 5},
		{Date: "2025-03-07", Label: "Fri"},
		{Date: "2025-03-08", Label: "Sat"},
		{Date: "2025-03-09", Label: "Sun"},
		{Date: "2025-03-10", Label: "Mon", Friend: 7},
		{Date: "2025-03-11", Label: "Tue"},
		{Date: "2025-03-12", Label: "Wed", Self: 20},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WeekSeries mismatch (-want +got):\n%s", diff)
	}
}

type fixture struct {
	store    *storage.JSONStore
	service  *Service
	sessions *session.Manager
	me       *session.Context
	bob      models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	alice := models.User{ID: "alice", ShareID: "AAAA2222", Email: "a@example.com", Friends: []string{}, IsSharingEnabled: true}
	bob := models.User{ID: "bob", ShareID: "BBBB3333", Email: "b@example.com", Friends: []string{}, IsSharingEnabled: true}
	for _, u := range []models.User{alice, bob} {
		if err := store.AddUser(u); err != nil {
			t.Fatal(err)
		}
	}

	sessions := session.NewManager(store)
	me, err := sessions.Start(alice)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{store: store, service: NewService(store, sessions), sessions: sessions, me: me, bob: bob}
}

func TestAddFriend(t *testing.T) {
	f := newFixture(t)

	friend, err := f.service.AddFriend(f.me, "  bbbb3333 ")
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if friend.ID != "bob" {
		t.Errorf("added %s, want bob", friend.ID)
	}
	if !f.me.User.HasFriend("BBBB3333") {
		t.Error("session copy not refreshed")
	}
	stored, _ := f.store.GetUser("alice")
	if !stored.HasFriend("BBBB3333") {
		t.Error("friend not persisted")
	}
}

func TestAddFriendErrors(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.AddFriend(f.me, "aaaa2222"); !errors.Is(err, ErrSelfAdd) {
		t.Errorf("expected ErrSelfAdd, got %v", err)
	}
	if _, err := f.service.AddFriend(f.me, "ZZZZ9999"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.service.AddFriend(f.me, "BBBB3333"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.AddFriend(f.me, "BBBB3333"); !errors.Is(err, ErrAlreadyFriend) {
		t.Errorf("expected ErrAlreadyFriend, got %v", err)
	}
}

func TestRemoveFriendIsIdempotent(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.AddFriend(f.me, "BBBB3333"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := f.service.RemoveFriend(f.me, "bbbb3333"); err != nil {
			t.Fatalf("RemoveFriend #%d failed: %v", i, err)
		}
	}
	if f.me.User.HasFriend("BBBB3333") {
		t.Error("friend still present")
	}
}

func TestFriends(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.AddFriend(f.me, "BBBB3333"); err != nil {
		t.Fatal(err)
	}
	// A friend code whose account disappeared is still listed
	me := f.me.User
	me.Friends = append(me.Friends, "GONE4444")
	if err := f.sessions.Update(me); err != nil {
		t.Fatal(err)
	}

	friends, err := f.service.Friends(f.me)
	if err != nil {
		t.Fatal(err)
	}
	if len(friends) != 2 || !friends[0].Found || friends[0].User.ID != "bob" || friends[1].Found {
		t.Errorf("unexpected friends: %+v", friends)
	}
}

func TestCompare(t *testing.T) {
	f := newFixture(t)
	if _, err := f.service.AddFriend(f.me, "BBBB3333"); err != nil {
		t.Fatal(err)
	}
	for _, task := range []models.DailyTask{
		done("alice", "2025-03-12", 30),
		done("alice", "2025-03-11", 10),
		done("bob", "2025-03-12", 15),
		open("bob", "2025-03-11", 100),
	} {
		if err := f.store.AddDailyTask(task); err != nil {
			t.Fatal(err)
		}
	}

	c, err := f.service.Compare(f.me, "bbbb3333", today)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if c.Self.Lifetime != 40 || c.Friend.Lifetime != 15 || c.Difference != 25 {
		t.Errorf("unexpected totals: self=%d friend=%d diff=%d", c.Self.Lifetime, c.Friend.Lifetime, c.Difference)
	}
	if c.Self.Streak != 2 || c.Friend.Streak != 1 {
		t.Errorf("unexpected streaks: self=%d friend=%d", c.Self.Streak, c.Friend.Streak)
	}
	if len(c.Series) != 7 || c.Series[6].Self != 30 || c.Series[6].Friend != 15 {
		t.Errorf("unexpected series tail: %+v", c.Series)
	}
}

func TestCompareGates(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.Compare(f.me, "BBBB3333", today); !errors.Is(err, ErrNotFriend) {
		t.Errorf("expected ErrNotFriend, got %v", err)
	}

	if _, err := f.service.AddFriend(f.me, "BBBB3333"); err != nil {
		t.Fatal(err)
	}
	bob := f.bob
	bob.IsSharingEnabled = false
	if err := f.store.UpdateUser(bob); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Compare(f.me, "BBBB3333", today); !errors.Is(err, ErrSharingDisabled) {
		t.Errorf("expected ErrSharingDisabled, got %v", err)
	}
}

func TestSetSharing(t *testing.T) {
	f := newFixture(t)
	if err := f.service.SetSharing(f.me, false); err != nil {
		t.Fatal(err)
	}
	stored, _ := f.store.GetUser("alice")
	if stored.IsSharingEnabled || f.me.User.IsSharingEnabled {
		t.Error("sharing still enabled")
	}
}
