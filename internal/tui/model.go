package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trackpro/internal/catalog"
	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/day"
	"github.com/julianstephens/trackpro/internal/insights"
	"github.com/julianstephens/trackpro/internal/logger"
	"github.com/julianstephens/trackpro/internal/models"
	"github.com/julianstephens/trackpro/internal/session"
	"github.com/julianstephens/trackpro/internal/tui/components/activities"
	"github.com/julianstephens/trackpro/internal/tui/components/tasklist"
)

type SessionState int

const (
	StateDay SessionState = iota
	StateActivities
	StateEditPoints
	StateAddTask
	StateConfirmRemove
)

const tabCount = 2

// Deps are the services the TUI acts through. Everything runs on behalf of
// Session's user.
type Deps struct {
	Ctx      context.Context
	Session  *session.Context
	Resolver *day.Resolver
	Engine   *day.Engine
	Catalog  *catalog.Catalog
	Insights insights.Generator
	// Today returns the current date; nil means the opening date.
	Today func() string
}

type PointsFormModel struct {
	Points string
}

type AddFormModel struct {
	ActivityID string
}

type Model struct {
	deps          Deps
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	taskList      tasklist.Model
	activities    activities.Model
	form          *huh.Form
	pointsForm    *PointsFormModel
	addForm       *AddFormModel
	editingTaskID string
	removeTaskID  string

	day           *day.Day
	activityList  []models.Activity
	categories    map[string]models.Category
	categoryOrder []models.Category

	guard           *insights.Guard
	insights        *models.Insights
	insightsLoading bool

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

// insightsMsg carries the result of one guarded insight request.
type insightsMsg struct {
	ticket   insights.Ticket
	insights models.Insights
	ok       bool
}

func NewModel(deps Deps, date string) Model {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Insights == nil {
		deps.Insights = insights.Nop{}
	}
	if deps.Today == nil {
		opening := date
		deps.Today = func() string { return opening }
	}

	m := Model{
		deps:       deps,
		state:      StateDay,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		taskList:   tasklist.New(nil, 0, 0),
		activities: activities.New(0, 0),
		guard:      &insights.Guard{},
	}
	m.setDate(date)
	return m
}

// Date is the date on screen.
func (m Model) Date() string {
	if m.day == nil {
		return ""
	}
	return m.day.Date
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateDay {
		keys = append(keys, m.keys.PrevDay, m.keys.NextDay, m.keys.Toggle, m.keys.Insights)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevDay, m.keys.NextDay, m.keys.Today}

	var actions []key.Binding
	if m.state == StateDay {
		actions = []key.Binding{m.keys.Toggle, m.keys.Points, m.keys.Add, m.keys.Remove, m.keys.Insights, m.keys.Clear}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// setDate switches the viewed date. Insights belong to one date, so they
// are dropped and any request in flight is cancelled.
func (m *Model) setDate(date string) {
	m.guard.View(date)
	m.insights = nil
	m.insightsLoading = false
	m.status = ""
	m.load(date)
}

// load resolves date and refreshes every component from the store.
func (m *Model) load(date string) {
	userID := m.deps.Session.UserID()

	d, err := m.deps.Resolver.Resolve(userID, date)
	if err != nil {
		m.err = err
		logger.Error("Failed to resolve day", "date", date, "error", err)
		return
	}
	acts, err := m.deps.Catalog.Activities(userID)
	if err != nil {
		m.err = err
		return
	}
	cats, err := m.deps.Catalog.Categories(userID)
	if err != nil {
		m.err = err
		return
	}

	m.err = nil
	m.day = d
	m.activityList = acts
	m.categoryOrder = cats
	m.categories = make(map[string]models.Category, len(cats))
	for _, c := range cats {
		m.categories[c.ID] = c
	}
	m.activities.SetTemplate(cats, acts)
	m.refreshTasks()
}

// refreshTasks rebuilds the task list from the current day in display order.
func (m *Model) refreshTasks() {
	var items []tasklist.Item
	for _, g := range day.GroupByCategory(m.day.Tasks, m.activityList) {
		cat, ok := m.categories[g.CategoryID]
		if !ok {
			cat = models.Category{ID: constants.UncategorizedID, Name: "Uncategorized", Color: "240"}
		}
		for _, t := range g.Tasks {
			items = append(items, tasklist.Item{Task: t, Name: m.activityName(t.ActivityID), Category: cat})
		}
	}
	m.taskList.SetItems(items)
}

func (m Model) activityName(id string) string {
	for _, a := range m.activityList {
		if a.ID == id {
			return a.Name
		}
	}
	return "(deleted activity)"
}

func (m Model) activity(id string) (models.Activity, bool) {
	for _, a := range m.activityList {
		if a.ID == id {
			return a, true
		}
	}
	return models.Activity{}, false
}

// requestInsights starts a guarded fetch for the viewed day.
func (m *Model) requestInsights() tea.Cmd {
	if m.day == nil {
		return nil
	}
	desc, ok := insights.Describe(m.day.Tasks, m.day.Date)
	if !ok {
		m.status = "No tasks on this day, nothing to analyze."
		return nil
	}

	ctx, ticket := m.guard.Begin(m.deps.Ctx)
	m.insightsLoading = true
	m.status = ""
	gen := m.deps.Insights
	return func() tea.Msg {
		ins, ok := insights.Fetch(ctx, gen, desc)
		return insightsMsg{ticket: ticket, insights: ins, ok: ok}
	}
}
