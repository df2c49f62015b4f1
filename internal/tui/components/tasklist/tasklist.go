package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trackpro/internal/models"
)

type ToggleTaskMsg struct {
	ID string
}

type RemoveTaskMsg struct {
	ID string
}

type EditPointsMsg struct {
	Task models.DailyTask
}

type AddTaskMsg struct{}

type Item struct {
	Task     models.DailyTask
	Name     string
	Category models.Category
}

func (i Item) Title() string {
	if i.Task.Completed {
		return "✓ " + i.Name
	}
	return "○ " + i.Name
}

func (i Item) Description() string {
	cat := lipgloss.NewStyle().Foreground(lipgloss.Color(i.Category.Color)).Render(i.Category.Name)
	return fmt.Sprintf("%d pts | %s", i.Task.PointsEarned, cat)
}

func (i Item) FilterValue() string { return i.Name }

type KeyMap struct {
	Toggle key.Binding
	Points key.Binding
	Add    key.Binding
	Remove key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Points: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "points"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Points, keys.Add, keys.Remove}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// SetItems replaces the list and keeps the cursor in range.
func (m *Model) SetItems(items []Item) {
	index := m.list.Index()
	m.list.SetItems(toListItems(items))
	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		m.list.Select(index)
	}
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTaskMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleTaskMsg{ID: i.Task.ID} }
			}
		case key.Matches(msg, m.keys.Points):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditPointsMsg{Task: i.Task} }
			}
		case key.Matches(msg, m.keys.Remove):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return RemoveTaskMsg{ID: i.Task.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No tasks for this day.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
