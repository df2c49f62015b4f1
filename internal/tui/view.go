package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trackpro/internal/constants"
	"github.com/julianstephens/trackpro/internal/day"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDay:
		content = m.viewDay()
	case StateActivities:
		content = docStyle.Render(m.activities.View())
	case StateEditPoints, StateAddTask:
		content = docStyle.Render(m.form.View())
	case StateConfirmRemove:
		content = m.viewConfirmRemove()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Day", "Activities"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDay() string {
	if m.day == nil {
		return docStyle.Render("Nothing to show.")
	}

	header := m.day.Date
	if t, err := time.Parse(constants.DateFormat, m.day.Date); err == nil {
		header = t.Format("Monday, January 2 2006")
	}
	line := dateStyle.Render("‹ " + header + " ›")
	if m.day.Virtual {
		line += mutedStyle.Render(" (from template)")
	}

	parts := []string{line, m.taskList.View(), m.viewSummary()}
	if panel := m.viewInsights(); panel != "" {
		parts = append(parts, panel)
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewSummary() string {
	s := day.Summarize(m.day.Tasks)
	width := 24
	filled := s.Percent * width / 100
	bar := doneStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%  %d/%d tasks  %d/%d pts", bar, s.Percent, s.Completed, s.Total, s.Earned, s.Possible)
}

func (m Model) viewInsights() string {
	switch {
	case m.insightsLoading:
		return mutedStyle.Render("Asking for insights...")
	case m.insights == nil:
		return ""
	}

	var b strings.Builder
	b.WriteString(m.insights.Summary)
	for _, tip := range m.insights.Tips {
		b.WriteString("\n• " + tip)
	}
	return insightsStyle.Width(max(m.width-8, 20)).Render(b.String())
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return warningStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewConfirmRemove() string {
	name := "this task"
	if t, ok := m.day.Task(m.removeTaskID); ok {
		name = m.activityName(t.ActivityID)
	}
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Remove %s from %s?", name, m.day.Date)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
