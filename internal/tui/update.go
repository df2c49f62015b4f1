package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/trackpro/internal/tui/components/tasklist"
	"github.com/julianstephens/trackpro/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		// tabs, date line, summary and help
		m.taskList.SetSize(msg.Width-h, msg.Height-v-8)
		m.activities.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case insightsMsg:
		if !m.guard.Accept(msg.ticket) {
			return m, nil
		}
		m.insightsLoading = false
		if !msg.ok {
			m.insights = nil
			m.status = "Insights unavailable right now."
			return m, nil
		}
		ins := msg.insights
		m.insights = &ins
		return m, nil
	}

	switch m.state {
	case StateEditPoints:
		return m, m.handleEditPointsState(msg)
	case StateAddTask:
		return m, m.handleAddTaskState(msg)
	case StateConfirmRemove:
		return m, m.handleConfirmRemoveState(msg)
	}

	if handled, cmd := m.handleTaskMessages(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			m.shiftDate(-1)
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			m.shiftDate(1)
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.setDate(m.deps.Today())
			return m, nil
		}

		if m.state == StateDay {
			switch {
			case key.Matches(msg, m.keys.Insights):
				return m, m.requestInsights()
			case key.Matches(msg, m.keys.Clear):
				m.guard.Cancel()
				m.insights = nil
				m.insightsLoading = false
				m.status = ""
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateDay:
		m.taskList, cmd = m.taskList.Update(msg)
	case StateActivities:
		m.activities, cmd = m.activities.Update(msg)
	}
	return m, cmd
}

func (m *Model) shiftDate(days int) {
	if m.day == nil {
		return
	}
	next, err := utils.ShiftDate(m.day.Date, days)
	if err != nil {
		m.err = err
		return
	}
	m.setDate(next)
}

// handleTaskMessages applies the actions raised by the task list.
func (m *Model) handleTaskMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tasklist.ToggleTaskMsg:
		res, err := m.deps.Engine.ToggleCompletion(m.day, msg.ID)
		if err != nil {
			m.err = err
			return true, nil
		}
		if res.BecameCompleted {
			m.status = fmt.Sprintf("Completed %s (+%d pts)", m.activityName(res.Task.ActivityID), res.Task.PointsEarned)
		} else {
			m.status = ""
		}
		m.err = nil
		m.refreshTasks()
		return true, nil

	case tasklist.EditPointsMsg:
		m.editingTaskID = msg.Task.ID
		m.pointsForm = &PointsFormModel{Points: fmt.Sprint(msg.Task.PointsEarned)}
		m.form = NewPointsForm(m.pointsForm, m.activityName(msg.Task.ActivityID))
		m.previousState = m.state
		m.state = StateEditPoints
		return true, m.form.Init()

	case tasklist.AddTaskMsg:
		if len(m.activityList) == 0 {
			m.status = "No activities to add. Create one with 'trackpro activity add'."
			return true, nil
		}
		m.addForm = &AddFormModel{}
		m.form = NewAddTaskForm(m.addForm, m.activityList, m.categories)
		m.previousState = m.state
		m.state = StateAddTask
		return true, m.form.Init()

	case tasklist.RemoveTaskMsg:
		m.removeTaskID = msg.ID
		m.previousState = m.state
		m.state = StateConfirmRemove
		return true, nil
	}
	return false, nil
}
