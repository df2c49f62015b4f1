package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trackpro/internal/catalog"
	"github.com/julianstephens/trackpro/internal/models"
)

func NewPointsForm(fm *PointsFormModel, name string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Points for " + name).
				Value(&fm.Points).
				Validate(validatePoints),
		),
	).WithShowHelp(true)
}

func validatePoints(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("points must be a whole number")
	}
	if n < 0 {
		return catalog.ErrNegativePoints
	}
	return nil
}

func NewAddTaskForm(fm *AddFormModel, acts []models.Activity, categories map[string]models.Category) *huh.Form {
	options := make([]huh.Option[string], 0, len(acts))
	for _, a := range acts {
		label := fmt.Sprintf("%s (%d pts)", a.Name, a.Points)
		if c, ok := categories[a.CategoryID]; ok {
			label = fmt.Sprintf("%s · %s (%d pts)", a.Name, c.Name, a.Points)
		}
		options = append(options, huh.NewOption(label, a.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Add a task for this day").
				Options(options...).
				Value(&fm.ActivityID),
		),
	).WithShowHelp(true)
}

// updateForm feeds msg to the active form. It reports done once the form
// left its normal state; Esc counts as an abort.
func (m *Model) updateForm(msg tea.Msg) (tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.form.State = huh.StateAborted
		return nil, true
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return cmd, m.form.State != huh.StateNormal
}

func (m *Model) closeForm() {
	m.form = nil
	m.pointsForm = nil
	m.addForm = nil
	m.editingTaskID = ""
	m.state = m.previousState
}

func (m *Model) handleEditPointsState(msg tea.Msg) tea.Cmd {
	cmd, done := m.updateForm(msg)
	if !done {
		return cmd
	}

	if m.form.State == huh.StateCompleted {
		points, err := strconv.Atoi(strings.TrimSpace(m.pointsForm.Points))
		if err == nil {
			if _, err := m.deps.Engine.UpdatePoints(m.day, m.editingTaskID, points); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.refreshTasks()
			}
		}
	}
	m.closeForm()
	return cmd
}

func (m *Model) handleAddTaskState(msg tea.Msg) tea.Cmd {
	cmd, done := m.updateForm(msg)
	if !done {
		return cmd
	}

	if m.form.State == huh.StateCompleted {
		if a, ok := m.activity(m.addForm.ActivityID); ok {
			duplicate := m.day.HasActivity(a.ID)
			if _, err := m.deps.Engine.AddOverrideTask(m.day, a); err != nil {
				m.err = err
			} else {
				m.err = nil
				m.status = "Added " + a.Name
				if duplicate {
					m.status += " (already on this day)"
				}
				m.refreshTasks()
			}
		}
	}
	m.closeForm()
	return cmd
}

func (m *Model) handleConfirmRemoveState(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		if _, err := m.deps.Engine.RemoveTask(m.day, m.removeTaskID); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.refreshTasks()
		}
		m.removeTaskID = ""
		m.state = m.previousState
	case "n", "N", "esc":
		m.removeTaskID = ""
		m.state = m.previousState
	}
	return nil
}
