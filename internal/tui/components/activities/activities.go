package activities

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trackpro/internal/models"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(28)

	pointsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// Model shows the activity template grouped by category.
type Model struct {
	viewport   viewport.Model
	Categories []models.Category
	Activities []models.Activity
	width      int
	height     int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.Activities) == 0 {
		return "No activities yet. Add one with 'trackpro activity add'."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetTemplate(categories []models.Category, activities []models.Activity) {
	m.Categories = categories
	m.Activities = activities
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	for _, cat := range m.Categories {
		header := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Bold(true).Render("● " + cat.Name)
		wrote := false
		for _, a := range m.Activities {
			if a.CategoryID != cat.ID {
				continue
			}
			if !wrote {
				b.WriteString(header + "\n")
				wrote = true
			}
			fmt.Fprintf(&b, "  %s %s\n", nameStyle.Render(a.Name), pointsStyle.Render(fmt.Sprintf("%d pts", a.Points)))
		}
	}
	m.viewport.SetContent(b.String())
}
