package views

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/forms"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

// ProjectModal is the new project dialog
type ProjectModal struct {
	form     forms.ProjectForm
	name     textinput.Model
	focusIdx int // 0=name, 1=create
	err      string
	styles   *styles.Styles
	keys     keys.KeyMap
}

func NewProjectModal(s *styles.Styles, k keys.KeyMap) *ProjectModal {
	name := textinput.New()
	name.Placeholder = "Project name"
	name.CharLimit = 100

	return &ProjectModal{name: name, styles: s, keys: k}
}

func (m *ProjectModal) Open() tea.Cmd {
	m.form.Open()
	m.name.Reset()
	m.name.Focus()
	m.focusIdx = 0
	m.err = ""
	return textinput.Blink
}

func (m *ProjectModal) IsOpen() bool { return m.form.IsOpen() }

func (m *ProjectModal) Finish(err error) {
	m.form.Finish(err)
	if err != nil {
		m.err = "Could not create the project. Try again."
		return
	}
	m.name.Reset()
	m.name.Blur()
	m.err = ""
}

func (m *ProjectModal) submit() tea.Cmd {
	m.form.Name = m.name.Value()
	in, err := m.form.Begin()
	if err != nil {
		if !errors.Is(err, forms.ErrBusy) {
			m.err = err.Error()
		}
		return nil
	}
	m.err = ""
	return send(SaveProject{Input: in})
}

func (m *ProjectModal) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		if !m.form.Loading() {
			m.form.Close()
			m.name.Blur()
		}
		return nil

	case key.Matches(msg, m.keys.Save):
		return m.submit()

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		m.focusIdx = 1 - m.focusIdx
		if m.focusIdx == 0 {
			m.name.Focus()
		} else {
			m.name.Blur()
		}
		return nil

	case key.Matches(msg, m.keys.Enter):
		return m.submit()
	}

	if m.focusIdx == 0 {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return cmd
	}
	return nil
}

func (m *ProjectModal) View(width int) string {
	s := m.styles
	inputWidth := clamp(styles.ContentWidth(width)-10, 20, 50)

	nameStyle := s.InputFocused
	btnStyle := s.Button
	if m.focusIdx == 1 {
		nameStyle = s.Input
		btnStyle = s.ButtonFocused
	}

	button := " Create "
	if m.form.Loading() {
		button = " Creating... "
	}

	rows := []string{
		s.Title.Render("New Project"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(m.name.View()),
		"",
		btnStyle.Render(button),
	}
	if m.err != "" {
		rows = append(rows, "", s.StatusError.Render(m.err))
	}
	rows = append(rows, "", s.TitleMuted.Render("Enter/Ctrl+S: create • Esc: cancel"))

	return s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
