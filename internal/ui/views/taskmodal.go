package views

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/forms"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

const (
	taskFieldTitle = iota
	taskFieldPriority
	taskFieldAssignee
	taskFieldSave
	taskFieldCount
)

// titleCharLimit caps typing only; a longer stored title is never cut
const titleCharLimit = 200

// TaskModal is the new/edit task dialog
type TaskModal struct {
	form     forms.TaskForm
	title    textinput.Model
	focusIdx int
	err      string
	styles   *styles.Styles
	keys     keys.KeyMap
}

func NewTaskModal(s *styles.Styles, k keys.KeyMap) *TaskModal {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = titleCharLimit

	return &TaskModal{title: title, styles: s, keys: k}
}

// Open shows the dialog, pre-filled from existing when editing
func (m *TaskModal) Open(existing *models.Task, projectID int64, users []models.User) tea.Cmd {
	m.form.Open(existing, projectID, users)
	m.title.CharLimit = max(titleCharLimit, utf8.RuneCountInString(m.form.Title))
	m.title.SetValue(m.form.Title)
	m.title.CursorEnd()
	m.err = ""
	m.focusIdx = taskFieldTitle
	m.updateFocus()
	return textinput.Blink
}

func (m *TaskModal) IsOpen() bool { return m.form.IsOpen() }

// Form exposes the underlying form state
func (m *TaskModal) Form() *forms.TaskForm { return &m.form }

func (m *TaskModal) close() {
	m.form.Close()
	m.title.Reset()
	m.title.Blur()
	m.err = ""
}

// Finish applies the outcome of a save
func (m *TaskModal) Finish(err error) {
	m.form.Finish(err)
	if err != nil {
		m.err = "Could not save the task. Try again."
		return
	}
	m.title.Reset()
	m.title.Blur()
	m.err = ""
}

func (m *TaskModal) submit() tea.Cmd {
	m.form.Title = m.title.Value()
	req, err := m.form.Begin()
	if err != nil {
		if !errors.Is(err, forms.ErrBusy) {
			m.err = err.Error()
		}
		return nil
	}
	m.err = ""
	return send(SaveTask{Request: req})
}

func (m *TaskModal) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		if !m.form.Loading() {
			m.close()
		}
		return nil

	case key.Matches(msg, m.keys.Save):
		return m.submit()

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Down) && m.focusIdx != taskFieldTitle:
		m.focusIdx = (m.focusIdx + 1) % taskFieldCount
		m.updateFocus()
		return nil

	case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Up) && m.focusIdx != taskFieldTitle:
		m.focusIdx = (m.focusIdx + taskFieldCount - 1) % taskFieldCount
		m.updateFocus()
		return nil

	case key.Matches(msg, m.keys.Enter):
		if m.focusIdx == taskFieldSave {
			return m.submit()
		}
		m.focusIdx++
		m.updateFocus()
		return nil
	}

	switch m.focusIdx {
	case taskFieldTitle:
		var cmd tea.Cmd
		m.title, cmd = m.title.Update(msg)
		return cmd
	case taskFieldPriority:
		if key.Matches(msg, m.keys.Left) {
			m.form.CyclePriority(-1)
		} else if key.Matches(msg, m.keys.Right) || msg.String() == " " {
			m.form.CyclePriority(1)
		}
	case taskFieldAssignee:
		if key.Matches(msg, m.keys.Left) {
			m.form.CycleAssignee(-1)
		} else if key.Matches(msg, m.keys.Right) || msg.String() == " " {
			m.form.CycleAssignee(1)
		}
	}
	return nil
}

func (m *TaskModal) updateFocus() {
	m.title.Blur()
	if m.focusIdx == taskFieldTitle {
		m.title.Focus()
	}
}

func (m *TaskModal) View(width int) string {
	s := m.styles
	contentWidth := styles.ContentWidth(width)
	inputWidth := clamp(contentWidth-10, 20, 50)

	heading := "Add New Task"
	button := " Create Task "
	if m.form.Editing() {
		heading = "Update Task"
		button = " Update Task "
	}
	if m.form.Loading() {
		button = " Saving... "
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if m.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if m.focusIdx == taskFieldSave {
		btnStyle = s.ButtonFocused
	}

	assignee := m.form.AssigneeName()
	if assignee == "" {
		assignee = s.TitleMuted.Render("nobody")
	}

	rows := []string{
		s.Title.Render(heading),
		"",
		"Task Title:",
		fieldStyle(taskFieldTitle).Width(inputWidth).Render(m.title.View()),
		"",
		"Priority:",
		fieldStyle(taskFieldPriority).Width(inputWidth).Render(m.renderPriorities()),
		"",
		"Assign to:",
		fieldStyle(taskFieldAssignee).Width(inputWidth).Render("‹ " + assignee + " ›"),
		"",
		btnStyle.Render(button),
	}
	if m.err != "" {
		rows = append(rows, "", s.StatusError.Render(m.err))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ←→: change • Ctrl+S: save • Esc: cancel"))

	return s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *TaskModal) renderPriorities() string {
	var out string
	for i, p := range models.Priorities() {
		if i > 0 {
			out += " "
		}
		label := fmt.Sprintf(" %s ", p)
		if p == m.form.Priority {
			out += m.styles.ChipActive.Render(label)
		} else {
			out += m.styles.Chip.Render(label)
		}
	}
	return out
}
