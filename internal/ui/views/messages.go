package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskdash/internal/forms"
	"github.com/tgienger/taskdash/internal/models"
)

// Requests emitted by the views. The App performs them and refreshes.

// ToggleTaskStatus asks to flip a task's completed flag. Completed is the
// value currently shown.
type ToggleTaskStatus struct {
	TaskID    int64
	Completed bool
}

// DeleteTask asks to delete a task
type DeleteTask struct {
	TaskID int64
}

// DeleteProject asks to delete a project. Confirmed carries the user's answer
// to the confirmation dialog.
type DeleteProject struct {
	ProjectID int64
	Confirmed bool
}

// SaveTask asks to send a create or update from the task dialog
type SaveTask struct {
	Request forms.TaskRequest
}

// TaskSaved reports the outcome of a SaveTask back to the dialog
type TaskSaved struct {
	Err error
}

// SaveProject asks to create a project
type SaveProject struct {
	Input models.ProjectInput
}

// ProjectSaved reports the outcome of a SaveProject back to the dialog
type ProjectSaved struct {
	Err error
}

// LoginRequest asks to log in
type LoginRequest struct {
	Credentials forms.Credentials
}

// LoginResult reports the outcome of a LoginRequest
type LoginResult struct {
	Err error
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// send wraps msg in a command
func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
