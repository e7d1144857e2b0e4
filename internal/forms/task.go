// Package forms holds the state of the task, project and login dialogs.
// Each submit issues exactly one mutation; a failed submit keeps the form open.
package forms

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/tgienger/taskdash/internal/models"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("priority must be LOW, MEDIUM or HIGH")
	ErrUnknownAssignee = errors.New("assignee is not in the user list")
	ErrNameRequired    = errors.New("name is required")
	ErrBusy            = errors.New("already saving")
	ErrClosed          = errors.New("form is not open")
)

// TaskMutator creates or updates tasks
type TaskMutator interface {
	CreateTask(ctx context.Context, in models.TaskInput) error
	UpdateTask(ctx context.Context, id int64, in models.TaskInput) error
}

// TaskForm is the new/edit task dialog
type TaskForm struct {
	Title      string
	Priority   models.Priority
	AssigneeID int64

	open      bool
	loading   bool
	existing  *models.Task
	projectID int64
	users     []models.User
}

// Open shows the form. With a non-nil existing task the form edits that task,
// otherwise it creates a new task in projectID.
func (f *TaskForm) Open(existing *models.Task, projectID int64, users []models.User) {
	f.open = true
	f.loading = false
	f.projectID = projectID
	f.users = slices.Clone(users)
	f.existing = nil

	if existing == nil {
		f.reset()
		return
	}

	t := *existing
	f.existing = &t
	f.Title = t.Title
	f.Priority = t.Priority
	f.AssigneeID = f.defaultAssignee()
	if t.AssignedToID != nil && *t.AssignedToID != 0 {
		f.AssigneeID = *t.AssignedToID
	}
}

// Close hides the form and clears the fields
func (f *TaskForm) Close() {
	f.open = false
	f.loading = false
	f.existing = nil
	f.reset()
}

func (f *TaskForm) reset() {
	f.Title = ""
	f.Priority = models.PriorityMedium
	f.AssigneeID = f.defaultAssignee()
}

func (f *TaskForm) defaultAssignee() int64 {
	if len(f.users) == 0 {
		return 0
	}
	return f.users[0].ID
}

func (f *TaskForm) IsOpen() bool  { return f.open }
func (f *TaskForm) Loading() bool { return f.loading }
func (f *TaskForm) Editing() bool { return f.existing != nil }

// Users returns the assignee roster
func (f *TaskForm) Users() []models.User { return f.users }

// Existing returns the task being edited, or nil
func (f *TaskForm) Existing() *models.Task { return f.existing }

// ProjectID returns the project new tasks are created in
func (f *TaskForm) ProjectID() int64 { return f.projectID }

// CyclePriority moves through the closed priority selector
func (f *TaskForm) CyclePriority(dir int) {
	all := models.Priorities()
	i := slices.Index(all, f.Priority)
	if i < 0 {
		i = 1
	}
	f.Priority = all[(i+dir+len(all))%len(all)]
}

// CycleAssignee moves through the user roster
func (f *TaskForm) CycleAssignee(dir int) {
	if len(f.users) == 0 {
		return
	}
	i := slices.IndexFunc(f.users, func(u models.User) bool { return u.ID == f.AssigneeID })
	if i < 0 {
		f.AssigneeID = f.users[0].ID
		return
	}
	f.AssigneeID = f.users[(i+dir+len(f.users))%len(f.users)].ID
}

// AssigneeName returns the name of the selected assignee
func (f *TaskForm) AssigneeName() string {
	for _, u := range f.users {
		if u.ID == f.AssigneeID {
			return u.Name
		}
	}
	return ""
}

// Validate checks the form without contacting the backend
func (f *TaskForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	if !f.Priority.Valid() {
		return ErrInvalidPriority
	}
	if len(f.users) > 0 && !slices.ContainsFunc(f.users, func(u models.User) bool { return u.ID == f.AssigneeID }) {
		return ErrUnknownAssignee
	}
	return nil
}

// Input builds the request body for the current field values
func (f *TaskForm) Input() models.TaskInput {
	in := models.TaskInput{
		Title:        strings.TrimSpace(f.Title),
		Priority:     f.Priority,
		AssignedToID: f.AssigneeID,
		ProjectID:    f.projectID,
	}
	if f.existing != nil {
		in.Completed = f.existing.Completed
	}
	return in
}

// TaskRequest is one pending create, or an update of TaskID when Update is set
type TaskRequest struct {
	Update bool
	TaskID int64
	Input  models.TaskInput
}

// Send issues the request
func (r TaskRequest) Send(ctx context.Context, m TaskMutator) error {
	if r.Update {
		return m.UpdateTask(ctx, r.TaskID, r.Input)
	}
	return m.CreateTask(ctx, r.Input)
}

// Begin validates the form and marks it as saving. The returned request must
// be sent by the caller, which then reports the outcome through Finish.
func (f *TaskForm) Begin() (TaskRequest, error) {
	if !f.open {
		return TaskRequest{}, ErrClosed
	}
	if f.loading {
		return TaskRequest{}, ErrBusy
	}
	if err := f.Validate(); err != nil {
		return TaskRequest{}, err
	}

	f.loading = true
	req := TaskRequest{Input: f.Input()}
	if f.existing != nil {
		req.Update = true
		req.TaskID = f.existing.ID
	}
	return req, nil
}

// Finish records the outcome of a request started with Begin. Success closes
// and resets the form; failure clears loading and leaves it open.
func (f *TaskForm) Finish(err error) {
	f.loading = false
	if err == nil {
		f.Close()
	}
}

// Submit validates and sends exactly one create or update
func (f *TaskForm) Submit(ctx context.Context, m TaskMutator) error {
	req, err := f.Begin()
	if err != nil {
		return err
	}
	err = req.Send(ctx, m)
	f.Finish(err)
	return err
}
