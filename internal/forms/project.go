package forms

import (
	"context"
	"strings"

	"github.com/tgienger/taskdash/internal/models"
)

// ProjectCreator creates projects
type ProjectCreator interface {
	CreateProject(ctx context.Context, in models.ProjectInput) error
}

// ProjectForm is the new project dialog
type ProjectForm struct {
	Name string

	open    bool
	loading bool
}

func (f *ProjectForm) Open() {
	f.open = true
	f.loading = false
	f.Name = ""
}

func (f *ProjectForm) Close() {
	f.open = false
	f.loading = false
	f.Name = ""
}

func (f *ProjectForm) IsOpen() bool  { return f.open }
func (f *ProjectForm) Loading() bool { return f.loading }

// Begin validates and marks the form as saving
func (f *ProjectForm) Begin() (models.ProjectInput, error) {
	if !f.open {
		return models.ProjectInput{}, ErrClosed
	}
	if f.loading {
		return models.ProjectInput{}, ErrBusy
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return models.ProjectInput{}, ErrNameRequired
	}
	f.loading = true
	return models.ProjectInput{Name: name}, nil
}

// Finish records the outcome of a request started with Begin
func (f *ProjectForm) Finish(err error) {
	f.loading = false
	if err == nil {
		f.Close()
	}
}

// Submit validates and creates the project
func (f *ProjectForm) Submit(ctx context.Context, c ProjectCreator) error {
	in, err := f.Begin()
	if err != nil {
		return err
	}
	err = c.CreateProject(ctx, in)
	f.Finish(err)
	return err
}
