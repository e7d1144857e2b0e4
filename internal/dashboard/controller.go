// Package dashboard holds the canonical dashboard state and keeps it in sync
// with the backend: every mutation is followed by a full refetch.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/tgienger/taskdash/internal/api"
	"github.com/tgienger/taskdash/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoSession means there is no usable token; the user must log in
	ErrNoSession = errors.New("no active session")
	// ErrNotConfirmed is returned when a destructive action was declined
	ErrNotConfirmed = errors.New("not confirmed")
	// ErrRefreshFailed means a mutation was applied but the refetch after it failed
	ErrRefreshFailed = errors.New("refresh after mutation failed")
)

// DeleteProjectPrompt is shown before a project is deleted
const DeleteProjectPrompt = "Delete this project? This also deletes all of its tasks."

// Backend is the subset of the API client the controller needs
type Backend interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListMyTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, in models.TaskInput) error
	UpdateTask(ctx context.Context, id int64, in models.TaskInput) error
	SetTaskCompleted(ctx context.Context, id int64, completed bool) error
	DeleteTask(ctx context.Context, id int64) error
	CreateProject(ctx context.Context, in models.ProjectInput) error
	DeleteProject(ctx context.Context, id int64) error
}

// TokenSource reports the current session token
type TokenSource interface {
	GetToken() (string, error)
}

// ConfirmFunc asks the user a yes/no question
type ConfirmFunc func(prompt string) bool

// Answer returns a ConfirmFunc with a fixed answer, for callers that already asked
func Answer(yes bool) ConfirmFunc {
	return func(string) bool { return yes }
}

// State is one consistent set of fetched collections
type State struct {
	Projects []models.Project
	Users    []models.User
	MyTasks  []models.Task
}

// Controller owns the fetched state
type Controller struct {
	backend Backend
	tokens  TokenSource
	logger  *zap.Logger

	mu      sync.Mutex
	state   State
	loading bool
	started uint64 // sequence of the last refresh that started
	applied uint64 // sequence of the last refresh whose result was applied
}

// New creates a controller. It starts in the loading state.
func New(backend Backend, tokens TokenSource, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		backend: backend,
		tokens:  tokens,
		logger:  logger,
		loading: true,
	}
}

// Loading reports whether the first refresh is still outstanding
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Projects: slices.Clone(c.state.Projects),
		Users:    slices.Clone(c.state.Users),
		MyTasks:  slices.Clone(c.state.MyTasks),
	}
}

// HasSession reports whether a token is stored
func (c *Controller) HasSession() bool {
	token, err := c.tokens.GetToken()
	return err == nil && token != ""
}

// Refresh fetches projects, users and my tasks concurrently and replaces the
// state only when all three succeed.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.HasSession() {
		c.settle()
		return ErrNoSession
	}

	c.mu.Lock()
	c.started++
	seq := c.started
	c.mu.Unlock()

	var next State
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, err := c.backend.ListProjects(gctx)
		if err != nil {
			return fmt.Errorf("projects: %w", err)
		}
		next.Projects = projects
		return nil
	})
	g.Go(func() error {
		users, err := c.backend.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("users: %w", err)
		}
		next.Users = users
		return nil
	})
	g.Go(func() error {
		tasks, err := c.backend.ListMyTasks(gctx)
		if err != nil {
			return fmt.Errorf("my tasks: %w", err)
		}
		next.MyTasks = tasks
		return nil
	})

	if err := g.Wait(); err != nil {
		c.settle()
		c.logger.Error("failed to load data", zap.Error(err))
		return c.sessionError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if seq < c.applied {
		c.logger.Debug("dropping stale refresh", zap.Uint64("seq", seq), zap.Uint64("applied", c.applied))
		return nil
	}
	c.applied = seq
	c.state = next
	c.logger.Debug("state refreshed",
		zap.Uint64("seq", seq),
		zap.Int("projects", len(next.Projects)),
		zap.Int("users", len(next.Users)),
		zap.Int("my_tasks", len(next.MyTasks)),
	)
	return nil
}

func (c *Controller) settle() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// sessionError maps 401 responses to ErrNoSession
func (c *Controller) sessionError(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("%w: %w", ErrNoSession, err)
	}
	return err
}

// mutate runs one mutation and, when it succeeds, a full refresh
func (c *Controller) mutate(ctx context.Context, what string, fields []zap.Field, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		c.logger.Error("failed to "+what, append(fields, zap.Error(err))...)
		return c.sessionError(fmt.Errorf("%s: %w", what, err))
	}
	c.logger.Info(what, fields...)
	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return nil
}

// ChangeTaskStatus sets completed to the negation of current, then refreshes
func (c *Controller) ChangeTaskStatus(ctx context.Context, taskID int64, current bool) error {
	return c.mutate(ctx, "update task status",
		[]zap.Field{zap.Int64("task_id", taskID), zap.Bool("completed", !current)},
		func(ctx context.Context) error {
			return c.backend.SetTaskCompleted(ctx, taskID, !current)
		})
}

// DeleteTask deletes a task, then refreshes
func (c *Controller) DeleteTask(ctx context.Context, taskID int64) error {
	return c.mutate(ctx, "delete task",
		[]zap.Field{zap.Int64("task_id", taskID)},
		func(ctx context.Context) error {
			return c.backend.DeleteTask(ctx, taskID)
		})
}

// DeleteProject asks for confirmation, deletes the project, then refreshes.
// Declining returns ErrNotConfirmed without contacting the backend.
func (c *Controller) DeleteProject(ctx context.Context, projectID int64, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(DeleteProjectPrompt) {
		return ErrNotConfirmed
	}
	return c.mutate(ctx, "delete project",
		[]zap.Field{zap.Int64("project_id", projectID)},
		func(ctx context.Context) error {
			return c.backend.DeleteProject(ctx, projectID)
		})
}

// CreateTask creates a task, then refreshes
func (c *Controller) CreateTask(ctx context.Context, in models.TaskInput) error {
	return c.mutate(ctx, "create task",
		[]zap.Field{zap.Int64("project_id", in.ProjectID), zap.String("title", in.Title)},
		func(ctx context.Context) error {
			return c.backend.CreateTask(ctx, in)
		})
}

// UpdateTask updates a task, then refreshes
func (c *Controller) UpdateTask(ctx context.Context, taskID int64, in models.TaskInput) error {
	return c.mutate(ctx, "update task",
		[]zap.Field{zap.Int64("task_id", taskID)},
		func(ctx context.Context) error {
			return c.backend.UpdateTask(ctx, taskID, in)
		})
}

// CreateProject creates a project, then refreshes
func (c *Controller) CreateProject(ctx context.Context, in models.ProjectInput) error {
	return c.mutate(ctx, "create project",
		[]zap.Field{zap.String("name", in.Name)},
		func(ctx context.Context) error {
			return c.backend.CreateProject(ctx, in)
		})
}
