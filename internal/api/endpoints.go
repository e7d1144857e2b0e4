package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tgienger/taskdash/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response carried no token")
	}
	return resp.Token, nil
}

// ListProjects returns all projects with their tasks
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListUsers returns the assignable users
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListMyTasks returns the tasks assigned to the logged in user
func (c *Client) ListMyTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/me", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task
func (c *Client) CreateTask(ctx context.Context, in models.TaskInput) error {
	return c.do(ctx, http.MethodPost, "/tasks", in, nil)
}

// UpdateTask replaces the editable fields of a task
func (c *Client) UpdateTask(ctx context.Context, id int64, in models.TaskInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), in, nil)
}

// SetTaskCompleted updates only the completed flag of a task
func (c *Client) SetTaskCompleted(ctx context.Context, id int64, completed bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), models.StatusPatch{Completed: completed}, nil)
}

// DeleteTask deletes a task
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}

// CreateProject creates a project
func (c *Client) CreateProject(ctx context.Context, in models.ProjectInput) error {
	return c.do(ctx, http.MethodPost, "/projects", in, nil)
}

// DeleteProject deletes a project and, server side, all of its tasks
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, nil)
}
