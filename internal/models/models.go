package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the closed set of task priorities understood by the backend
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities returns the selectable priorities in selector order
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Rank orders priorities for display: HIGH first, then MEDIUM, then LOW.
// Values outside the enum sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Valid reports whether p is one of the three known priorities
func (p Priority) Valid() bool {
	return p.Rank() < 3
}

// ParsePriority parses a priority name, case-insensitively
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// User is a member that tasks can be assigned to
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProjectRef is the short project reference embedded in a task
type ProjectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Task represents a single task as returned by the backend
type Task struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Priority     Priority    `json:"priority"`
	AssignedToID *int64      `json:"assignedToId"`
	AssignedTo   User        `json:"assignedTo"`
	Completed    bool        `json:"completed"`
	Project      *ProjectRef `json:"project,omitempty"`
}

// Project groups tasks
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Tasks     []Task    `json:"tasks"`
}

// TaskInput is the request body for creating or fully updating a task
type TaskInput struct {
	Title        string   `json:"title"`
	Priority     Priority `json:"priority"`
	AssignedToID int64    `json:"assignedToId"`
	ProjectID    int64    `json:"projectId"`
	Completed    bool     `json:"completed"`
}

// StatusPatch is the request body for toggling completion
type StatusPatch struct {
	Completed bool `json:"completed"`
}

// ProjectInput is the request body for creating a project
type ProjectInput struct {
	Name string `json:"name"`
}
