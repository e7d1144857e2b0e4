package models

import (
	"fmt"
	"slices"
	"strings"
)

// SortByPriority returns a copy of tasks ordered HIGH, MEDIUM, LOW.
// Tasks with equal priority keep their relative order.
func SortByPriority(tasks []Task) []Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b Task) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
	return sorted
}

// TaskFilter narrows a task list by completion status
type TaskFilter int

const (
	FilterAll TaskFilter = iota
	FilterPending
	FilterCompleted
)

func (f TaskFilter) String() string {
	switch f {
	case FilterPending:
		return "pending"
	case FilterCompleted:
		return "completed"
	}
	return "all"
}

// ParseTaskFilter parses "all", "pending" or "completed"
func ParseTaskFilter(s string) (TaskFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "pending":
		return FilterPending, nil
	case "completed":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, pending or completed)", s)
}

// Next cycles all -> pending -> completed -> all
func (f TaskFilter) Next() TaskFilter {
	return (f + 1) % 3
}

// Match reports whether a task passes the filter
func (f TaskFilter) Match(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	}
	return true
}

// Apply filters tasks and returns them in priority order
func (f TaskFilter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return SortByPriority(out)
}

// FindProject looks a project up by ID
func FindProject(projects []Project, id int64) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// FindTask looks a task up by ID
func FindTask(tasks []Task, id int64) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
