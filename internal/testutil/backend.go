// Package testutil provides an in-memory stand-in for the task backend.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tgienger/taskdash/internal/models"
)

// Backend serves the task REST API from memory and records every request
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	token    string
	password string
	email    string
	meID     int64
	users    []models.User
	projects []models.Project
	nextID   int64
	failures map[string]int
	calls    []string
}

// NewBackend starts a backend that accepts the given bearer token.
// The server is closed when the test ends.
func NewBackend(t testing.TB, token string) *Backend {
	t.Helper()

	b := &Backend{
		token:    token,
		email:    "me@example.com",
		password: "secret",
		nextID:   1000,
		failures: map[string]int{},
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Post("/auth/login", b.login)
	r.Group(func(r chi.Router) {
		r.Use(b.authenticate)
		r.Get("/projects", b.listProjects)
		r.Post("/projects", b.createProject)
		r.Delete("/projects/{id}", b.deleteProject)
		r.Get("/users", b.listUsers)
		r.Get("/tasks/me", b.listMyTasks)
		r.Post("/tasks", b.createTask)
		r.Put("/tasks/{id}", b.updateTask)
		r.Delete("/tasks/{id}", b.deleteTask)
	})

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the server
func (b *Backend) URL() string {
	return b.Server.URL
}

// Seed replaces the backend data. meID selects whose tasks /tasks/me returns.
func (b *Backend) Seed(meID int64, users []models.User, projects []models.Project) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meID = meID
	b.users = append([]models.User(nil), users...)
	b.projects = nil
	for _, p := range projects {
		p.Tasks = append([]models.Task(nil), p.Tasks...)
		b.projects = append(b.projects, p)
	}
}

// SetCredentials changes the accepted login
func (b *Backend) SetCredentials(email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.email = email
	b.password = password
}

// FailOn makes requests matching "METHOD /path" answer with status
func (b *Backend) FailOn(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = status
}

// ClearFailures removes all injected failures
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]int{}
}

// Calls returns the recorded requests as "METHOD /path"
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// Count returns how many recorded requests equal "METHOD /path"
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, c := range b.Calls() {
		if c == method+" "+path {
			n++
		}
	}
	return n
}

// ResetCalls forgets recorded requests
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// Task returns a stored task by ID
func (b *Backend) Task(id int64) (models.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.projects {
		if t, ok := models.FindTask(p.Tasks, id); ok {
			return t, true
		}
	}
	return models.Task{}, false
}

// Projects returns a copy of the stored projects
func (b *Backend) Projects() []models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Project(nil), b.projects...)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.calls = append(b.calls, key)
		status, fail := b.failures[key]
		b.mu.Unlock()

		if fail {
			http.Error(w, `{"message":"injected failure"}`, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.token != "" && r.Header.Get("Authorization") != "Bearer "+b.token {
			http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	ok := strings.EqualFold(req.Email, b.email) && req.Password == b.password
	token := b.token
	b.mu.Unlock()

	if !ok {
		http.Error(w, `{"message":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (b *Backend) listProjects(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Project, 0, len(b.projects))
	out = append(out, b.projects...)
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createProject(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	p := models.Project{ID: b.nextID, Name: in.Name, CreatedAt: time.Now().UTC(), Tasks: []models.Task{}}
	b.projects = append(b.projects, p)
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.projects {
		if p.ID == id {
			b.projects = append(b.projects[:i], b.projects[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.User, 0, len(b.users))
	out = append(out, b.users...)
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) listMyTasks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Task{}
	for _, p := range b.projects {
		for _, t := range p.Tasks {
			if t.AssignedToID != nil && *t.AssignedToID == b.meID {
				t.Project = &models.ProjectRef{ID: p.ID, Name: p.Name}
				out = append(out, t)
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// userLocked resolves a user by ID; callers hold b.mu
func (b *Backend) userLocked(id int64) models.User {
	for _, u := range b.users {
		if u.ID == id {
			return u
		}
	}
	return models.User{ID: id}
}

func (b *Backend) createTask(w http.ResponseWriter, r *http.Request) {
	var in models.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.projects {
		if b.projects[i].ID != in.ProjectID {
			continue
		}
		b.nextID++
		assignee := in.AssignedToID
		t := models.Task{
			ID:           b.nextID,
			Title:        in.Title,
			Priority:     in.Priority,
			AssignedToID: &assignee,
			AssignedTo:   b.userLocked(assignee),
			Completed:    in.Completed,
			Project:      &models.ProjectRef{ID: b.projects[i].ID, Name: b.projects[i].Name},
		}
		b.projects[i].Tasks = append(b.projects[i].Tasks, t)
		writeJSON(w, http.StatusCreated, t)
		return
	}
	http.Error(w, "unknown project", http.StatusBadRequest)
}

func (b *Backend) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.projects {
		for j := range b.projects[i].Tasks {
			t := &b.projects[i].Tasks[j]
			if t.ID != id {
				continue
			}
			if raw, ok := fields["title"]; ok {
				_ = json.Unmarshal(raw, &t.Title)
			}
			if raw, ok := fields["priority"]; ok {
				_ = json.Unmarshal(raw, &t.Priority)
			}
			if raw, ok := fields["completed"]; ok {
				_ = json.Unmarshal(raw, &t.Completed)
			}
			if raw, ok := fields["assignedToId"]; ok {
				var assignee int64
				if json.Unmarshal(raw, &assignee) == nil {
					t.AssignedToID = &assignee
					t.AssignedTo = b.userLocked(assignee)
				}
			}
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (b *Backend) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.projects {
		tasks := b.projects[i].Tasks
		for j := range tasks {
			if tasks[j].ID == id {
				b.projects[i].Tasks = append(tasks[:j], tasks[j+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}

// SampleData returns the users and projects used across tests: project 1
// holds task 10 (HIGH, pending, user 1) and task 11 (LOW, completed, user 1);
// project 2 holds task 20 (MEDIUM, pending, user 2).
func SampleData() ([]models.User, []models.Project) {
	alice := models.User{ID: 1, Name: "Alice"}
	bob := models.User{ID: 2, Name: "Bob"}
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	users := []models.User{alice, bob}
	projects := []models.Project{
		{
			ID: 1, Name: "P1", CreatedAt: created,
			Tasks: []models.Task{
				{ID: 11, Title: "Write docs", Priority: models.PriorityLow, AssignedToID: Int64(1), AssignedTo: alice, Completed: true},
				{ID: 10, Title: "Ship it", Priority: models.PriorityHigh, AssignedToID: Int64(1), AssignedTo: alice},
			},
		},
		{
			ID: 2, Name: "P2", CreatedAt: created.Add(24 * time.Hour),
			Tasks: []models.Task{
				{ID: 20, Title: "Review", Priority: models.PriorityMedium, AssignedToID: Int64(2), AssignedTo: bob},
			},
		},
	}
	return users, projects
}
