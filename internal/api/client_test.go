package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/testutil"
)

type staticToken string

func (s staticToken) GetToken() (string, error) { return string(s), nil }

type brokenToken struct{}

func (brokenToken) GetToken() (string, error) { return "", errors.New("disk gone") }

func setup(t *testing.T) (*testutil.Backend, *Client) {
	t.Helper()
	backend := testutil.NewBackend(t, "tok")
	users, projects := testutil.SampleData()
	backend.Seed(1, users, projects)
	return backend, New(backend.URL()+"/", staticToken("tok"), 5*time.Second)
}

func TestClient_ListCollections(t *testing.T) {
	_, client := setup(t)
	ctx := context.Background()

	projects, err := client.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "P1", projects[0].Name)
	assert.Len(t, projects[0].Tasks, 2)
	assert.False(t, projects[0].CreatedAt.IsZero())

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.User{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}, users)

	mine, err := client.ListMyTasks(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, task := range mine {
		require.NotNil(t, task.Project)
		assert.Equal(t, int64(1), task.Project.ID)
		require.NotNil(t, task.AssignedToID)
		assert.Equal(t, int64(1), *task.AssignedToID)
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, staticToken("abc"), time.Second).ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got)

	_, err = New(srv.URL, staticToken(""), time.Second).ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got, "no header without a token")
}

func TestClient_TokenReadError(t *testing.T) {
	backend := testutil.NewBackend(t, "tok")
	client := New(backend.URL(), brokenToken{}, time.Second)

	_, err := client.ListProjects(context.Background())
	require.Error(t, err)
	assert.Empty(t, backend.Calls(), "no request when the token cannot be read")
}

func TestClient_Unauthorized(t *testing.T) {
	backend := testutil.NewBackend(t, "tok")
	client := New(backend.URL(), staticToken("wrong"), time.Second)

	_, err := client.ListProjects(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "/projects", apiErr.Path)
}

func TestClient_ServerErrorIsNotUnauthorized(t *testing.T) {
	backend, client := setup(t)
	backend.FailOn(http.MethodGet, "/users", http.StatusInternalServerError)

	_, err := client.ListUsers(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), "500")
}

func TestClient_Login(t *testing.T) {
	backend := testutil.NewBackend(t, "issued")
	client := New(backend.URL(), nil, time.Second)

	token, err := client.Login(context.Background(), "me@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "issued", token)

	_, err = client.Login(context.Background(), "me@example.com", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_TaskMutations(t *testing.T) {
	backend, client := setup(t)
	ctx := context.Background()

	require.NoError(t, client.CreateTask(ctx, models.TaskInput{
		Title: "New", Priority: models.PriorityHigh, AssignedToID: 2, ProjectID: 2,
	}))
	assert.Equal(t, 1, backend.Count(http.MethodPost, "/tasks"))

	require.NoError(t, client.SetTaskCompleted(ctx, 10, true))
	task, ok := backend.Task(10)
	require.True(t, ok)
	assert.True(t, task.Completed)
	assert.Equal(t, "Ship it", task.Title, "status patch leaves other fields alone")

	require.NoError(t, client.UpdateTask(ctx, 10, models.TaskInput{
		Title: "Ship it now", Priority: models.PriorityLow, AssignedToID: 2, ProjectID: 1, Completed: true,
	}))
	task, _ = backend.Task(10)
	assert.Equal(t, "Ship it now", task.Title)
	assert.Equal(t, "Bob", task.AssignedTo.Name)

	require.NoError(t, client.DeleteTask(ctx, 10))
	_, ok = backend.Task(10)
	assert.False(t, ok)

	err := client.DeleteTask(ctx, 10)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClient_ProjectMutations(t *testing.T) {
	backend, client := setup(t)
	ctx := context.Background()

	require.NoError(t, client.CreateProject(ctx, models.ProjectInput{Name: "P3"}))
	require.Len(t, backend.Projects(), 3)

	require.NoError(t, client.DeleteProject(ctx, 1))
	projects := backend.Projects()
	require.Len(t, projects, 2)
	_, found := models.FindProject(projects, 1)
	assert.False(t, found)
}

func TestClient_ContextCancelled(t *testing.T) {
	_, client := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListProjects(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
