package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/config"
	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/testutil"
)

// isolate points every XDG directory at a temp dir and clears overrides
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("TASKDASH_API_URL", "")
	t.Setenv("TASKDASH_CONFIG", "")
	t.Setenv("TASKDASH_PASSWORD", "")
	t.Setenv("TASKDASH_LOG_LEVEL", "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func seededBackend(t *testing.T) *testutil.Backend {
	t.Helper()
	b := testutil.NewBackend(t, "tok")
	users, projects := testutil.SampleData()
	b.Seed(1, users, projects)
	return b
}

func storedToken(t *testing.T) string {
	t.Helper()
	store, err := db.New()
	require.NoError(t, err)
	defer store.Close()
	token, err := store.GetToken()
	require.NoError(t, err)
	return token
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "taskdash 1.2.3 (commit: abc, built: today)\n", out)

	out, _, err = runCLI(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "taskdash 1.2.3 (commit: abc, built: today)\n", out)

	out, _, err = runCLI(t, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestLoginLogout(t *testing.T) {
	isolate(t)
	b := seededBackend(t)

	out, _, err := runCLI(t, "--api-url", b.URL(), "login", "--email", "me@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in.")
	assert.Equal(t, "tok", storedToken(t))

	out, _, err = runCLI(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.Empty(t, storedToken(t))
}

func TestLogin_PasswordFromEnv(t *testing.T) {
	isolate(t)
	b := seededBackend(t)
	t.Setenv("TASKDASH_PASSWORD", "secret")
	t.Setenv("TASKDASH_API_URL", b.URL())

	_, _, err := runCLI(t, "login", "--email", "me@example.com")
	require.NoError(t, err)
	assert.Equal(t, "tok", storedToken(t))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	isolate(t)
	b := seededBackend(t)

	_, stderr, err := runCLI(t, "--api-url", b.URL(), "login", "--email", "me@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, stderr, "Invalid credentials")
	assert.NotContains(t, stderr, "401", "the cause is not shown")
	assert.Empty(t, storedToken(t))
}

func TestProjects_NotLoggedIn(t *testing.T) {
	isolate(t)
	b := seededBackend(t)

	_, stderr, err := runCLI(t, "--api-url", b.URL(), "projects")
	require.Error(t, err)
	assert.Contains(t, stderr, "not logged in")
	assert.Empty(t, b.Calls())
}

func login(t *testing.T, b *testutil.Backend) {
	t.Helper()
	_, _, err := runCLI(t, "--api-url", b.URL(), "login", "--email", "me@example.com", "--password", "secret")
	require.NoError(t, err)
}

func TestProjects_PriorityOrder(t *testing.T) {
	isolate(t)
	b := seededBackend(t)
	login(t, b)

	out, _, err := runCLI(t, "--api-url", b.URL(), "projects")
	require.NoError(t, err)

	assert.Contains(t, out, "P1 (#1)")
	assert.Contains(t, out, "P2 (#2)")
	assert.Less(t, strings.Index(out, "Ship it"), strings.Index(out, "Write docs"))
	assert.Contains(t, out, "[x]")
}

func TestProjects_JSON(t *testing.T) {
	isolate(t)
	b := seededBackend(t)
	login(t, b)

	out, _, err := runCLI(t, "--api-url", b.URL(), "--json", "projects")
	require.NoError(t, err)

	var projects []models.Project
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	require.Len(t, projects, 2)
	require.Len(t, projects[0].Tasks, 2)
	assert.Equal(t, int64(10), projects[0].Tasks[0].ID)
	assert.Equal(t, int64(11), projects[0].Tasks[1].ID)
}

func TestTasks_Filter(t *testing.T) {
	isolate(t)
	b := seededBackend(t)
	login(t, b)

	out, _, err := runCLI(t, "--api-url", b.URL(), "tasks", "--filter", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "Ship it")
	assert.NotContains(t, out, "Write docs")
	assert.NotContains(t, out, "Review", "tasks of other users are not listed")

	out, _, err = runCLI(t, "--api-url", b.URL(), "tasks", "--filter", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "Write docs")
	assert.NotContains(t, out, "Ship it")

	_, _, err = runCLI(t, "--api-url", b.URL(), "tasks", "--filter", "someday")
	assert.Error(t, err)
}

func TestConfigFileSuppliesAPIURL(t *testing.T) {
	dir := isolate(t)
	b := seededBackend(t)

	path := filepath.Join(dir, "custom.yaml")
	cfg := config.Default()
	cfg.APIURL = b.URL()
	require.NoError(t, cfg.Save(path))

	_, _, err := runCLI(t, "--config", path, "login", "--email", "me@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Count(http.MethodPost, "/auth/login"))

	_, err = os.Stat(filepath.Join(dir, "state", "taskdash", "taskdash.log"))
	assert.NoError(t, err, "commands log to the state directory")
}

func TestTasks_ServerError(t *testing.T) {
	isolate(t)
	b := seededBackend(t)
	login(t, b)
	b.FailOn(http.MethodGet, "/users", http.StatusInternalServerError)

	_, stderr, err := runCLI(t, "--api-url", b.URL(), "tasks")
	require.Error(t, err)
	assert.Contains(t, stderr, "users")
}
