package ui

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/api"
	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/testutil"
	"go.uber.org/zap/zaptest"
)

type harness struct {
	app     *App
	backend *testutil.Backend
	store   *db.DB
}

func newHarness(t *testing.T, storedToken string) *harness {
	t.Helper()

	backend := testutil.NewBackend(t, "tok")
	users, projects := testutil.SampleData()
	backend.Seed(1, users, projects)

	store, err := db.Open(filepath.Join(t.TempDir(), "taskdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	if storedToken != "" {
		require.NoError(t, store.SaveToken(storedToken))
	}

	client := api.New(backend.URL(), store, 5*time.Second)
	app := NewApp(client, store, zaptest.NewLogger(t))
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	return &harness{app: app, backend: backend, store: store}
}

// settle runs cmd and feeds every resulting message back into the app until
// nothing is left. Spinner ticks are dropped so loading never loops.
func (h *harness) settle(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for n := 0; len(queue) > 0; n++ {
		require.Less(t, n, 100, "update loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg, nil:
		default:
			_, c := h.app.Update(msg)
			queue = append(queue, c)
		}
	}
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	h.settle(t, h.app.Init())
}

func (h *harness) press(t *testing.T, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := h.app.Update(msg)
	h.settle(t, cmd)
}

// typeText sends runes one at a time. Cursor blink commands are discarded.
func (h *harness) typeText(s string) {
	for _, r := range s {
		h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_NoTokenShowsLogin(t *testing.T) {
	h := newHarness(t, "")
	h.start(t)

	assert.Equal(t, ScreenLogin, h.app.Screen())
	assert.Contains(t, h.app.View(), "Log in")
	assert.Empty(t, h.backend.Calls(), "nothing is fetched before login")
}

func TestApp_LoginLoadsDashboard(t *testing.T) {
	h := newHarness(t, "")
	h.start(t)

	h.typeText("me@example.com")
	h.app.Update(tea.KeyMsg{Type: tea.KeyTab})
	h.typeText("secret")
	h.press(t, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, ScreenDashboard, h.app.Screen())
	token, err := h.store.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	out := h.app.View()
	assert.Contains(t, out, "P1")
	assert.Contains(t, out, "P2")
	assert.Equal(t, 1, h.backend.Count(http.MethodGet, "/projects"))
	assert.Equal(t, 1, h.backend.Count(http.MethodGet, "/users"))
	assert.Equal(t, 1, h.backend.Count(http.MethodGet, "/tasks/me"))
}

func TestApp_InvalidCredentials(t *testing.T) {
	h := newHarness(t, "")
	h.start(t)

	h.typeText("me@example.com")
	h.app.Update(tea.KeyMsg{Type: tea.KeyTab})
	h.typeText("wrong")
	h.press(t, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ScreenLogin, h.app.Screen())
	assert.Contains(t, h.app.View(), "Invalid credentials")
	token, err := h.store.GetToken()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestApp_ShowsSpinnerUntilLoaded(t *testing.T) {
	h := newHarness(t, "tok")
	cmd := h.app.Init()

	assert.Equal(t, ScreenDashboard, h.app.Screen())
	assert.Contains(t, h.app.View(), "Loading...")

	h.settle(t, cmd)
	assert.NotContains(t, h.app.View(), "Loading...")
}

func TestApp_RestoresAndPersistsTab(t *testing.T) {
	h := newHarness(t, "tok")
	require.NoError(t, h.store.SetLastTab("my-tasks"))
	h.start(t)

	assert.Equal(t, TabMyTasks, h.app.Tab())
	assert.Contains(t, h.app.View(), "My Tasks")
	assert.Contains(t, h.app.View(), "Ship it")

	h.press(t, runeKey("1"))
	assert.Equal(t, TabProjects, h.app.Tab())
	last, err := h.store.GetLastTab()
	require.NoError(t, err)
	assert.Equal(t, "projects", last)
}

func TestApp_ToggleTaskRefetches(t *testing.T) {
	h := newHarness(t, "tok")
	h.start(t)
	h.press(t, runeKey("2"))
	h.backend.ResetCalls()

	h.press(t, tea.KeyMsg{Type: tea.KeySpace})

	task, ok := h.backend.Task(10)
	require.True(t, ok)
	assert.True(t, task.Completed)
	assert.Equal(t, []string{"PUT /tasks/10"}, h.backend.Calls()[:1])
	assert.Equal(t, 1, h.backend.Count(http.MethodGet, "/projects"))
	assert.Empty(t, h.app.Status())
}

func TestApp_DeleteProjectAfterConfirm(t *testing.T) {
	h := newHarness(t, "tok")
	h.start(t)

	h.press(t, runeKey("d"))
	assert.Zero(t, h.backend.Count(http.MethodDelete, "/projects/1"))

	h.press(t, runeKey("y"))
	assert.Equal(t, 1, h.backend.Count(http.MethodDelete, "/projects/1"))
	assert.Len(t, h.backend.Projects(), 1)
	assert.NotContains(t, h.app.View(), "P1")
}

func TestApp_CreateTaskFromDialog(t *testing.T) {
	h := newHarness(t, "tok")
	h.start(t)

	h.press(t, runeKey("n"))
	h.typeText("Deploy")
	h.press(t, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, 1, h.backend.Count(http.MethodPost, "/tasks"))
	assert.False(t, h.app.projects.Capturing(), "dialog closes after a successful save")

	p := h.backend.Projects()[0]
	require.Len(t, p.Tasks, 3)
	assert.Equal(t, "Deploy", p.Tasks[2].Title)
}

func TestApp_FailedSaveKeepsDialogOpen(t *testing.T) {
	h := newHarness(t, "tok")
	h.start(t)
	h.backend.FailOn(http.MethodPost, "/tasks", http.StatusInternalServerError)

	h.press(t, runeKey("n"))
	h.typeText("Deploy")
	h.press(t, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.True(t, h.app.projects.Capturing())
	assert.Contains(t, h.app.Status(), "Something went wrong")
	assert.Equal(t, 1, h.backend.Count(http.MethodGet, "/projects"), "no refetch after a failed mutation")
}

func TestApp_MutationErrorShowsStatus(t *testing.T) {
	h := newHarness(t, "tok")
	h.start(t)
	h.press(t, runeKey("2"))
	h.backend.FailOn(http.MethodDelete, "/tasks/10", http.StatusInternalServerError)

	h.press(t, runeKey("d"))
	assert.Contains(t, h.app.Status(), "Something went wrong")
	_, ok := h.backend.Task(10)
	assert.True(t, ok)
}

func TestApp_UnauthorizedReturnsToLogin(t *testing.T) {
	h := newHarness(t, "expired")
	h.start(t)

	assert.Equal(t, ScreenLogin, h.app.Screen())
	assert.Empty(t, h.app.Status(), "no message, just the login screen")
	token, err := h.store.GetToken()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestApp_LogoutAndRefresh(t *testing.T) {
	h := newHarness(t, "tok")
	h.start(t)

	h.press(t, runeKey("r"))
	assert.Equal(t, 2, h.backend.Count(http.MethodGet, "/projects"))

	h.press(t, runeKey("L"))
	assert.Equal(t, ScreenLogin, h.app.Screen())
	token, err := h.store.GetToken()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestApp_HelpOverlay(t *testing.T) {
	h := newHarness(t, "tok")
	h.start(t)

	h.press(t, runeKey("?"))
	assert.Contains(t, h.app.View(), "Keyboard Shortcuts")

	h.press(t, runeKey("j"))
	assert.NotContains(t, h.app.View(), "Keyboard Shortcuts")
}

func TestApp_QuitKeys(t *testing.T) {
	h := newHarness(t, "")
	h.start(t)

	// q is typed into the login form
	h.typeText("q")
	assert.Equal(t, ScreenLogin, h.app.Screen())

	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
