package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/dashboard"
	"github.com/tgienger/taskdash/internal/forms"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
	"github.com/tgienger/taskdash/internal/ui/views"
	"go.uber.org/zap"
)

// Client is everything the app needs from the backend
type Client interface {
	dashboard.Backend
	forms.Authenticator
}

// SessionStore persists the token and the last opened tab
type SessionStore interface {
	GetToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
	GetLastTab() (string, error)
	SetLastTab(tab string) error
}

// Screen is the top-level screen being shown
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
)

// Tab is the dashboard section being shown
type Tab int

const (
	TabProjects Tab = iota
	TabMyTasks
)

func (t Tab) String() string {
	if t == TabMyTasks {
		return "my-tasks"
	}
	return "projects"
}

// refreshedMsg carries the outcome of a refresh started by ctrl
type refreshedMsg struct {
	ctrl *dashboard.Controller
	err  error
}

// mutatedMsg carries the outcome of a mutation started by ctrl
type mutatedMsg struct {
	ctrl *dashboard.Controller
	err  error
}

// savedMsg carries the outcome of a dialog submit
type savedMsg struct {
	ctrl    *dashboard.Controller
	project bool
	err     error
}

type App struct {
	client  Client
	session SessionStore
	logger  *zap.Logger
	ctrl    *dashboard.Controller

	screen   Screen
	tab      Tab
	login    *views.LoginView
	projects *views.ProjectsView
	myTasks  *views.MyTasksView
	spinner  spinner.Model
	styles   *styles.Styles
	keys     keys.KeyMap

	status    string
	statusErr bool
	showHelp  bool

	width  int
	height int
}

// NewApp creates the application
func NewApp(client Client, session SessionStore, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := styles.NewStyles()
	k := keys.DefaultKeyMap()

	return &App{
		client:   client,
		session:  session,
		logger:   logger,
		login:    views.NewLoginView(s, k),
		projects: views.NewProjectsView(s, k),
		myTasks:  views.NewMyTasksView(s, k),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Title)),
		styles:   s,
		keys:     k,
	}
}

func (a *App) Screen() Screen { return a.screen }
func (a *App) Tab() Tab       { return a.tab }

// Status returns the text of the status line
func (a *App) Status() string { return a.status }

func (a *App) Init() tea.Cmd {
	token, err := a.session.GetToken()
	if err != nil {
		a.logger.Error("failed to read session", zap.Error(err))
	}
	if token == "" {
		a.screen = ScreenLogin
		return a.login.Init()
	}
	return a.mount()
}

// mount switches to the dashboard with a fresh controller and starts loading
func (a *App) mount() tea.Cmd {
	a.screen = ScreenDashboard
	a.ctrl = dashboard.New(a.client, a.session, a.logger)
	a.projects.SetData(nil, nil)
	a.myTasks.SetData(nil)

	a.tab = TabProjects
	if last, err := a.session.GetLastTab(); err == nil && last == TabMyTasks.String() {
		a.tab = TabMyTasks
	}

	return tea.Batch(a.spinner.Tick, a.refresh())
}

func (a *App) refresh() tea.Cmd {
	ctrl := a.ctrl
	return func() tea.Msg {
		return refreshedMsg{ctrl: ctrl, err: ctrl.Refresh(context.Background())}
	}
}

func (a *App) mutate(fn func(ctx context.Context, ctrl *dashboard.Controller) error) tea.Cmd {
	ctrl := a.ctrl
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		return mutatedMsg{ctrl: ctrl, err: fn(context.Background(), ctrl)}
	}
}

func (a *App) save(project bool, fn func(ctx context.Context, ctrl *dashboard.Controller) error) tea.Cmd {
	ctrl := a.ctrl
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		return savedMsg{ctrl: ctrl, project: project, err: fn(context.Background(), ctrl)}
	}
}

// sync copies the controller snapshot into the views
func (a *App) sync() {
	if a.ctrl == nil {
		return
	}
	state := a.ctrl.Snapshot()
	a.projects.SetData(state.Projects, state.Users)
	a.myTasks.SetData(state.MyTasks)
}

// handleError updates the status line and drops the session on 401
func (a *App) handleError(err error) tea.Cmd {
	switch {
	case err == nil:
		a.status = ""
		a.statusErr = false
		return nil
	case errors.Is(err, dashboard.ErrNotConfirmed):
		return nil
	case errors.Is(err, dashboard.ErrNoSession):
		a.logger.Info("session rejected, returning to login")
		return a.endSession("")
	}
	a.status = "Something went wrong: " + err.Error()
	a.statusErr = true
	return nil
}

func (a *App) endSession(status string) tea.Cmd {
	if err := a.session.ClearToken(); err != nil {
		a.logger.Error("failed to clear session", zap.Error(err))
	}
	a.ctrl = nil
	a.screen = ScreenLogin
	a.showHelp = false
	a.status = status
	a.statusErr = false
	a.login.Reset(true)
	return a.login.Init()
}

func (a *App) setTab(t Tab) {
	a.tab = t
	if err := a.session.SetLastTab(t.String()); err != nil {
		a.logger.Warn("failed to save last tab", zap.Error(err))
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.Update(msg)
		a.projects.Update(msg)
		a.myTasks.Update(msg)
		return a, nil

	case spinner.TickMsg:
		if a.ctrl == nil || !a.ctrl.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case refreshedMsg:
		if msg.ctrl != a.ctrl {
			return a, nil
		}
		a.sync()
		return a, a.handleError(msg.err)

	case mutatedMsg:
		if msg.ctrl != a.ctrl {
			return a, nil
		}
		a.sync()
		return a, a.handleError(msg.err)

	case savedMsg:
		if msg.ctrl != a.ctrl {
			return a, nil
		}
		// the dialog only stays open when the mutation itself failed
		formErr := msg.err
		if errors.Is(formErr, dashboard.ErrRefreshFailed) {
			formErr = nil
		}
		if msg.project {
			a.projects.Update(views.ProjectSaved{Err: formErr})
		} else {
			a.projects.Update(views.TaskSaved{Err: formErr})
		}
		a.sync()
		return a, a.handleError(msg.err)

	case views.ToggleTaskStatus:
		return a, a.mutate(func(ctx context.Context, c *dashboard.Controller) error {
			return c.ChangeTaskStatus(ctx, msg.TaskID, msg.Completed)
		})

	case views.DeleteTask:
		return a, a.mutate(func(ctx context.Context, c *dashboard.Controller) error {
			return c.DeleteTask(ctx, msg.TaskID)
		})

	case views.DeleteProject:
		return a, a.mutate(func(ctx context.Context, c *dashboard.Controller) error {
			return c.DeleteProject(ctx, msg.ProjectID, dashboard.Answer(msg.Confirmed))
		})

	case views.SaveTask:
		return a, a.save(false, func(ctx context.Context, c *dashboard.Controller) error {
			return msg.Request.Send(ctx, c)
		})

	case views.SaveProject:
		return a, a.save(true, func(ctx context.Context, c *dashboard.Controller) error {
			return c.CreateProject(ctx, msg.Input)
		})

	case views.LoginRequest:
		client, session, logger := a.client, a.session, a.logger
		return a, func() tea.Msg {
			err := forms.Login(context.Background(), client, session, msg.Credentials)
			if err != nil {
				logger.Warn("login failed", zap.Error(err))
			} else {
				logger.Info("logged in")
			}
			return views.LoginResult{Err: err}
		}

	case views.LoginResult:
		a.login.Update(msg)
		if msg.Err != nil || a.screen != ScreenLogin {
			return a, nil
		}
		a.status = ""
		return a, a.mount()

	case tea.KeyMsg:
		return a, a.updateKeys(msg)
	}

	return a, nil
}

func (a *App) updateKeys(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if a.screen == ScreenLogin {
		_, cmd := a.login.Update(msg)
		return cmd
	}

	if a.showHelp {
		a.showHelp = false
		return nil
	}

	if a.tab == TabProjects && a.projects.Capturing() {
		_, cmd := a.projects.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Projects):
		a.setTab(TabProjects)
		return nil
	case key.Matches(msg, a.keys.MyTasks):
		a.setTab(TabMyTasks)
		return nil
	case key.Matches(msg, a.keys.Refresh):
		a.status = "Refreshing..."
		a.statusErr = false
		return a.refresh()
	case key.Matches(msg, a.keys.Logout):
		a.logger.Info("logged out")
		return a.endSession("Logged out.")
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil
	}

	var cmd tea.Cmd
	switch a.tab {
	case TabProjects:
		_, cmd = a.projects.Update(msg)
	case TabMyTasks:
		_, cmd = a.myTasks.Update(msg)
	}
	return cmd
}

func (a *App) View() string {
	var content string
	switch {
	case a.screen == ScreenLogin:
		parts := []string{a.styles.Title.Render("taskdash"), "", a.login.View()}
		if a.status != "" {
			parts = append(parts, a.renderStatus())
		}
		content = lipgloss.JoinVertical(lipgloss.Left, parts...)
	case a.showHelp:
		content = a.renderHelp()
	default:
		content = lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), "", a.renderBody(), a.renderStatus())
	}
	return styles.CenterView(content, a.width, a.height)
}

func (a *App) renderBody() string {
	if a.ctrl != nil && a.ctrl.Loading() {
		return a.spinner.View() + " Loading..."
	}
	if a.tab == TabMyTasks {
		return a.myTasks.View()
	}
	return a.projects.View()
}

func (a *App) renderTabs() string {
	tabs := []struct {
		tab   Tab
		label string
	}{
		{TabProjects, "1 Projects"},
		{TabMyTasks, "2 My Tasks"},
	}

	var rendered []string
	for _, t := range tabs {
		if t.tab == a.tab {
			rendered = append(rendered, a.styles.TabActive.Render(t.label))
		} else {
			rendered = append(rendered, a.styles.Tab.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return a.styles.StatusError.Render(a.status)
	}
	return a.styles.StatusInfo.Render(a.status)
}

func (a *App) renderHelp() string {
	s := a.styles
	bindings := []key.Binding{
		a.keys.Projects, a.keys.MyTasks, a.keys.Up, a.keys.Down, a.keys.Enter,
		a.keys.Tab, a.keys.New, a.keys.NewProject, a.keys.Edit, a.keys.Toggle,
		a.keys.Delete, a.keys.Filter, a.keys.Refresh, a.keys.Logout, a.keys.Quit,
	}

	rows := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, b := range bindings {
		h := b.Help()
		rows = append(rows, fmt.Sprintf("%s  %s", s.HelpKey.Width(10).Render(h.Key), h.Desc))
	}
	rows = append(rows, "", s.TitleMuted.Render("Press any key to close"))
	return s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
