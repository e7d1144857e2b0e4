package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/dashboard"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

type projectItem struct {
	project  models.Project
	expanded bool
}

func (i projectItem) Title() string { return i.project.Name }
func (i projectItem) Description() string {
	n := len(i.project.Tasks)
	noun := "tasks"
	if n == 1 {
		noun = "task"
	}
	desc := fmt.Sprintf("%d %s", n, noun)
	if !i.project.CreatedAt.IsZero() {
		desc += " • created " + i.project.CreatedAt.Format("Jan 2, 2006")
	}
	return desc
}
func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)

	var base lipgloss.Style
	switch {
	case index == m.Index():
		base = d.styles.ListSelected
	case p.expanded:
		base = d.styles.ListExpanded
	default:
		base = d.styles.ListItem
	}

	marker := "▸ "
	if p.expanded {
		marker = "▾ "
	}

	title := base.Width(width).Render(marker + p.Title())
	desc := base.Foreground(styles.Colors.Muted).Width(width).Render("  " + p.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

type projectsFocus int

const (
	focusProjectList projectsFocus = iota
	focusProjectTasks
)

// ProjectsView lists every project. One project at a time can be expanded to
// show its tasks ordered by priority.
type ProjectsView struct {
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	projects   []models.Project
	users      []models.User
	expandedID int64
	expanded   bool
	focus      projectsFocus
	taskCursor int

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	taskModal    *TaskModal
	projectModal *ProjectModal
}

func NewProjectsView(s *styles.Styles, k keys.KeyMap) *ProjectsView {
	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = s.Title

	return &ProjectsView{
		list:         l,
		delegate:     delegate,
		styles:       s,
		keys:         k,
		taskModal:    NewTaskModal(s, k),
		projectModal: NewProjectModal(s, k),
	}
}

// SetData replaces the projects and user roster with a fresh snapshot. The
// expanded project is looked up again by id so it shows the new tasks.
func (v *ProjectsView) SetData(projects []models.Project, users []models.User) {
	v.projects = projects
	v.users = users

	if v.expanded {
		if _, ok := models.FindProject(projects, v.expandedID); !ok {
			v.collapse()
		}
	}
	v.syncItems()
	v.taskCursor = clamp(v.taskCursor, 0, max(len(v.expandedTasks())-1, 0))
	if v.focus == focusProjectTasks && len(v.expandedTasks()) == 0 {
		v.focus = focusProjectList
	}
}

func (v *ProjectsView) syncItems() {
	idx := v.list.Index()
	items := make([]list.Item, len(v.projects))
	for i, p := range v.projects {
		items[i] = projectItem{project: p, expanded: v.expanded && p.ID == v.expandedID}
	}
	v.list.SetItems(items)
	if len(items) > 0 {
		v.list.Select(clamp(idx, 0, len(items)-1))
	}
}

// Expanded returns the expanded project, if any
func (v *ProjectsView) Expanded() (models.Project, bool) {
	if !v.expanded {
		return models.Project{}, false
	}
	return models.FindProject(v.projects, v.expandedID)
}

func (v *ProjectsView) expandedTasks() []models.Task {
	p, ok := v.Expanded()
	if !ok {
		return nil
	}
	return models.SortByPriority(p.Tasks)
}

func (v *ProjectsView) selectedProject() (models.Project, bool) {
	item, ok := v.list.SelectedItem().(projectItem)
	if !ok {
		return models.Project{}, false
	}
	return item.project, true
}

func (v *ProjectsView) selectedTask() (models.Task, bool) {
	tasks := v.expandedTasks()
	if v.focus != focusProjectTasks || v.taskCursor >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[v.taskCursor], true
}

// Capturing reports whether a dialog owns the keyboard
func (v *ProjectsView) Capturing() bool {
	return v.confirmingDelete || v.taskModal.IsOpen() || v.projectModal.IsOpen()
}

// TaskModal returns the task dialog
func (v *ProjectsView) TaskModal() *TaskModal { return v.taskModal }

// ProjectModal returns the project dialog
func (v *ProjectsView) ProjectModal() *ProjectModal { return v.projectModal }

// OpenTaskModal opens the task dialog for existing, or for a new task in projectID
func (v *ProjectsView) OpenTaskModal(existing *models.Task, projectID int64) tea.Cmd {
	return v.taskModal.Open(existing, projectID, v.users)
}

func (v *ProjectsView) collapse() {
	v.expanded = false
	v.expandedID = 0
	v.focus = focusProjectList
}

func (v *ProjectsView) toggleExpanded(id int64) {
	if v.expanded && v.expandedID == id {
		v.collapse()
	} else {
		v.expanded = true
		v.expandedID = id
		v.taskCursor = 0
	}
	v.syncItems()
}

func (v *ProjectsView) Init() tea.Cmd { return nil }

func (v *ProjectsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, max(msg.Height/2, 6))
		return v, nil

	case TaskSaved:
		v.taskModal.Finish(msg.Err)
		return v, nil

	case ProjectSaved:
		v.projectModal.Finish(msg.Err)
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v, v.updateConfirmDelete(msg)
		}
		if v.taskModal.IsOpen() {
			return v, v.taskModal.Update(msg)
		}
		if v.projectModal.IsOpen() {
			return v, v.projectModal.Update(msg)
		}
		return v, v.updateList(msg)
	}
	return v, nil
}

func (v *ProjectsView) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.focus == focusProjectTasks {
			v.taskCursor = max(v.taskCursor-1, 0)
		} else {
			v.list.CursorUp()
		}

	case key.Matches(msg, v.keys.Down):
		if v.focus == focusProjectTasks {
			v.taskCursor = clamp(v.taskCursor+1, 0, max(len(v.expandedTasks())-1, 0))
		} else {
			v.list.CursorDown()
		}

	case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.ShiftTab):
		if v.focus == focusProjectTasks {
			v.focus = focusProjectList
		} else if len(v.expandedTasks()) > 0 {
			v.focus = focusProjectTasks
		}

	case key.Matches(msg, v.keys.Enter):
		if t, ok := v.selectedTask(); ok {
			return v.OpenTaskModal(&t, v.expandedID)
		}
		if p, ok := v.selectedProject(); ok {
			v.toggleExpanded(p.ID)
		}

	case key.Matches(msg, v.keys.Edit):
		if t, ok := v.selectedTask(); ok {
			return v.OpenTaskModal(&t, v.expandedID)
		}

	case key.Matches(msg, v.keys.New):
		projectID, ok := v.expandedID, v.expanded
		if v.focus == focusProjectList {
			if p, found := v.selectedProject(); found {
				projectID, ok = p.ID, true
			}
		}
		if ok {
			return v.OpenTaskModal(nil, projectID)
		}

	case key.Matches(msg, v.keys.NewProject):
		return v.projectModal.Open()

	case key.Matches(msg, v.keys.Toggle):
		if t, ok := v.selectedTask(); ok {
			return send(ToggleTaskStatus{TaskID: t.ID, Completed: t.Completed})
		}

	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.selectedTask(); ok {
			return send(DeleteTask{TaskID: t.ID})
		}
		if p, ok := v.selectedProject(); ok {
			v.confirmingDelete = true
			v.deleteTargetID = p.ID
			v.deleteTargetName = p.Name
		}
	}
	return nil
}

func (v *ProjectsView) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		return send(DeleteProject{ProjectID: v.deleteTargetID, Confirmed: true})
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return nil
}

func (v *ProjectsView) View() string {
	switch {
	case v.confirmingDelete:
		return v.renderDeleteConfirm()
	case v.taskModal.IsOpen():
		return v.taskModal.View(v.width)
	case v.projectModal.IsOpen():
		return v.projectModal.View(v.width)
	}

	if len(v.projects) == 0 {
		return v.renderEmpty()
	}

	parts := []string{v.list.View()}
	if p, ok := v.Expanded(); ok {
		parts = append(parts, v.renderTasks(p))
	}
	parts = append(parts, v.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *ProjectsView) renderTasks(p models.Project) string {
	s := v.styles
	header := s.Title.Render(p.Name)
	tasks := v.expandedTasks()
	if len(tasks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, s.TitleMuted.Render("  No tasks yet. Press 'n' to add one."))
	}

	rows := []string{header}
	for i, t := range tasks {
		rows = append(rows, renderTaskRow(s, t, v.focus == focusProjectTasks && i == v.taskCursor, true))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderTaskRow draws one task line. Completed tasks are struck through.
func renderTaskRow(s *styles.Styles, t models.Task, selected, showAssignee bool) string {
	check := "[ ]"
	title := s.TaskTitle.Render(t.Title)
	if t.Completed {
		check = "[✓]"
		title = s.TaskDone.Render(t.Title)
	}

	meta := []string{s.Priority(t.Priority).Render(string(t.Priority))}
	if showAssignee && t.AssignedTo.Name != "" {
		meta = append(meta, s.TaskMeta.Render("@"+t.AssignedTo.Name))
	}
	if !showAssignee && t.Project != nil {
		meta = append(meta, s.TaskMeta.Render(t.Project.Name))
	}

	line := fmt.Sprintf("%s %s  %s", check, title, strings.Join(meta, " "))
	if selected {
		return s.ListSelected.Render(line)
	}
	return s.ListItem.Render(line)
}

func (v *ProjectsView) renderEmpty() string {
	s := v.styles
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'N' to create your first project"),
	)
}

func (v *ProjectsView) renderHelp() string {
	s := v.styles
	if w := styles.ContentWidth(v.width); w > 0 && w < 60 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	return s.Help.Render(
		fmt.Sprintf("%s expand • %s focus • %s new task • %s new project • %s edit • %s done • %s del",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("tab"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("N"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("d"),
		),
	)
}

func (v *ProjectsView) renderDeleteConfirm() string {
	s := v.styles
	return s.Modal.Render(lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Colors.High).Render("Delete Project?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q", v.deleteTargetName)),
		s.TitleMuted.Render(dashboard.DeleteProjectPrompt),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	))
}
