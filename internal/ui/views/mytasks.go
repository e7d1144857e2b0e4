package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

// MyTasksView lists the tasks assigned to the current user
type MyTasksView struct {
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	tasks   []models.Task
	filter  models.TaskFilter
	cursor  int
	scrollY int
}

func NewMyTasksView(s *styles.Styles, k keys.KeyMap) *MyTasksView {
	return &MyTasksView{styles: s, keys: k}
}

// SetData replaces the task list with a fresh snapshot
func (v *MyTasksView) SetData(tasks []models.Task) {
	v.tasks = tasks
	v.clampCursor()
}

// Filter returns the active filter
func (v *MyTasksView) Filter() models.TaskFilter { return v.filter }

// SetFilter changes the active filter
func (v *MyTasksView) SetFilter(f models.TaskFilter) {
	v.filter = f
	v.cursor = 0
	v.scrollY = 0
}

// Visible returns the tasks that pass the filter, in priority order
func (v *MyTasksView) Visible() []models.Task {
	return v.filter.Apply(v.tasks)
}

func (v *MyTasksView) clampCursor() {
	v.cursor = clamp(v.cursor, 0, max(len(v.Visible())-1, 0))
	v.ensureVisible()
}

func (v *MyTasksView) visibleItems() int {
	if v.height == 0 {
		return len(v.tasks) + 1
	}
	return max(v.height-10, 1)
}

func (v *MyTasksView) ensureVisible() {
	n := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+n {
		v.scrollY = v.cursor - n + 1
	}
}

func (v *MyTasksView) selected() (models.Task, bool) {
	visible := v.Visible()
	if v.cursor >= len(visible) {
		return models.Task{}, false
	}
	return visible[v.cursor], true
}

func (v *MyTasksView) Init() tea.Cmd { return nil }

func (v *MyTasksView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ensureVisible()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			v.cursor = max(v.cursor-1, 0)
			v.ensureVisible()
		case key.Matches(msg, v.keys.Down):
			v.cursor++
			v.clampCursor()
		case key.Matches(msg, v.keys.Filter):
			v.SetFilter(v.filter.Next())
		case msg.String() == "a":
			v.SetFilter(models.FilterAll)
		case msg.String() == "p":
			v.SetFilter(models.FilterPending)
		case msg.String() == "c":
			v.SetFilter(models.FilterCompleted)
		case key.Matches(msg, v.keys.Toggle), key.Matches(msg, v.keys.Enter):
			if t, ok := v.selected(); ok {
				return v, send(ToggleTaskStatus{TaskID: t.ID, Completed: t.Completed})
			}
		case key.Matches(msg, v.keys.Delete):
			if t, ok := v.selected(); ok {
				return v, send(DeleteTask{TaskID: t.ID})
			}
		}
	}
	return v, nil
}

func (v *MyTasksView) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("My Tasks"),
		v.renderChips(),
		"",
		v.renderList(),
		v.renderHelp(),
	)
}

func (v *MyTasksView) renderChips() string {
	var chips []string
	for _, f := range []models.TaskFilter{models.FilterAll, models.FilterPending, models.FilterCompleted} {
		label := fmt.Sprintf(" %s ", strings.ToUpper(f.String()[:1])+f.String()[1:])
		if f == v.filter {
			chips = append(chips, v.styles.ChipActive.Render(label))
		} else {
			chips = append(chips, v.styles.Chip.Render(label))
		}
	}
	return strings.Join(chips, " ")
}

func (v *MyTasksView) renderList() string {
	s := v.styles
	visible := v.Visible()
	if len(visible) == 0 {
		if len(v.tasks) == 0 {
			return s.TitleMuted.Render("No tasks assigned to you.")
		}
		return s.TitleMuted.Render(fmt.Sprintf("No %s tasks.", v.filter))
	}

	end := min(v.scrollY+v.visibleItems(), len(visible))
	rows := make([]string, 0, end-v.scrollY)
	for i := v.scrollY; i < end; i++ {
		rows = append(rows, renderTaskRow(s, visible[i], i == v.cursor, false))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *MyTasksView) renderHelp() string {
	s := v.styles
	if w := styles.ContentWidth(v.width); w > 0 && w < 60 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	return s.Help.Render(
		fmt.Sprintf("%s filter • %s/%s/%s all/pending/completed • %s done • %s del",
			s.HelpKey.Render("f"),
			s.HelpKey.Render("a"),
			s.HelpKey.Render("p"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("d"),
		),
	)
}
