package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskdash/internal/dashboard"
	"github.com/tgienger/taskdash/internal/models"
)

var errNotLoggedIn = errors.New("not logged in; run `taskdash login --email <email>`")

// fetch loads the dashboard state the same way the TUI does
func fetch(cmd *cobra.Command, app *App) (dashboard.State, error) {
	s, err := openSession(app)
	if err != nil {
		return dashboard.State{}, err
	}
	defer s.Close()

	ctrl := dashboard.New(s.client, s.store, s.logger)
	if err := ctrl.Refresh(cmd.Context()); err != nil {
		if errors.Is(err, dashboard.ErrNoSession) {
			return dashboard.State{}, errNotLoggedIn
		}
		return dashboard.State{}, err
	}
	return ctrl.Snapshot(), nil
}

func newProjectsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects and their tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := fetch(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			projects := make([]models.Project, len(state.Projects))
			for i, p := range state.Projects {
				p.Tasks = models.SortByPriority(p.Tasks)
				projects[i] = p
			}

			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), projects)
			}
			return writeProjects(cmd.OutOrStdout(), projects)
		},
	}
}

func newTasksCmd(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks assigned to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := models.ParseTaskFilter(filter)
			if err != nil {
				return writeErr(cmd, err)
			}

			state, err := fetch(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}

			tasks := f.Apply(state.MyTasks)
			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			return writeTasks(cmd.OutOrStdout(), tasks)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "Which tasks to show (all|pending|completed)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func writeProjects(w io.Writer, projects []models.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "No projects.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range projects {
		fmt.Fprintf(tw, "%s (#%d)\n", p.Name, p.ID)
		for _, t := range p.Tasks {
			assignee := t.AssignedTo.Name
			if assignee == "" {
				assignee = "-"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", check(t.Completed), t.Priority, t.Title, assignee)
		}
	}
	return tw.Flush()
}

func writeTasks(w io.Writer, tasks []models.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range tasks {
		project := "-"
		if t.Project != nil {
			project = t.Project.Name
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", check(t.Completed), t.ID, t.Priority, t.Title, project)
	}
	return tw.Flush()
}
