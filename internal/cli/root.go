package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskdash/internal/api"
	"github.com/tgienger/taskdash/internal/config"
	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/logging"
	"github.com/tgienger/taskdash/internal/ui"
	"go.uber.org/zap"
)

// BuildInfo is set via ldflags in main
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", b.Version, b.Commit, b.Date)
}

type App struct {
	ConfigPath string
	APIURL     string
	JSON       bool

	cfg *config.Config
}

func NewRootCmd(build BuildInfo) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskdash",
		Short:        "Terminal dashboard for a shared task backend",
		Version:      build.String(),
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  taskdash

  # Log in without the TUI
  TASKDASH_PASSWORD=secret taskdash login --email me@example.com

  # Print what is still open
  taskdash tasks --filter pending
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}
	cmd.SetVersionTemplate("taskdash {{.Version}}\n")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if app.APIURL != "" {
			cfg.APIURL = app.APIURL
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TASKDASH_CONFIG", ""), "Path to config file (default: $XDG_CONFIG_HOME/taskdash/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("TASKDASH_API_URL", ""), "Backend base URL (overrides api_url in the config file)")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "Print JSON instead of text")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newVersionCmd(build))

	return cmd
}

func newVersionCmd(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "taskdash %s\n", build)
			return err
		},
	}
}

// session bundles everything a command needs to talk to the backend
type session struct {
	store  *db.DB
	client *api.Client
	logger *zap.Logger
}

func (s *session) Close() {
	_ = s.logger.Sync()
	s.store.Close()
}

func openSession(app *App) (*session, error) {
	store, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger, err := logging.New(app.cfg.LogFile, app.cfg.LogLevel)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open log: %w", err)
	}
	logger = logger.With(zap.String("api_url", app.cfg.APIURL))

	return &session{
		store:  store,
		client: api.New(app.cfg.APIURL, store, app.cfg.Timeout),
		logger: logger,
	}, nil
}

func runTUI(app *App) error {
	s, err := openSession(app)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("starting dashboard")
	p := tea.NewProgram(ui.NewApp(s.client, s.store, s.logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		s.logger.Error("dashboard exited with error", zap.Error(err))
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
