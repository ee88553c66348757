// Package cli implements the taskctl command line on top of the ui package.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"taskmanager/app/client"
	"taskmanager/app/logging"
	"taskmanager/app/ui"
)

// ErrActionFailed is returned after a failed action has already been
// reported on the error output.
var ErrActionFailed = errors.New("action failed")

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	out    io.Writer
	errOut io.Writer

	server    string
	configDir string
	debug     bool

	app *ui.App
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(out, errOut io.Writer) *RootCommand {
	root := &RootCommand{out: out, errOut: errOut}

	root.cmd = &cobra.Command{
		Use:   "taskctl",
		Short: "A command-line client for the task manager",
		Long: `taskctl manages your tasks on a task manager server.

EXAMPLES:
  taskctl register Ann ann@example.com s3cret   # Create an account and log in
  taskctl add "Buy milk" --priority high        # Create a task
  taskctl list                                  # Show your tasks, newest first
  taskctl toggle 1                              # Mark the first task done (or undone)
  taskctl rm 1                                  # Delete the first task

CONFIGURATION:
  TASKCTL_SERVER       Server URL (default: http://localhost:5000)
  TASKCTL_CONFIG_DIR   Session directory (default: $XDG_CONFIG_HOME/taskctl)
  TASKCTL_DEBUG        Log API calls to stderr when set`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the command line with args.
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	r.cmd.SetOut(r.out)
	r.cmd.SetErr(r.errOut)
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()
	flags.StringVar(&r.server, "server", envOr("TASKCTL_SERVER", client.DefaultBaseURL), "Server URL (overrides TASKCTL_SERVER)")
	flags.StringVar(&r.configDir, "config-dir", os.Getenv("TASKCTL_CONFIG_DIR"), "Directory holding the session file (overrides TASKCTL_CONFIG_DIR)")
	flags.BoolVar(&r.debug, "debug", logging.DebugEnabled("TASKCTL_DEBUG"), "Log API calls to stderr")
}

func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.registerCommand(),
		r.loginCommand(),
		r.logoutCommand(),
		r.whoamiCommand(),
		r.listCommand(),
		r.addCommand(),
		r.toggleCommand(),
		r.rmCommand(),
	)
}

func (r *RootCommand) setup() error {
	logger := logging.Discard()
	if r.debug {
		logger = logging.New(r.errOut, true)
	}

	c, err := client.New(client.Options{BaseURL: r.server, Logger: logger})
	if err != nil {
		return err
	}
	app, err := ui.NewApp(ui.NewSessionStore(r.configDir), c, logger)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

// report renders res and turns a failure into ErrActionFailed.
func (r *RootCommand) report(res ui.Result) error {
	if !ui.RenderResult(r.out, r.errOut, res) {
		return ErrActionFailed
	}
	return nil
}

// dashboard opens and loads the dashboard, reporting any failure.
func (r *RootCommand) dashboard(ctx context.Context) (*ui.Dashboard, error) {
	d, err := r.app.Dashboard()
	if err != nil {
		return nil, r.report(ui.Result{Action: ui.ActionLoad, Err: err})
	}
	if err := r.report(d.Load(ctx)); err != nil {
		return nil, err
	}
	return d, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
