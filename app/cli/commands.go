package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskmanager/app/models"
	"taskmanager/app/ui"
)

func (r *RootCommand) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register <name> <email> <password>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.report(r.app.Register(cmd.Context(), args[0], args[1], args[2])); err != nil {
				return err
			}
			r.printUser()
			return nil
		},
	}
}

func (r *RootCommand) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.report(r.app.Login(cmd.Context(), args[0], args[1])); err != nil {
				return err
			}
			r.printUser()
			return nil
		},
	}
}

func (r *RootCommand) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.report(r.app.Logout())
		},
	}
}

func (r *RootCommand) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.report(r.app.Whoami(cmd.Context())); err != nil {
				return err
			}
			r.printUser()
			return nil
		},
	}
}

func (r *RootCommand) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := r.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			ui.RenderDashboard(r.out, d)
			return nil
		},
	}
}

func (r *RootCommand) addCommand() *cobra.Command {
	var description, priority string

	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := r.app.Dashboard()
			if err != nil {
				return r.report(ui.Result{Action: ui.ActionCreate, Err: err})
			}
			d.Form.Title = strings.Join(args, " ")
			d.Form.Description = description
			if priority != "" {
				d.Form.Priority = models.Priority(priority)
			}
			if err := r.report(d.Submit(cmd.Context())); err != nil {
				return err
			}
			ui.RenderTask(r.out, 1, d.Tasks[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Task priority: low, medium or high (default medium)")
	return cmd
}

func (r *RootCommand) toggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <ref>",
		Short: "Mark a task completed, or not completed",
		Long:  "Toggle completion of a task given by its number in 'taskctl list', its id, or a unique id prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := r.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			task, err := d.Resolve(args[0])
			if err != nil {
				return r.report(ui.Result{Action: ui.ActionToggle, Err: err})
			}
			if err := r.report(d.Toggle(cmd.Context(), task.ID)); err != nil {
				return err
			}
			for i, t := range d.Tasks {
				if t.ID == task.ID {
					ui.RenderTask(r.out, i+1, t)
				}
			}
			return nil
		},
	}
}

func (r *RootCommand) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long:    "Delete a task given by its number in 'taskctl list', its id, or a unique id prefix.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := r.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			task, err := d.Resolve(args[0])
			if err != nil {
				return r.report(ui.Result{Action: ui.ActionDelete, Err: err})
			}
			return r.report(d.Delete(cmd.Context(), task.ID))
		},
	}
}

func (r *RootCommand) printUser() {
	if sess := r.app.Session(); sess != nil {
		fmt.Fprintf(r.out, "%s <%s>\n", sess.User.Name, sess.User.Email)
	}
}
