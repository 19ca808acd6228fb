package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/commands/options"
	"tableflip.dev/pomo/pkg/runner/tasks"
	"tableflip.dev/pomo/pkg/task"
)

func addTask(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks", "t"},
		Short:   "Manage the task board",
		Example: `
pomo task add write the report -e 3
pomo task list
pomo task start write the report
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTaskAdd(cmd)
	addTaskList(cmd)
	addTaskBoard(cmd)
	addTaskEdit(cmd)
	addTaskChange(cmd, tasks.Start, "Move a task to doing and work on it", task.Backlog)
	addTaskChange(cmd, tasks.Finish, "Move a task to done", task.Doing, task.Backlog)
	addTaskChange(cmd, tasks.Remove, "Delete a task")
	addTaskMove(cmd)
	addTaskCurrent(cmd)
	addTaskStats(cmd)
	addTaskClear(cmd)

	topLevel.AddCommand(cmd)
}

// taskRef returns the task named by args, or asks for one on a terminal.
// The picker offers tasks in statuses, or every task when none are given.
func taskRef(ctx context.Context, e *env, args []string, io *options.InteractiveOptions, label string, statuses ...task.Status) (string, error) {
	if len(args) > 0 && !io.Interactive {
		return strings.Join(args, " "), nil
	}
	if !io.Prompt() {
		return "", errors.New("requires a task id or name")
	}
	all, err := e.svc.Tasks(ctx)
	if err != nil {
		return "", err
	}
	candidates := all
	if len(statuses) > 0 {
		candidates = nil
		for _, s := range statuses {
			candidates = append(candidates, task.Filter(all, s)...)
		}
	}
	t, err := tasks.Picker{Label: label}.Pick(candidates)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

func addTaskAdd(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task to the backlog",
		Example: `
pomo task add write the report
pomo task add review -e 2 -t work -d "second pass"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := tasks.Add{
					Service:     e.svc,
					Name:        strings.Join(args, " "),
					Description: to.Description,
					Estimate:    to.Estimate,
					Tags:        to.Tags,
					Output:      tasks.Output{JSON: oo.JSON, ShowID: io.ShowID},
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddTaskArgs(cmd, to)
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTaskList(topLevel *cobra.Command) {
	so := &options.StatusOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List open tasks",
		Example: `
pomo task list
pomo task list --status done
pomo task list --all --show-id
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var status task.Status
			if so.Status != "" {
				var err error
				if status, err = task.ParseStatus(so.Status); err != nil {
					return err
				}
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := tasks.List{
					Service: e.svc,
					Status:  status,
					All:     so.All,
					Output:  tasks.Output{JSON: oo.JSON, ShowID: io.ShowID},
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddStatusArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTaskBoard(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show tasks grouped by backlog, doing and done",
		Example: `
pomo task board
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := tasks.List{
					Service: e.svc,
					Board:   true,
					Output:  tasks.Output{JSON: oo.JSON, ShowID: io.ShowID},
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTaskEdit(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	io := &options.InteractiveOptions{}
	var name, repeat string

	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change the fields of a task",
		Example: `
pomo task edit review --estimate 3
pomo task edit 1f3a --name "review draft" --tag work
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var u app.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				u.Name = &name
			}
			if flags.Changed("description") {
				u.Description = &to.Description
			}
			if flags.Changed("estimate") {
				u.Estimate = &to.Estimate
			}
			if flags.Changed("tag") {
				u.Tags = to.Tags
			}
			if flags.Changed("repeat") {
				rt := task.RepeatType(strings.ToLower(repeat))
				switch rt {
				case task.RepeatNone, task.RepeatDaily, task.RepeatWeekly:
				default:
					return fmt.Errorf("--repeat must be none, daily or weekly, got %q", repeat)
				}
				u.RepeatType = &rt
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				ref, err := taskRef(ctx, e, args, io, "Edit")
				if err != nil {
					return err
				}
				s := tasks.Edit{
					Service: e.svc,
					Ref:     ref,
					Update:  u,
					Output:  tasks.Output{JSON: oo.JSON},
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New name of the task.")
	cmd.Flags().StringVar(&repeat, "repeat", "", "Repeat the task: none, daily or weekly.")
	options.AddTaskArgs(cmd, to)
	options.InteractiveArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTaskChange(topLevel *cobra.Command, verb tasks.Verb, short string, pick ...task.Status) {
	io := &options.InteractiveOptions{}

	use := string(verb)
	var aliases []string
	switch verb {
	case tasks.Finish:
		aliases = []string{"finish", "complete"}
	case tasks.Remove:
		aliases = []string{"delete", "remove"}
	}

	cmd := &cobra.Command{
		Use:     use + " <task>",
		Aliases: aliases,
		Short:   short,
		Example: fmt.Sprintf(`
pomo task %s write the report
pomo task %s 1f3a
pomo task %s -i
`, use, use, use),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				ref, err := taskRef(ctx, e, args, io, short, pick...)
				if err != nil {
					return err
				}
				s := tasks.Change{
					Service: e.svc,
					Ref:     ref,
					Verb:    verb,
					Output:  tasks.Output{JSON: oo.JSON},
				}
				return s.Do(ctx)
			})
		},
	}

	options.InteractiveArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTaskMove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "move <task> <status>",
		Short: "Move a task to another column without side effects",
		Example: `
pomo task move review backlog
`,
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			out := make([]string, 0, len(task.Statuses))
			for _, s := range task.Statuses {
				out = append(out, s.String())
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		},
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := task.ParseStatus(args[len(args)-1])
			if err != nil {
				return err
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := tasks.Change{
					Service: e.svc,
					Ref:     strings.Join(args[:len(args)-1], " "),
					Verb:    tasks.Move,
					Status:  status,
					Output:  tasks.Output{JSON: oo.JSON},
				}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTaskCurrent(topLevel *cobra.Command) {
	io := &options.InteractiveOptions{}
	var clearCurrent bool

	cmd := &cobra.Command{
		Use:   "current [task]",
		Short: "Show or set the task the timer works on",
		Example: `
pomo task current
pomo task current review
pomo task current -i
pomo task current --clear
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := tasks.Current{
					Service: e.svc,
					Clear:   clearCurrent,
					Output:  tasks.Output{JSON: oo.JSON},
				}
				if len(args) > 0 || io.Interactive {
					ref, err := taskRef(ctx, e, args, io, "Work on", task.Doing, task.Backlog)
					if err != nil {
						return err
					}
					s.Ref = ref
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&clearCurrent, "clear", false, "Stop working on any task.")
	options.InteractiveArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTaskStats(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count tasks and pomodoros",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := tasks.Stats{Service: e.svc, Output: tasks.Output{JSON: oo.JSON}}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addTaskClear(topLevel *cobra.Command) {
	io := &options.InteractiveOptions{}
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Example: `
pomo task clear --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				if !io.Prompt() {
					return errors.New("refusing to delete every task without --yes")
				}
				confirm := promptui.Prompt{Label: "Delete every task", IsConfirm: true}
				if _, err := confirm.Run(); err != nil {
					return nil
				}
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := tasks.Clear{Service: e.svc, Output: tasks.Output{JSON: oo.JSON}}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")
	options.InteractiveArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
