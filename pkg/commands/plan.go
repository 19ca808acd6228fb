package commands

import (
	"context"
	"strconv"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/commands/options"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/runner/dayplan"
	"tableflip.dev/pomo/pkg/task"
)

func addPlan(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "plan [date]",
		Aliases: []string{"today"},
		Short:   "Show the pomodoro slots of a day",
		Long: base.Wrap80("Every day has a row of slots, one per pomodoro. Tasks " +
			"are planned into slots and each finished pomodoro completes one."),
		Example: `
pomo plan
pomo plan 2025-03-03
pomo plan assign 1 write the report
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := dayplan.Show{
					Service: e.svc,
					Output:  dayplan.Output{JSON: oo.JSON, ShowID: io.ShowID},
				}
				if len(args) == 1 {
					s.Date = args[0]
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)

	addPlanAssign(cmd)
	addPlanUnassign(cmd)
	addPlanComplete(cmd)
	addPlanSwap(cmd)
	addPlanResize(cmd)
	addPlanClear(cmd)
	addPlanStats(cmd)
	addPlanReport(cmd)
	addPlanCarry(cmd)

	topLevel.AddCommand(cmd)
}

func addPlanAssign(topLevel *cobra.Command) {
	io := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "assign <slot> <task>",
		Short: "Plan a task into slots, starting at slot",
		Long: base.Wrap80("The task takes the slot and the free slots after it, " +
			"up to its estimate, and moves to doing."),
		Example: `
pomo plan assign 1 write the report
pomo plan assign 3 -i
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				ref, err := taskRef(ctx, e, args[1:], io, "Plan", task.Backlog, task.Doing)
				if err != nil {
					return err
				}
				s := dayplan.Assign{
					Service: e.svc,
					Slot:    args[0],
					Task:    ref,
					Output:  dayplan.Output{JSON: oo.JSON},
				}
				return s.Do(ctx)
			})
		},
	}

	options.InteractiveArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addPlanUnassign(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "unassign <slot>",
		Short: "Free a slot and every other slot of its task",
		Example: `
pomo plan unassign 2
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := dayplan.Unassign{
					Service: e.svc,
					Slot:    args[0],
					Output:  dayplan.Output{JSON: oo.JSON},
				}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addPlanComplete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "complete [slot]",
		Short: "Mark a slot done, the current one by default",
		Example: `
pomo plan complete
pomo plan complete 2
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := dayplan.Complete{
					Service: e.svc,
					Output:  dayplan.Output{JSON: oo.JSON},
				}
				if len(args) == 1 {
					s.Slot = args[0]
				}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addPlanSwap(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "swap <slot> <slot>",
		Short: "Exchange the tasks of two slots",
		Example: `
pomo plan swap 1 4
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := dayplan.Swap{
					Service: e.svc,
					A:       args[0],
					B:       args[1],
					Output:  dayplan.Output{JSON: oo.JSON},
				}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addPlanResize(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "resize <slots>",
		Short: "Change the number of slots today and on later days",
		Example: `
pomo plan resize 8
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := dayplan.Resize{
					Service: e.svc,
					Slots:   n,
					Output:  dayplan.Output{JSON: oo.JSON},
				}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addPlanClear(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Free every slot of today's plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := dayplan.Clear{Service: e.svc, Output: dayplan.Output{JSON: oo.JSON}}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addPlanStats(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stats [date]",
		Short: "Show the statistics of a day",
		Example: `
pomo plan stats
pomo plan stats 2025-03-03
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := dayplan.Stats{Service: e.svc, Output: dayplan.Output{JSON: oo.JSON}}
				if len(args) == 1 {
					s.Date = args[0]
				}
				return s.Do(ctx)
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addPlanReport(topLevel *cobra.Command) {
	ro := &options.ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show finished pomodoros of the last days",
		Example: `
pomo plan report
pomo plan report --last 2w
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			since, until, err := ro.Window(time.Now())
			if err != nil {
				return err
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := dayplan.Report{
					Service: e.svc,
					Since:   since,
					Until:   until,
					Output:  dayplan.Output{JSON: oo.JSON},
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddReportArgs(cmd, ro)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addPlanCarry(topLevel *cobra.Command) {
	ro := &options.ReportOptions{}
	var all bool

	cmd := &cobra.Command{
		Use:   "carry [task...]",
		Short: "Plan unfinished tasks from earlier days into today",
		Long: base.Wrap80("Without arguments the unfinished tasks planned in the " +
			"window are listed. Name tasks, or pass --all, to plan them into today's free slots."),
		Example: `
pomo plan carry
pomo plan carry 1f3a 9bc0
pomo plan carry --all --last 3d
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			since, _, err := ro.Window(time.Now())
			if err != nil {
				return err
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				s := dayplan.CarryOver{
					Service: e.svc,
					Since:   plan.DateKey(since),
					Refs:    args,
					All:     all,
					Output:  dayplan.Output{JSON: oo.JSON},
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Carry every unfinished task.")
	options.AddReportArgs(cmd, ro)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
