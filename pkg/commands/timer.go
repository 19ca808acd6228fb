package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/runner/timer"
)

// addTimerCommand adds a command that sends one action to the timer.
func addTimerCommand(topLevel *cobra.Command, cmd *cobra.Command, action coordinator.Action) {
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			t := timer.Timer{
				Coordinator: e.timer,
				Message:     coordinator.Message{Action: action},
				JSON:        oo.JSON,
			}
			return t.Do(ctx)
		})
	}
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addStart(topLevel *cobra.Command) {
	addTimerCommand(topLevel, &cobra.Command{
		Use:   "start",
		Short: "Start or resume the timer",
		Example: `
pomo start
`,
	}, coordinator.ActionStart)
}

func addStop(topLevel *cobra.Command) {
	addTimerCommand(topLevel, &cobra.Command{
		Use:     "stop",
		Aliases: []string{"pause"},
		Short:   "Pause the timer",
		Example: `
pomo stop
`,
	}, coordinator.ActionStop)
}

func addReset(topLevel *cobra.Command) {
	addTimerCommand(topLevel, &cobra.Command{
		Use:   "reset",
		Short: "Stop the timer and start over from the first cycle",
		Example: `
pomo reset
`,
	}, coordinator.ActionReset)
}

func addStatus(topLevel *cobra.Command) {
	addTimerCommand(topLevel, &cobra.Command{
		Use:     "status",
		Aliases: []string{"get"},
		Short:   "Show the timer",
		Example: `
pomo status
pomo status --json
`,
	}, coordinator.ActionGetState)
}

func addComplete(topLevel *cobra.Command) {
	addTimerCommand(topLevel, &cobra.Command{
		Use:   "complete",
		Short: "Record a pomodoro on the current slot or task",
		Long: base.Wrap80("Marks the first open slot of today's plan done. " +
			"When nothing is planned the pomodoro counts toward the current task."),
		Example: `
pomo complete
`,
	}, coordinator.ActionCompleteCurrentSlot)
}
