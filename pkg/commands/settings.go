package commands

import (
	"context"
	"errors"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/pomo/pkg/commands/options"
	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/printers"
	"tableflip.dev/pomo/pkg/runner/timer"
	"tableflip.dev/pomo/pkg/snake"
)

func addSettings(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the timer settings",
		Example: `
pomo settings
pomo settings set --work=50m --short-break=10m
pomo settings set --debug
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				snap := e.timer.Snapshot()
				if oo.JSON {
					return printers.JSON(cmd.OutOrStdout(), snap)
				}
				pp := printers.PrettyPrint{}
				pp.Settings(snap)
				return nil
			})
		},
	}

	base.AddOutputArg(cmd, oo)
	addSettingsSet(cmd)
	topLevel.AddCommand(cmd)
}

func addSettingsSet(topLevel *cobra.Command) {
	so := &options.SettingsOptions{}
	io := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the timer settings",
		Long: base.Wrap80("Only the flags given are changed. Lengths are minutes, " +
			"or seconds in debug mode, unless a unit is given."),
		Example: `
pomo settings set --work=45 --cycles=6
pomo settings set --sound --long-break-every=3
pomo settings set --slots=8
pomo settings set -i
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if io.Interactive && io.Prompt() {
				if err := snake.ForCommand(cmd).PromptFlags(cmd, settingsMeta...); err != nil {
					return err
				}
			}
			if !changedAny(cmd, settingsMeta...) {
				return errors.New("nothing to change, see --help")
			}
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				if cmd.Flags().Changed("slots") {
					if err := e.svc.SetDailySlots(ctx, so.Slots); err != nil {
						return err
					}
				}
				snap := e.timer.Snapshot()
				ts, err := so.TimeSettings(cmd, snap.TimeSettings)
				if err != nil {
					return err
				}
				cs := so.CycleSettings(cmd, snap.CycleSettings)
				update := &coordinator.SettingsUpdate{TimeSettings: &ts, CycleSettings: &cs}
				if cmd.Flags().Changed("sound") {
					update.SoundEnabled = &so.Sound
				}
				t := timer.Timer{
					Coordinator: e.timer,
					Message:     coordinator.Message{Action: coordinator.ActionUpdateSettings, Settings: update},
					JSON:        oo.JSON,
				}
				return t.Do(ctx)
			})
		},
	}

	options.AddSettingsArgs(cmd, so)
	options.InteractiveArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

// settingsMeta are the flags of settings set that change nothing themselves.
var settingsMeta = []string{"interactive", "no-prompt", "json"}

func changedAny(cmd *cobra.Command, skip ...string) bool {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}
	changed := false
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if !skipped[f.Name] {
			changed = true
		}
	})
	return changed
}
