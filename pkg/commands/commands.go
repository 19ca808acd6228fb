package commands

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tableflip.dev/pomo/pkg/commands/options"
)

var (
	oo     = &base.OutputOptions{}
	lo     = &options.LogOptions{}
	logger = zap.NewNop()
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "pomo",
		Short: base.Wrap80("Pomodoro timer with a task board and daily plans."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := lo.Logger(zapcore.WarnLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddLogArgs(cmd, lo)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addStart(topLevel)
	addStop(topLevel)
	addReset(topLevel)
	addStatus(topLevel)
	addComplete(topLevel)
	addSettings(topLevel)
	addTask(topLevel)
	addPlan(topLevel)
	addDaemon(topLevel)
	addMCP(topLevel)
	addUI(topLevel)
	addKey(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
