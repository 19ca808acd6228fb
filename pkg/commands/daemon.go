package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/runner/daemon"
)

// signalContext is cancelled on interrupt or terminate.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func addDaemon(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Keep the timer running in the foreground",
		Long: `Run the timer so sessions finish, notify and roll over on time.
Commands run from other shells are picked up from the store.`,
		Example: `
pomo daemon
pomo daemon -v
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()
			return withEnv(cmd, func(_ context.Context, e *env) error {
				d := daemon.Daemon{Coordinator: e.timer, Log: logger}
				return d.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
