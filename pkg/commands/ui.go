package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/runner/daemon"
	teaui "tableflip.dev/pomo/pkg/runner/tea"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the full screen timer",
		Example: `
pomo ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			return withEnv(cmd, func(_ context.Context, e *env) error {
				d := daemon.Daemon{
					Coordinator: e.timer,
					Log:         logger,
					Services: []daemon.Service{func(ctx context.Context) error {
						// Quitting the UI stops the timer loop too.
						defer cancel()
						return teaui.Run(ctx, e.svc, e.timer)
					}},
				}
				return d.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
