package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the task, run and slot symbols",
		Example: `
pomo key
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.Key{Out: cmd.OutOrStdout()}
			err := k.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
