package options

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
	NoPrompt    bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Pick from a list even when arguments are given.`)
	cmd.Flags().BoolVar(&o.NoPrompt, "no-prompt", false,
		`Never prompt, fail when arguments are missing.`)
}

// Prompt reports whether a picker may be shown on stdin.
func (o *InteractiveOptions) Prompt() bool {
	if o.NoPrompt {
		return false
	}
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
