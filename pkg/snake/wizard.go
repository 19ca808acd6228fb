// Package snake walks the flags of a command on a terminal and sets the ones
// the user picks.
package snake

import (
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Wizard prompts on Stdin and Stdout, or the terminal when they are nil.
type Wizard struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// ForCommand returns a wizard on the command's input and output.
func ForCommand(cmd *cobra.Command) Wizard {
	return Wizard{
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: nopCloser{cmd.OutOrStdout()},
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Flags lists the visible flags of cmd, leaving out help and skip.
func Flags(cmd *cobra.Command, skip ...string) []*pflag.Flag {
	skipped := map[string]bool{"help": true}
	for _, s := range skip {
		skipped[s] = true
	}
	var fs []*pflag.Flag
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden && !skipped[f.Name] {
			fs = append(fs, f)
		}
	})
	return fs
}

// PromptFlags lets the user pick flags of cmd one at a time and sets each
// answer on the flag set, until Done is chosen.
func (w Wizard) PromptFlags(cmd *cobra.Command, skip ...string) error {
	fs := Flags(cmd, skip...)
	if len(fs) == 0 {
		return nil
	}
	fs = append(fs, &pflag.Flag{
		Name:  "done",
		Usage: "apply the answers",
		Value: &continueType{},
	})

	templates := &promptui.SelectTemplates{
		Label:    "{{ . | magenta }}?",
		Active:   "➜ {{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }} {{ .Usage | cyan }}{{ end }}",
		Inactive: "  {{ if eq .Value.Type \"continue\" }}{{ .Name | faint | green }}{{ else }}{{ .Name }} {{ .Usage | cyan }}{{ end }}",
		Selected: "{{ .Name | bold }}",
		Details: `
--------- Details ----------
current: {{ .Value.String }}
type: {{ .Value.Type }}
`,
	}

	index := 0
	for {
		prompt := promptui.Select{
			HideHelp:  true,
			Label:     "Change",
			Items:     fs,
			Templates: templates,
			Size:      10,
			CursorPos: index,
			Searcher:  searcher(fs),
			Stdin:     w.Stdin,
			Stdout:    w.Stdout,
		}
		i, _, err := prompt.Run()
		if err != nil {
			return err
		}
		index = i

		f := fs[i]
		var value string
		switch t := f.Value.Type(); t {
		case "continue":
			return nil
		case "bool":
			value, err = w.PromptBool(f)
		case "int":
			value, err = w.prompt(f, validateInt)
		case "string":
			value, err = w.prompt(f, func(string) error { return nil })
		default:
			_, _ = fmt.Fprintf(w.out(), "%q flags can not be set here, pass %s instead\n", t, asFlag(f))
			continue
		}
		if err != nil {
			return err
		}
		if err := cmd.Flags().Set(f.Name, value); err != nil {
			return fmt.Errorf("%s: %w", asFlag(f), err)
		}
	}
}

func (w Wizard) out() io.Writer {
	if w.Stdout == nil {
		return io.Discard
	}
	return w.Stdout
}

func searcher(fs []*pflag.Flag) func(string, int) bool {
	return func(input string, index int) bool {
		name := strings.ReplaceAll(strings.ToLower(fs[index].Name), " ", "")
		input = strings.ReplaceAll(strings.ToLower(input), " ", "")
		return strings.Contains(name, input)
	}
}

func asFlag(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("--%s, -%s", f.Name, f.Shorthand)
	}
	return fmt.Sprintf("--%s", f.Name)
}

type continueType struct{}

func (*continueType) String() string   { return "" }
func (*continueType) Set(string) error { return nil }
func (*continueType) Type() string     { return "continue" }
