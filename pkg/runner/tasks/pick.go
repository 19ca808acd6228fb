package tasks

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/pomo/pkg/task"
)

var ErrNothingToPick = errors.New("no tasks to pick from")

// Picker asks the user to choose a task on a terminal.
type Picker struct {
	Label  string
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Pick shows a searchable list of tasks and returns the chosen one.
func (p Picker) Pick(tasks []*task.Task) (*task.Task, error) {
	if len(tasks) == 0 {
		return nil, ErrNothingToPick
	}
	label := p.Label
	if label == "" {
		label = "Task"
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Name | bold }} {{ .Progress | green }}",
		Inactive: "   {{ .Name }} {{ .Progress | cyan }}",
		Selected: "{{ .Name | bold }}",
		Details: `
--------- Details ----------
{{ .Status }} {{ .Progress }}{{ if .Description }}
{{ .Description }}{{ end }}
`,
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Size:      10,
		Searcher:  searcher(tasks),
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	return tasks[i], nil
}

func searcher(tasks []*task.Task) func(string, int) bool {
	return func(input string, index int) bool {
		name := strings.ReplaceAll(strings.ToLower(tasks[index].Name), " ", "")
		input = strings.ReplaceAll(strings.ToLower(input), " ", "")
		return strings.Contains(name, input)
	}
}
