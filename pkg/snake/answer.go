package snake

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/pflag"
)

var answerTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . }} : ",
	Valid:   "{{ . | green }} : ",
	Invalid: "{{ . | red }} : ",
	Success: "{{ . | bold }} : ",
}

// PromptBool asks for a yes or no answer. An empty answer keeps the current
// value.
func (w Wizard) PromptBool(f *pflag.Flag) (string, error) {
	current, _ := ParseBool(f.Value.String())
	label := "yes/[no]"
	if current {
		label = "[yes]/no"
	}
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s %s", f.Name, label),
		Templates: answerTemplates,
		Validate:  validateBool,
		Stdin:     w.Stdin,
		Stdout:    w.Stdout,
	}
	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result) == "" {
		return strconv.FormatBool(current), nil
	}
	b, _ := ParseBool(result)
	return strconv.FormatBool(b), nil
}

func (w Wizard) prompt(f *pflag.Flag, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s (%s)", f.Name, f.Usage),
		Default:   f.Value.String(),
		Templates: answerTemplates,
		Validate:  validate,
		Stdin:     w.Stdin,
		Stdout:    w.Stdout,
	}
	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

func validateBool(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	_, err := ParseBool(input)
	return err
}

func validateInt(input string) error {
	_, err := strconv.Atoi(strings.TrimSpace(input))
	return err
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch strings.TrimSpace(str) {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
