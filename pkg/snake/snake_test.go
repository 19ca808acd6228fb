package snake

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"yes": true, "Y": true, "true": true, "no": false, "F": false, "0": false} {
		got, err := ParseBool(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateBool(""))
	assert.NoError(t, validateBool("yes"))
	assert.Error(t, validateBool("sure"))
	assert.NoError(t, validateInt(" 25 "))
	assert.Error(t, validateInt("25m"))
}

func TestFlagsSkipsHiddenAndHelp(t *testing.T) {
	cmd := &cobra.Command{Use: "set"}
	cmd.Flags().Bool("sound", false, "")
	cmd.Flags().String("work", "", "")
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("secret", false, "")
	_ = cmd.Flags().MarkHidden("secret")
	cmd.InitDefaultHelpFlag()

	var names []string
	for _, f := range Flags(cmd, "json") {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"sound", "work"}, names)
}
