package options

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/cycle"
	"tableflip.dev/pomo/pkg/timeutil"
	"tableflip.dev/pomo/pkg/timing"
)

// SettingsOptions
type SettingsOptions struct {
	Work       string
	ShortBreak string
	LongBreak  string
	Debug      bool
	Cycles     int
	Interval   int
	Sound      bool
	Slots      int
}

func AddSettingsArgs(cmd *cobra.Command, o *SettingsOptions) {
	cmd.Flags().StringVarP(&o.Work, "work", "w", "",
		`Work length, example: --work=25m or --work=50.`)
	cmd.Flags().StringVarP(&o.ShortBreak, "short-break", "b", "",
		`Short break length, example: --short-break=5m.`)
	cmd.Flags().StringVarP(&o.LongBreak, "long-break", "l", "",
		`Long break length, example: --long-break=15m.`)
	cmd.Flags().BoolVar(&o.Debug, "debug", false,
		"Count lengths in seconds for quick testing.")
	cmd.Flags().IntVarP(&o.Cycles, "cycles", "c", 0,
		"Work runs per cycle plan, 1 to 10.")
	cmd.Flags().IntVar(&o.Interval, "long-break-every", 0,
		"Take a long break after this many work runs, 2 to 8.")
	cmd.Flags().BoolVar(&o.Sound, "sound", false,
		"Play a sound when a run finishes.")
	cmd.Flags().IntVar(&o.Slots, "slots", 0,
		"Pomodoro slots in a new day plan.")

	lengths := func(pick func(timing.Options) []int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return completeInts(pick(timing.OptionsFor(timing.Settings{DebugMode: o.Debug}))), cobra.ShellCompDirectiveNoFileComp
		}
	}
	_ = cmd.RegisterFlagCompletionFunc("work", lengths(func(o timing.Options) []int { return o.Work }))
	_ = cmd.RegisterFlagCompletionFunc("short-break", lengths(func(o timing.Options) []int { return o.ShortBreak }))
	_ = cmd.RegisterFlagCompletionFunc("long-break", lengths(func(o timing.Options) []int { return o.LongBreak }))
	_ = cmd.RegisterFlagCompletionFunc("long-break-every", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return completeInts(cycle.IntervalOptions), cobra.ShellCompDirectiveNoFileComp
	})
}

func completeInts(vals []int) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, strconv.Itoa(v))
	}
	return out
}

// TimeSettings applies the length flags that were set to current. Lengths
// are converted to minutes, or seconds in debug mode.
func (o *SettingsOptions) TimeSettings(cmd *cobra.Command, current timing.Settings) (timing.Settings, error) {
	next := current
	if cmd.Flags().Changed("debug") && o.Debug != current.DebugMode {
		next = current.ToggleDebug()
	}
	unit := time.Minute
	if next.DebugMode {
		unit = time.Second
	}
	for _, f := range []struct {
		flag  string
		value string
		dst   *int
	}{
		{"work", o.Work, &next.WorkDuration},
		{"short-break", o.ShortBreak, &next.ShortBreakDuration},
		{"long-break", o.LongBreak, &next.LongBreakDuration},
	} {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		d, err := timeutil.ParseDuration(f.value, unit)
		if err != nil {
			return current, fmt.Errorf("--%s: %w", f.flag, err)
		}
		*f.dst = int(d / unit)
	}
	return timing.Validate(next), nil
}

// CycleSettings applies the cycle flags that were set to current.
func (o *SettingsOptions) CycleSettings(cmd *cobra.Command, current cycle.Settings) cycle.Settings {
	next := current
	if cmd.Flags().Changed("cycles") {
		next.TotalCycles = o.Cycles
	}
	if cmd.Flags().Changed("long-break-every") {
		next.LongBreakInterval = o.Interval
	}
	return next
}
