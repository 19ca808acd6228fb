package timing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/pomo/pkg/session"
)

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		in   Settings
		want Settings
	}{
		"empty": {
			in:   Settings{},
			want: Default(),
		},
		"normal clamps": {
			in:   Settings{WorkDuration: 1, ShortBreakDuration: 90, LongBreakDuration: 500},
			want: Settings{WorkDuration: 5, ShortBreakDuration: 60, LongBreakDuration: 120},
		},
		"debug clamps": {
			in:   Settings{WorkDuration: 1, ShortBreakDuration: 500, LongBreakDuration: 3, DebugMode: true},
			want: Settings{WorkDuration: 5, ShortBreakDuration: 120, LongBreakDuration: 10, DebugMode: true},
		},
		"negative clamps to minimum": {
			in:   Settings{WorkDuration: -3, ShortBreakDuration: -1, LongBreakDuration: -20},
			want: Settings{WorkDuration: 5, ShortBreakDuration: 1, LongBreakDuration: 5},
		},
		"debug negative clamps to minimum": {
			in:   Settings{WorkDuration: -3, ShortBreakDuration: -1, LongBreakDuration: -20, DebugMode: true},
			want: Settings{WorkDuration: 5, ShortBreakDuration: 5, LongBreakDuration: 10, DebugMode: true},
		},
		"debug keeps long runs": {
			in:   Settings{WorkDuration: 300, ShortBreakDuration: 30, LongBreakDuration: 300, DebugMode: true},
			want: Settings{WorkDuration: 300, ShortBreakDuration: 30, LongBreakDuration: 300, DebugMode: true},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Validate(tc.in)); diff != "" {
				t.Fatalf("unexpected settings (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSecondsAndApply(t *testing.T) {
	normal := Default().Seconds()
	if normal != (Seconds{Work: 1500, ShortBreak: 300, LongBreak: 900}) {
		t.Fatalf("unexpected normal seconds %+v", normal)
	}
	debug := Default().ToggleDebug()
	if got := debug.Seconds(); got != (Seconds{Work: 30, ShortBreak: 10, LongBreak: 30}) {
		t.Fatalf("unexpected debug seconds %+v", got)
	}
	if debug.BreakSeconds(true) != 30 || debug.BreakSeconds(false) != 10 {
		t.Fatalf("unexpected break lengths")
	}

	ts := debug.ApplyTo(session.DefaultSettings())
	if ts.WorkDurationSec != 30 || ts.BreakDurationSec != 10 || ts.DailySlots != 6 {
		t.Fatalf("unexpected timer settings %+v", ts)
	}
}

func TestToggleDebug(t *testing.T) {
	custom := Settings{WorkDuration: 50, ShortBreakDuration: 10, LongBreakDuration: 30}
	debug := custom.ToggleDebug()
	if diff := cmp.Diff(Settings{WorkDuration: 30, ShortBreakDuration: 10, LongBreakDuration: 30, DebugMode: true}, debug); diff != "" {
		t.Fatalf("unexpected debug settings (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Default(), debug.ToggleDebug()); diff != "" {
		t.Fatalf("unexpected normal settings (-want +got):\n%s", diff)
	}
}

func TestDisplayText(t *testing.T) {
	if got := Default().DisplayText(); got.Work != "25m" || got.ShortBreak != "5m" || got.LongBreak != "15m" {
		t.Fatalf("unexpected labels %+v", got)
	}
	if got := Default().ToggleDebug().DisplayText(); got.Work != "30s" {
		t.Fatalf("unexpected debug label %q", got.Work)
	}
}

func TestStats(t *testing.T) {
	got := Default().Stats(4, 4)
	want := Stats{TotalWork: 100, TotalBreak: 15, TotalSession: 115, Unit: "m"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got = Default().Stats(5, 2)
	// 4 breaks, every second one long: 2 short + 2 long.
	want = Stats{TotalWork: 125, TotalBreak: 40, TotalSession: 165, Unit: "m"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if got := Default().Stats(0, 4); got.TotalSession != 0 {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}
