package glyph

import (
	"testing"

	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/task"
)

func TestForStatus(t *testing.T) {
	tests := map[task.Status]Glyph{
		task.Backlog: Backlog,
		task.Doing:   Doing,
		task.Done:    Done,
		"":           Backlog,
	}
	for status, want := range tests {
		if got := ForStatus(status); got != want {
			t.Errorf("ForStatus(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestForSlot(t *testing.T) {
	tests := []struct {
		name string
		slot *plan.Slot
		want Glyph
	}{
		{"free", &plan.Slot{}, SlotFree},
		{"planned", &plan.Slot{TaskID: "a"}, SlotPlanned},
		{"done", &plan.Slot{TaskID: "a", Completed: true}, SlotDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForSlot(tt.slot); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForSession(t *testing.T) {
	if ForSession(session.Work) != Work || ForSession(session.Break) != Break {
		t.Fatal("unexpected session glyph")
	}
}

func TestLegendKeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, g := range Legend() {
		if seen[g.Key] {
			t.Fatalf("duplicate key %q", g.Key)
		}
		seen[g.Key] = true
	}
}

func TestStrike(t *testing.T) {
	if got, want := Strike("x"), "\x1b[9mx\x1b[0m"; got != want {
		t.Fatalf("Strike = %q, want %q", got, want)
	}
}
