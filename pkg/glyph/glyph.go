// Package glyph holds the symbols used to draw tasks, slots and runs.
package glyph

import (
	"fmt"

	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/task"
)

type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
	// Slot is true for plan slot glyphs.
	Slot bool
}

func (g Glyph) String() string {
	return g.Symbol
}

const (
	escape     = "\x1b"
	resetCode  = 0
	boldCode   = 1
	strikeCode = 9
)

func Strike(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, strikeCode, in, escape, resetCode)
}

func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

var (
	Backlog = Glyph{Key: "backlog", Symbol: "○", Meaning: "task waiting in the backlog"}
	Doing   = Glyph{Key: "doing", Symbol: "◐", Meaning: "task in progress"}
	Done    = Glyph{Key: "done", Symbol: "●", Meaning: "task done"}
	Current = Glyph{Key: "current", Symbol: "›", Meaning: "task the timer is working on"}

	SlotFree    = Glyph{Key: "free", Symbol: "□", Meaning: "free slot", Slot: true}
	SlotPlanned = Glyph{Key: "planned", Symbol: "▣", Meaning: "slot with a task", Slot: true}
	SlotDone    = Glyph{Key: "complete", Symbol: "■", Meaning: "finished pomodoro", Slot: true}

	Work  = Glyph{Key: "work", Symbol: "◆", Meaning: "work run"}
	Break = Glyph{Key: "break", Symbol: "◇", Meaning: "break run"}
)

// Legend lists every glyph in display order.
func Legend() []Glyph {
	return []Glyph{Backlog, Doing, Done, Current, Work, Break, SlotFree, SlotPlanned, SlotDone}
}

func ForStatus(s task.Status) Glyph {
	switch s {
	case task.Doing:
		return Doing
	case task.Done:
		return Done
	default:
		return Backlog
	}
}

func ForSlot(s *plan.Slot) Glyph {
	switch {
	case s.Completed:
		return SlotDone
	case s.Assigned():
		return SlotPlanned
	default:
		return SlotFree
	}
}

func ForSession(t session.Type) Glyph {
	if t == session.Break {
		return Break
	}
	return Work
}
