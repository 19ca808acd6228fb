// Package cycle tracks progress through a run of work/break cycles and decides
// when a long break is due.
package cycle

import (
	"fmt"
	"math"

	"tableflip.dev/pomo/pkg/session"
)

type Settings struct {
	TotalCycles       int  `json:"totalCycles"`
	LongBreakInterval int  `json:"longBreakInterval"`
	CurrentCycle      int  `json:"currentCycle"`
	Completed         bool `json:"isCompleted"`
}

func Default() Settings {
	return Settings{TotalCycles: 4, LongBreakInterval: 4, CurrentCycle: 1}
}

// IntervalOptions are the allowed long break intervals.
var IntervalOptions = []int{2, 3, 4, 5, 6, 7, 8}

// Validate fills zero fields with the defaults and clamps the total to 1..10,
// the interval to 2..8 and the current cycle to at least 1.
func Validate(s Settings) Settings {
	d := Default()
	if s.TotalCycles == 0 {
		s.TotalCycles = d.TotalCycles
	}
	if s.LongBreakInterval == 0 {
		s.LongBreakInterval = d.LongBreakInterval
	}
	if s.CurrentCycle == 0 {
		s.CurrentCycle = d.CurrentCycle
	}
	s.TotalCycles = clamp(s.TotalCycles, 1, 10)
	s.LongBreakInterval = clamp(s.LongBreakInterval, 2, 8)
	if s.CurrentCycle < 1 {
		s.CurrentCycle = 1
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Advance moves to the next cycle after a finished work run. Finished breaks
// leave s unchanged. Past the last cycle s is marked completed and the current
// cycle stays on the total.
func Advance(s Settings, finished session.Type) Settings {
	if finished != session.Work {
		return s
	}
	next := s.CurrentCycle + 1
	if next > s.TotalCycles {
		s.CurrentCycle = s.TotalCycles
		s.Completed = true
		return s
	}
	s.CurrentCycle = next
	s.Completed = false
	return s
}

// Reset returns to the first cycle.
func Reset(s Settings) Settings {
	s.CurrentCycle = 1
	s.Completed = false
	return s
}

// LongBreakDue reports whether the break after a finished run of type
// finished in the current cycle should be long.
func LongBreakDue(s Settings, finished session.Type) bool {
	return finished == session.Work &&
		s.LongBreakInterval > 0 &&
		s.CurrentCycle%s.LongBreakInterval == 0 &&
		s.CurrentCycle < s.TotalCycles
}

// State is the derived view of a cycle run shown to users.
type State struct {
	CurrentCycle       int           `json:"currentCycle"`
	TotalCycles        int           `json:"totalCycles"`
	LastCycle          bool          `json:"isLastCycle"`
	NextSessionType    *session.Type `json:"nextSessionType"`
	ProgressPercentage float64       `json:"progressPercentage"`
	Completed          bool          `json:"isCompleted"`
}

// StateOf derives the user-facing state while a run of type current is
// active. NextSessionType is nil on the last cycle.
func StateOf(s Settings, current session.Type) State {
	st := State{
		CurrentCycle: s.CurrentCycle,
		TotalCycles:  s.TotalCycles,
		LastCycle:    s.CurrentCycle >= s.TotalCycles,
		Completed:    s.Completed,
	}
	if s.TotalCycles > 0 {
		st.ProgressPercentage = math.Min(100, float64(s.CurrentCycle)/float64(s.TotalCycles)*100)
	}
	if !st.LastCycle {
		next := current.Next()
		st.NextSessionType = &next
	}
	return st
}

type Stats struct {
	CompletedCycles int     `json:"completedCycles"`
	RemainingCycles int     `json:"remainingCycles"`
	CompletionRate  float64 `json:"completionRate"`
}

// StatsOf counts finished and outstanding cycles. A completed run reports
// every cycle as finished.
func StatsOf(s Settings) Stats {
	st := Stats{
		CompletedCycles: max(0, s.CurrentCycle-1),
		RemainingCycles: max(0, s.TotalCycles-s.CurrentCycle+1),
	}
	if s.Completed {
		st.CompletedCycles = s.TotalCycles
		st.RemainingCycles = 0
	}
	if s.TotalCycles > 0 {
		st.CompletionRate = float64(st.CompletedCycles) / float64(s.TotalCycles) * 100
	}
	return st
}

// ProgressText is "2/4 cycles", or "Complete! (4/4)" once done.
func ProgressText(st State) string {
	if st.Completed {
		return fmt.Sprintf("Complete! (%d/%d)", st.TotalCycles, st.TotalCycles)
	}
	return fmt.Sprintf("%d/%d cycles", st.CurrentCycle, st.TotalCycles)
}

func NextSessionText(st State) string {
	switch {
	case st.Completed:
		return "All cycles complete"
	case st.NextSessionType == nil:
		return "Final session"
	case *st.NextSessionType == session.Work:
		return "Next: work"
	default:
		return "Next: break"
	}
}

func CompletionMessage(st State) string {
	switch {
	case st.Completed:
		return fmt.Sprintf("Congratulations! All %d cycles complete.", st.TotalCycles)
	case st.LastCycle:
		return "Final cycle, almost there."
	default:
		return fmt.Sprintf("Cycle %d complete, moving on.", st.CurrentCycle-1)
	}
}
