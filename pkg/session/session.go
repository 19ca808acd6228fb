// Package session holds the timer state machine. Every function is pure and
// takes the current time explicitly; elapsed time is always derived from the
// recorded start epoch rather than counted tick by tick.
package session

import (
	"fmt"
	"math"
	"time"
)

// Type is the kind of a timer run.
type Type string

const (
	Work  Type = "work"
	Break Type = "break"
)

// Next returns the type that follows t.
func (t Type) Next() Type {
	if t == Work {
		return Break
	}
	return Work
}

func (t Type) String() string { return string(t) }

// State is a single work or break run.
type State struct {
	Type          Type          `json:"type"`
	StartedAt     time.Time     `json:"startEpoch"`
	DurationSec   int           `json:"durationSec"`
	Running       bool          `json:"isRunning"`
	PausedAt      *time.Time    `json:"pausedAt,omitempty"`
	PausedElapsed time.Duration `json:"pausedElapsed,omitempty"`
}

// Paused reports whether the run was stopped part way through.
func (s State) Paused() bool {
	return !s.Running && s.PausedAt != nil && s.PausedElapsed > 0
}

// Settings are the timer lengths plus sound and plan preferences.
type Settings struct {
	WorkDurationSec    int    `json:"workDurationSec"`
	BreakDurationSec   int    `json:"breakDurationSec"`
	SoundEnabled       bool   `json:"soundEnabled"`
	WorkCompleteSound  string `json:"workCompleteSound"`
	BreakCompleteSound string `json:"breakCompleteSound"`
	DailySlots         int    `json:"dailySlots"`
}

const DefaultDailySlots = 6

// DefaultSettings returns 25 minute work and 5 minute break runs.
func DefaultSettings() Settings {
	return Settings{
		WorkDurationSec:    25 * 60,
		BreakDurationSec:   5 * 60,
		SoundEnabled:       false,
		WorkCompleteSound:  "sounds/work-complete.wav",
		BreakCompleteSound: "sounds/break-complete.wav",
		DailySlots:         DefaultDailySlots,
	}
}

// Merge fills zero fields of s from the defaults.
func (s Settings) Merge() Settings {
	d := DefaultSettings()
	if s.WorkDurationSec <= 0 {
		s.WorkDurationSec = d.WorkDurationSec
	}
	if s.BreakDurationSec <= 0 {
		s.BreakDurationSec = d.BreakDurationSec
	}
	if s.WorkCompleteSound == "" {
		s.WorkCompleteSound = d.WorkCompleteSound
	}
	if s.BreakCompleteSound == "" {
		s.BreakCompleteSound = d.BreakCompleteSound
	}
	if s.DailySlots <= 0 {
		s.DailySlots = d.DailySlots
	}
	return s
}

// DurationFor returns the configured length in seconds of a run of type t.
func (s Settings) DurationFor(t Type) int {
	if t == Work {
		return s.WorkDurationSec
	}
	return s.BreakDurationSec
}

// New returns a stopped run of type t.
func New(t Type, settings Settings, now time.Time) State {
	return State{
		Type:        t,
		StartedAt:   now,
		DurationSec: settings.DurationFor(t),
	}
}

// Start starts or resumes s. Starting a running timer is a no-op.
func Start(s State, now time.Time) State {
	if s.Running {
		return s
	}
	if s.Paused() {
		s.StartedAt = now.Add(-s.PausedElapsed)
	} else {
		s.StartedAt = now
	}
	s.Running = true
	s.PausedAt = nil
	s.PausedElapsed = 0
	return s
}

// Pause stops s and remembers how far it got. Pausing a stopped timer is a
// no-op.
func Pause(s State, now time.Time) State {
	if !s.Running {
		return s
	}
	at := now
	s.Running = false
	s.PausedAt = &at
	s.PausedElapsed = now.Sub(s.StartedAt)
	return s
}

// Reset discards progress and returns a fresh stopped run of the same type.
func Reset(s State, settings Settings, now time.Time) State {
	return New(s.Type, settings, now)
}

// Switch starts a run of the other type.
func Switch(s State, settings Settings, now time.Time) State {
	return Start(New(s.Type.Next(), settings, now), now)
}

// Remaining returns the whole seconds left in s, never negative.
func Remaining(s State, now time.Time) int {
	var elapsed time.Duration
	switch {
	case s.Running:
		elapsed = now.Sub(s.StartedAt)
	case s.PausedElapsed > 0:
		elapsed = s.PausedElapsed
	default:
		return s.DurationSec
	}
	left := s.DurationSec - int(elapsed/time.Second)
	if left < 0 {
		return 0
	}
	return left
}

// Completed reports whether no time is left in s.
func Completed(s State, now time.Time) bool {
	return Remaining(s, now) <= 0
}

// FormatClock renders seconds as zero padded MM:SS.
func FormatClock(sec int) string {
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

// FormatRemaining renders seconds as M:SS.
func FormatRemaining(sec int) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

// BadgeText is the minutes left rounded up, or empty when s is not running.
func BadgeText(s State, now time.Time) string {
	if !s.Running {
		return ""
	}
	return fmt.Sprintf("%d", int(math.Ceil(float64(Remaining(s, now))/60)))
}

const (
	WorkColor  = "#E53E3E"
	BreakColor = "#38A169"
)

// BadgeColor returns the badge background for a run of type t.
func BadgeColor(t Type) string {
	if t == Work {
		return WorkColor
	}
	return BreakColor
}

// Progress is the completion of a run for progress bars.
type Progress struct {
	Percentage float64 `json:"percentage"`
	Remaining  int     `json:"remainingTime"`
	Total      int     `json:"totalTime"`
	Type       Type    `json:"sessionType"`
	Running    bool    `json:"isRunning"`
}

// ProgressOf converts a remaining time into a 0..100 percentage of s.
func ProgressOf(s State, remaining int) Progress {
	p := Progress{
		Remaining: remaining,
		Total:     s.DurationSec,
		Type:      s.Type,
		Running:   s.Running,
	}
	if s.DurationSec > 0 {
		elapsed := float64(s.DurationSec-remaining) / float64(s.DurationSec) * 100
		p.Percentage = math.Max(0, math.Min(100, elapsed))
	}
	return p
}
