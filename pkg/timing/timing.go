// Package timing manages the user-facing session lengths. In normal mode the
// lengths are minutes; debug mode switches every value to seconds so a full
// cycle can be exercised quickly.
package timing

import (
	"fmt"
	"math"

	"tableflip.dev/pomo/pkg/session"
)

type Settings struct {
	WorkDuration       int  `json:"workDuration"`
	ShortBreakDuration int  `json:"shortBreakDuration"`
	LongBreakDuration  int  `json:"longBreakDuration"`
	DebugMode          bool `json:"isDebugMode"`
}

func Default() Settings {
	return Settings{WorkDuration: 25, ShortBreakDuration: 5, LongBreakDuration: 15}
}

func debugDefault() Settings {
	return Settings{WorkDuration: 30, ShortBreakDuration: 10, LongBreakDuration: 30, DebugMode: true}
}

// Options are the preset lengths offered for completion and pickers.
type Options struct {
	Work       []int
	ShortBreak []int
	LongBreak  []int
}

var (
	NormalOptions = Options{
		Work:       []int{15, 20, 25, 30, 35, 40, 45, 50, 55, 60},
		ShortBreak: []int{3, 5, 10, 15, 20, 25, 30},
		LongBreak:  []int{10, 15, 20, 25, 30, 45, 60},
	}
	DebugOptions = Options{
		Work:       []int{10, 30, 60, 120, 300},
		ShortBreak: []int{5, 10, 30, 60, 120},
		LongBreak:  []int{10, 30, 60, 180, 300},
	}
)

// OptionsFor returns the presets for the mode of s.
func OptionsFor(s Settings) Options {
	if s.DebugMode {
		return DebugOptions
	}
	return NormalOptions
}

// Validate fills zero fields with the defaults and clamps each length to the
// range allowed in its mode. Negative lengths clamp to the minimum.
func Validate(s Settings) Settings {
	d := Default()
	if s.WorkDuration == 0 {
		s.WorkDuration = d.WorkDuration
	}
	if s.ShortBreakDuration == 0 {
		s.ShortBreakDuration = d.ShortBreakDuration
	}
	if s.LongBreakDuration == 0 {
		s.LongBreakDuration = d.LongBreakDuration
	}

	if s.DebugMode {
		s.WorkDuration = clamp(s.WorkDuration, 5, 300)
		s.ShortBreakDuration = clamp(s.ShortBreakDuration, 5, 120)
		s.LongBreakDuration = clamp(s.LongBreakDuration, 10, 300)
		return s
	}
	s.WorkDuration = clamp(s.WorkDuration, 5, 120)
	s.ShortBreakDuration = clamp(s.ShortBreakDuration, 1, 60)
	s.LongBreakDuration = clamp(s.LongBreakDuration, 5, 120)
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

// ToggleDebug flips the mode and loads that mode's default lengths.
func (s Settings) ToggleDebug() Settings {
	if s.DebugMode {
		return Default()
	}
	return debugDefault()
}

func (s Settings) scale() int {
	if s.DebugMode {
		return 1
	}
	return 60
}

// Seconds holds the three lengths converted to seconds.
type Seconds struct {
	Work       int `json:"workDurationSeconds"`
	ShortBreak int `json:"shortBreakDurationSeconds"`
	LongBreak  int `json:"longBreakDurationSeconds"`
}

func (s Settings) Seconds() Seconds {
	n := s.scale()
	return Seconds{
		Work:       s.WorkDuration * n,
		ShortBreak: s.ShortBreakDuration * n,
		LongBreak:  s.LongBreakDuration * n,
	}
}

// BreakSeconds returns the length of the next break.
func (s Settings) BreakSeconds(long bool) int {
	sec := s.Seconds()
	if long {
		return sec.LongBreak
	}
	return sec.ShortBreak
}

// ApplyTo copies the work and short break lengths into timer settings.
func (s Settings) ApplyTo(ts session.Settings) session.Settings {
	sec := s.Seconds()
	ts.WorkDurationSec = sec.Work
	ts.BreakDurationSec = sec.ShortBreak
	return ts
}

// Unit is the suffix used for every length in the current mode.
func (s Settings) Unit() string {
	if s.DebugMode {
		return "s"
	}
	return "m"
}

// DisplayText holds the three lengths as labels such as "25m" or "30s".
type DisplayText struct {
	Work       string
	ShortBreak string
	LongBreak  string
}

func (s Settings) DisplayText() DisplayText {
	u := s.Unit()
	return DisplayText{
		Work:       fmt.Sprintf("%d%s", s.WorkDuration, u),
		ShortBreak: fmt.Sprintf("%d%s", s.ShortBreakDuration, u),
		LongBreak:  fmt.Sprintf("%d%s", s.LongBreakDuration, u),
	}
}

// Stats summarises the time a run of cycles takes, in display units.
type Stats struct {
	TotalWork    int    `json:"totalWorkTime"`
	TotalBreak   int    `json:"totalBreakTime"`
	TotalSession int    `json:"totalSessionTime"`
	Unit         string `json:"unit"`
}

// Stats computes the totals for cycles work runs with a long break every
// longBreakInterval cycles. No break follows the final cycle.
func (s Settings) Stats(cycles, longBreakInterval int) Stats {
	if cycles < 0 {
		cycles = 0
	}
	if longBreakInterval < 1 {
		longBreakInterval = 1
	}
	sec := s.Seconds()
	breaks := cycles - 1
	if breaks < 0 {
		breaks = 0
	}
	long := breaks / longBreakInterval
	short := breaks - long

	work := sec.Work * cycles
	rest := sec.ShortBreak*short + sec.LongBreak*long
	div := float64(s.scale())
	return Stats{
		TotalWork:    int(math.Round(float64(work) / div)),
		TotalBreak:   int(math.Round(float64(rest) / div)),
		TotalSession: int(math.Round(float64(work+rest) / div)),
		Unit:         s.Unit(),
	}
}
