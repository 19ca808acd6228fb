package coordinator

import (
	"errors"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/cycle"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/task"
	"tableflip.dev/pomo/pkg/timing"
)

// Action names a request handled by Dispatch.
type Action string

const (
	ActionStart               Action = "start"
	ActionStop                Action = "stop"
	ActionReset               Action = "reset"
	ActionGetState            Action = "getState"
	ActionUpdateBadge         Action = "updateBadge"
	ActionPlaySound           Action = "playSound"
	ActionUpdateSettings      Action = "updateSettings"
	ActionCompleteCurrentSlot Action = "completeCurrentSlot"
	ActionGetCurrentTaskInfo  Action = "getCurrentTaskInfo"
)

// Actions lists every action in the order they are documented.
var Actions = []Action{
	ActionStart, ActionStop, ActionReset, ActionGetState, ActionUpdateBadge,
	ActionPlaySound, ActionUpdateSettings, ActionCompleteCurrentSlot, ActionGetCurrentTaskInfo,
}

var ErrUnknownAction = errors.New("coordinator: unknown action")

// SettingsUpdate carries the optional parts of an updateSettings request.
type SettingsUpdate struct {
	SoundEnabled  *bool            `json:"soundEnabled,omitempty"`
	TimeSettings  *timing.Settings `json:"timeSettings,omitempty"`
	CycleSettings *cycle.Settings  `json:"cycleSettings,omitempty"`
}

// Message is a request from a front end.
type Message struct {
	Action   Action          `json:"action"`
	Settings *SettingsUpdate `json:"settings,omitempty"`
	// SessionType selects the sound for playSound.
	SessionType session.Type `json:"sessionType,omitempty"`
}

// Response answers a Message. Snapshot is always set.
type Response struct {
	Success     bool                `json:"success"`
	Error       string              `json:"error,omitempty"`
	Snapshot    Snapshot            `json:"snapshot"`
	CurrentTask *task.Task          `json:"currentTask,omitempty"`
	Pomodoro    *app.PomodoroResult `json:"pomodoro,omitempty"`
}

// Snapshot is a consistent view of the timer for display.
type Snapshot struct {
	State         session.State    `json:"state"`
	Settings      session.Settings `json:"settings"`
	TimeSettings  timing.Settings  `json:"timeSettings"`
	CycleSettings cycle.Settings   `json:"cycleSettings"`
	Cycle         cycle.State      `json:"cycle"`
	Remaining     int              `json:"remainingTime"`
	Badge         string           `json:"badge"`
	BadgeColor    string           `json:"badgeColor"`
	Progress      session.Progress `json:"progress"`
}
