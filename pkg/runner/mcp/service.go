// Package mcp provides the Model Context Protocol server integration for pomo.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/cycle"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/task"
	"tableflip.dev/pomo/pkg/timing"
)

// Service adapts the app service and the timer to transport-friendly DTOs.
type Service struct {
	App   *app.Service
	Timer *coordinator.Coordinator
}

var errNotConfigured = errors.New("mcp: service is not configured")

// TaskDTO is a transport-friendly projection of a task.
type TaskDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Estimate    int      `json:"estimatePomodoros"`
	Actual      int      `json:"actualPomodoros"`
	Progress    string   `json:"progress"`
	Tags        []string `json:"tags,omitempty"`
	Current     bool     `json:"current"`
	Created     string   `json:"created"`
	Completed   string   `json:"completed,omitempty"`
}

// TimerDTO describes the running timer.
type TimerDTO struct {
	Session       string   `json:"session"`
	Running       bool     `json:"running"`
	Paused        bool     `json:"paused"`
	Remaining     int      `json:"remainingSeconds"`
	RemainingText string   `json:"remaining"`
	Duration      int      `json:"durationSeconds"`
	Percentage    float64  `json:"percentage"`
	Badge         string   `json:"badge,omitempty"`
	Cycle         string   `json:"cycle"`
	Next          string   `json:"next"`
	CurrentTask   *TaskDTO `json:"currentTask,omitempty"`
}

// SlotDTO is one slot of a day plan.
type SlotDTO struct {
	Position  int    `json:"position"`
	ID        string `json:"id"`
	TaskID    string `json:"taskId,omitempty"`
	TaskName  string `json:"taskName,omitempty"`
	Completed bool   `json:"completed"`
}

// PlanDTO is a day plan with task names resolved.
type PlanDTO struct {
	Date    string       `json:"date"`
	Slots   []SlotDTO    `json:"slots"`
	Summary plan.Summary `json:"summary"`
}

// SettingsDTO holds the settings a client may change. Nil fields are left
// alone.
type SettingsDTO struct {
	WorkDuration       *int  `json:"workDuration,omitempty"`
	ShortBreakDuration *int  `json:"shortBreakDuration,omitempty"`
	LongBreakDuration  *int  `json:"longBreakDuration,omitempty"`
	DebugMode          *bool `json:"debugMode,omitempty"`
	TotalCycles        *int  `json:"totalCycles,omitempty"`
	LongBreakInterval  *int  `json:"longBreakInterval,omitempty"`
	SoundEnabled       *bool `json:"soundEnabled,omitempty"`
}

func NewService(svc *app.Service, timer *coordinator.Coordinator) *Service {
	return &Service{App: svc, Timer: timer}
}

func (s *Service) ready() error {
	if s.App == nil || s.Timer == nil {
		return errNotConfigured
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toTaskDTO(t *task.Task, currentID string) TaskDTO {
	created := t.CreatedAt
	return TaskDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status.String(),
		Estimate:    t.EstimatePomodoros,
		Actual:      t.ActualPomodoros,
		Progress:    t.Progress(),
		Tags:        t.Tags,
		Current:     t.ID == currentID,
		Created:     formatTime(&created),
		Completed:   formatTime(t.CompletedAt),
	}
}

func (s *Service) currentID(ctx context.Context) string {
	cur, err := s.App.CurrentTask(ctx)
	if err != nil || cur == nil {
		return ""
	}
	return cur.ID
}

func (s *Service) toTimerDTO(ctx context.Context, snap coordinator.Snapshot) (TimerDTO, error) {
	dto := TimerDTO{
		Session:       snap.State.Type.String(),
		Running:       snap.State.Running,
		Paused:        snap.State.Paused(),
		Remaining:     snap.Remaining,
		RemainingText: session.FormatRemaining(snap.Remaining),
		Duration:      snap.State.DurationSec,
		Percentage:    snap.Progress.Percentage,
		Badge:         snap.Badge,
		Cycle:         cycle.ProgressText(snap.Cycle),
		Next:          cycle.NextSessionText(snap.Cycle),
	}
	cur, err := s.App.CurrentTask(ctx)
	if err != nil {
		return dto, err
	}
	if cur != nil {
		t := toTaskDTO(cur, cur.ID)
		dto.CurrentTask = &t
	}
	return dto, nil
}

// TimerStatus returns the current timer state.
func (s *Service) TimerStatus(ctx context.Context) (TimerDTO, error) {
	if err := s.ready(); err != nil {
		return TimerDTO{}, err
	}
	return s.toTimerDTO(ctx, s.Timer.Snapshot())
}

// Control sends a timer action such as start, stop or reset.
func (s *Service) Control(ctx context.Context, action coordinator.Action) (TimerDTO, error) {
	if err := s.ready(); err != nil {
		return TimerDTO{}, err
	}
	switch action {
	case coordinator.ActionStart, coordinator.ActionStop, coordinator.ActionReset:
	default:
		return TimerDTO{}, fmt.Errorf("mcp: unsupported timer action %q", action)
	}
	resp, err := s.Timer.Dispatch(ctx, coordinator.Message{Action: action})
	if err != nil {
		return TimerDTO{}, err
	}
	if !resp.Success {
		return TimerDTO{}, errors.New(resp.Error)
	}
	return s.toTimerDTO(ctx, resp.Snapshot)
}

// CompletePomodoro credits a pomodoro to the current slot or task.
func (s *Service) CompletePomodoro(ctx context.Context) (*TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	resp, err := s.Timer.Dispatch(ctx, coordinator.Message{Action: coordinator.ActionCompleteCurrentSlot})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errors.New(resp.Error)
	}
	if resp.Pomodoro == nil || resp.Pomodoro.Task == nil {
		return nil, nil
	}
	dto := toTaskDTO(resp.Pomodoro.Task, s.currentID(ctx))
	return &dto, nil
}

// UpdateSettings changes timer lengths, cycles or sound.
func (s *Service) UpdateSettings(ctx context.Context, in SettingsDTO) (coordinator.Snapshot, error) {
	if err := s.ready(); err != nil {
		return coordinator.Snapshot{}, err
	}
	cur := s.Timer.Snapshot()
	ts := cur.TimeSettings
	if in.DebugMode != nil && *in.DebugMode != ts.DebugMode {
		ts = ts.ToggleDebug()
	}
	setInt(&ts.WorkDuration, in.WorkDuration)
	setInt(&ts.ShortBreakDuration, in.ShortBreakDuration)
	setInt(&ts.LongBreakDuration, in.LongBreakDuration)
	cs := cur.CycleSettings
	setInt(&cs.TotalCycles, in.TotalCycles)
	setInt(&cs.LongBreakInterval, in.LongBreakInterval)

	ts = timing.Validate(ts)
	resp, err := s.Timer.Dispatch(ctx, coordinator.Message{
		Action: coordinator.ActionUpdateSettings,
		Settings: &coordinator.SettingsUpdate{
			SoundEnabled:  in.SoundEnabled,
			TimeSettings:  &ts,
			CycleSettings: &cs,
		},
	})
	if err != nil {
		return coordinator.Snapshot{}, err
	}
	if !resp.Success {
		return resp.Snapshot, errors.New(resp.Error)
	}
	return resp.Snapshot, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// ListTasks returns tasks, optionally limited to one status.
func (s *Service) ListTasks(ctx context.Context, status string) ([]TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tasks, err := s.App.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	if status != "" {
		st, err := task.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		tasks = task.Filter(tasks, st)
	}
	currentID := s.currentID(ctx)
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskDTO(t, currentID))
	}
	return out, nil
}

// AddTask creates a backlog task.
func (s *Service) AddTask(ctx context.Context, name, description string, estimate int, tags []string) (*TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.App.AddTask(ctx, name, description, estimate)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if t, err = s.App.UpdateTask(ctx, t.ID, app.TaskUpdate{Tags: tags}); err != nil {
			return nil, err
		}
	}
	dto := toTaskDTO(t, s.currentID(ctx))
	return &dto, nil
}

// MoveTask moves a task to a kanban status. Moving to doing also makes the
// task current.
func (s *Service) MoveTask(ctx context.Context, ref, status string) (*TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	st, err := task.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	var t *task.Task
	switch st {
	case task.Doing:
		t, err = s.App.StartTask(ctx, ref)
	case task.Done:
		t, err = s.App.CompleteTask(ctx, ref)
	default:
		t, err = s.App.MoveTask(ctx, ref, st)
	}
	if err != nil {
		return nil, err
	}
	dto := toTaskDTO(t, s.currentID(ctx))
	return &dto, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, ref string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.App.DeleteTask(ctx, ref)
}

// SetCurrentTask picks the task the timer works on. Empty clears it.
func (s *Service) SetCurrentTask(ctx context.Context, ref string) (*TaskDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	t, err := s.App.SetCurrentTask(ctx, ref)
	if err != nil || t == nil {
		return nil, err
	}
	dto := toTaskDTO(t, t.ID)
	return &dto, nil
}

// Plan returns the plan of date, or today's when date is empty.
func (s *Service) Plan(ctx context.Context, date string) (PlanDTO, error) {
	if err := s.ready(); err != nil {
		return PlanDTO{}, err
	}
	var (
		p   *plan.DayPlan
		err error
	)
	if date == "" {
		p, err = s.App.TodayPlan(ctx)
	} else {
		p, err = s.App.DayPlan(ctx, date)
	}
	if err != nil {
		return PlanDTO{}, err
	}
	tasks, err := s.App.Tasks(ctx)
	if err != nil {
		return PlanDTO{}, err
	}
	dto := PlanDTO{Date: p.Date, Summary: p.Summary(), Slots: make([]SlotDTO, 0, len(p.Slots))}
	for i, slot := range p.Slots {
		sd := SlotDTO{Position: i + 1, ID: slot.ID, TaskID: slot.TaskID, Completed: slot.Completed}
		if t := task.Find(tasks, slot.TaskID); t != nil {
			sd.TaskName = t.Name
		}
		dto.Slots = append(dto.Slots, sd)
	}
	return dto, nil
}

// AssignTask plans a task into today's slots starting at slot.
func (s *Service) AssignTask(ctx context.Context, slot, ref string) (PlanDTO, error) {
	if err := s.ready(); err != nil {
		return PlanDTO{}, err
	}
	if _, err := s.App.AssignTaskToSlot(ctx, slot, ref); err != nil {
		return PlanDTO{}, err
	}
	return s.Plan(ctx, "")
}

// UnassignSlot frees a slot of today's plan.
func (s *Service) UnassignSlot(ctx context.Context, slot string) (PlanDTO, error) {
	if err := s.ready(); err != nil {
		return PlanDTO{}, err
	}
	if _, err := s.App.RemoveTaskFromSlot(ctx, slot); err != nil {
		return PlanDTO{}, err
	}
	return s.Plan(ctx, "")
}

// Statistics returns the statistics of date, or today's when empty.
func (s *Service) Statistics(ctx context.Context, date string) (plan.Statistics, error) {
	if err := s.ready(); err != nil {
		return plan.Statistics{}, err
	}
	if date == "" {
		return s.App.UpdateTodayStatistics(ctx)
	}
	return s.App.Statistics(ctx, date)
}
