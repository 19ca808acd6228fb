package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/pomo/pkg/cycle"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/task"
	"tableflip.dev/pomo/pkg/timing"
)

// Stored keys.
const (
	KeyTimerState    = "timerState"
	KeyTimerSettings = "timerSettings"
	KeyTimeSettings  = "timeSettings"
	KeyCycleSettings = "cycleSettings"
	KeyTasks         = "tasks"
	KeyTaskSettings  = "taskSettings"
	PrefixDayPlans   = "dayPlans/"
	PrefixStatistics = "statistics/"
)

// Persistence defines the persistence contract for timer, task and plan data.
// Settings are validated on load; a missing value yields its defaults.
type Persistence interface {
	// TimerState reports false when no state has been saved yet.
	TimerState() (session.State, bool, error)
	SaveTimerState(s session.State) error
	TimerSettings() (session.Settings, error)
	SaveTimerSettings(s session.Settings) error
	TimeSettings() (timing.Settings, error)
	SaveTimeSettings(s timing.Settings) error
	CycleSettings() (cycle.Settings, error)
	SaveCycleSettings(s cycle.Settings) error

	Tasks() ([]*task.Task, error)
	SaveTasks(tasks []*task.Task) error
	TaskSettings() (task.Settings, error)
	SaveTaskSettings(s task.Settings) error

	// DayPlan returns ErrNotFound when no plan exists for date.
	DayPlan(date string) (*plan.DayPlan, error)
	SaveDayPlan(p *plan.DayPlan) error
	DeleteDayPlan(date string) error
	DayPlanDates(ctx context.Context) ([]string, error)
	Statistics(date string) (plan.Statistics, error)
	SaveStatistics(s plan.Statistics) error

	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// New wraps a backend with the typed persistence layer.
func New(b Backend) Persistence {
	return &persistence{b: b}
}

type persistence struct {
	b Backend
}

// get decodes the value at key into v and reports whether it existed.
func (p *persistence) get(key string, v any) (bool, error) {
	data, err := p.b.Read(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return true, nil
}

func (p *persistence) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return p.b.Write(key, data)
}

func (p *persistence) TimerState() (session.State, bool, error) {
	var s session.State
	ok, err := p.get(KeyTimerState, &s)
	return s, ok, err
}

func (p *persistence) SaveTimerState(s session.State) error {
	return p.put(KeyTimerState, s)
}

func (p *persistence) TimerSettings() (session.Settings, error) {
	var s session.Settings
	if _, err := p.get(KeyTimerSettings, &s); err != nil {
		return session.DefaultSettings(), err
	}
	return s.Merge(), nil
}

func (p *persistence) SaveTimerSettings(s session.Settings) error {
	return p.put(KeyTimerSettings, s)
}

func (p *persistence) TimeSettings() (timing.Settings, error) {
	var s timing.Settings
	if _, err := p.get(KeyTimeSettings, &s); err != nil {
		return timing.Default(), err
	}
	return timing.Validate(s), nil
}

func (p *persistence) SaveTimeSettings(s timing.Settings) error {
	return p.put(KeyTimeSettings, timing.Validate(s))
}

func (p *persistence) CycleSettings() (cycle.Settings, error) {
	var s cycle.Settings
	if _, err := p.get(KeyCycleSettings, &s); err != nil {
		return cycle.Default(), err
	}
	return cycle.Validate(s), nil
}

func (p *persistence) SaveCycleSettings(s cycle.Settings) error {
	return p.put(KeyCycleSettings, cycle.Validate(s))
}

func (p *persistence) Tasks() ([]*task.Task, error) {
	tasks := []*task.Task{}
	if _, err := p.get(KeyTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (p *persistence) SaveTasks(tasks []*task.Task) error {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return p.put(KeyTasks, tasks)
}

func (p *persistence) TaskSettings() (task.Settings, error) {
	s := task.DefaultSettings()
	if _, err := p.get(KeyTaskSettings, &s); err != nil {
		return task.DefaultSettings(), err
	}
	return s, nil
}

func (p *persistence) SaveTaskSettings(s task.Settings) error {
	return p.put(KeyTaskSettings, s)
}

func (p *persistence) DayPlan(date string) (*plan.DayPlan, error) {
	dp := &plan.DayPlan{}
	ok, err := p.get(PrefixDayPlans+date, dp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return dp, nil
}

func (p *persistence) SaveDayPlan(dp *plan.DayPlan) error {
	if dp.Date == "" {
		return errors.New("store: day plan has no date")
	}
	return p.put(PrefixDayPlans+dp.Date, dp)
}

func (p *persistence) DeleteDayPlan(date string) error {
	return p.b.Erase(PrefixDayPlans + date)
}

func (p *persistence) DayPlanDates(ctx context.Context) ([]string, error) {
	keys, err := p.b.Keys(ctx, PrefixDayPlans)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		dates = append(dates, strings.TrimPrefix(k, PrefixDayPlans))
	}
	return dates, nil
}

func (p *persistence) Statistics(date string) (plan.Statistics, error) {
	s := plan.Statistics{Date: date}
	_, err := p.get(PrefixStatistics+date, &s)
	return s, err
}

func (p *persistence) SaveStatistics(s plan.Statistics) error {
	return p.put(PrefixStatistics+s.Date, s)
}

func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if w, ok := p.b.(Watcher); ok {
		return w.Watch(ctx)
	}
	return nil, ErrWatchUnsupported
}

func (p *persistence) Close() error {
	return p.b.Close()
}
