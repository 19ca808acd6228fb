package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/store"
	"tableflip.dev/pomo/pkg/task"
)

// PomodoroResult describes the effect of completing a slot.
type PomodoroResult struct {
	Slot *plan.Slot
	Task *task.Task
	// TaskDone is set when this pomodoro reached the task's estimate.
	TaskDone bool
	// Next is the task made current by AutoStartNextTask, if any.
	Next *task.Task
}

func (s *Service) savePlan(p *plan.DayPlan) error {
	p.UpdatedAt = s.now()
	return s.Persistence.SaveDayPlan(p)
}

func (s *Service) todayPlan() (*plan.DayPlan, error) {
	date := plan.DateKey(s.now())
	p, err := s.Persistence.DayPlan(date)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	ts, err := s.Persistence.TimerSettings()
	if err != nil {
		return nil, err
	}
	p = plan.New(date, ts.DailySlots, s.now())
	if err := s.Persistence.SaveDayPlan(p); err != nil {
		return nil, err
	}
	return p, nil
}

// TodayPlan returns today's plan, creating it with the configured number of
// daily slots when it does not exist yet.
func (s *Service) TodayPlan(ctx context.Context) (*plan.DayPlan, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todayPlan()
}

// DayPlan returns the stored plan for date (YYYY-MM-DD).
func (s *Service) DayPlan(ctx context.Context, date string) (*plan.DayPlan, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.DayPlan(date)
}

// ResolveSlot finds a slot by id or by 1-based position.
func ResolveSlot(p *plan.DayPlan, ref string) (*plan.Slot, error) {
	ref = strings.TrimSpace(ref)
	if slot, err := p.Slot(ref); err == nil {
		return slot, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if slot, err := p.At(n - 1); err == nil {
			return slot, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", plan.ErrSlotNotFound, ref)
}

// AssignTaskToSlot binds the task to the referenced slot of today's plan and
// the following free slots up to its estimate, then moves the task to doing.
// It returns the bound positions.
func (s *Service) AssignTaskToSlot(ctx context.Context, slotRef, taskRef string) ([]int, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.todayPlan()
	if err != nil {
		return nil, err
	}
	slot, err := ResolveSlot(p, slotRef)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return nil, err
	}
	t, err := findTask(tasks, taskRef)
	if err != nil {
		return nil, err
	}

	bound, err := p.Assign(slot.ID, t.ID, t.EstimatePomodoros)
	if err != nil {
		return nil, err
	}
	t.Start(s.now())
	if err := s.Persistence.SaveTasks(tasks); err != nil {
		return nil, err
	}
	if err := s.savePlan(p); err != nil {
		return nil, err
	}
	return bound, s.trackCurrentSlot(p)
}

// RemoveTaskFromSlot unbinds the task of the referenced slot from every slot
// of today's plan and returns it to the backlog. It returns the task id, or
// "" when the slot was empty.
func (s *Service) RemoveTaskFromSlot(ctx context.Context, slotRef string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.todayPlan()
	if err != nil {
		return "", err
	}
	slot, err := ResolveSlot(p, slotRef)
	if err != nil {
		return "", err
	}
	taskID, err := p.Unassign(slot.ID)
	if err != nil || taskID == "" {
		return "", err
	}
	if err := s.backlogTasks(taskID); err != nil {
		return "", err
	}
	if err := s.savePlan(p); err != nil {
		return "", err
	}
	return taskID, s.trackCurrentSlot(p)
}

// backlogTasks returns unfinished tasks to the backlog.
func (s *Service) backlogTasks(ids ...string) error {
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return err
	}
	changed := false
	for _, id := range ids {
		if t := task.Find(tasks, id); t != nil && t.Status != task.Done {
			t.MoveTo(task.Backlog, s.now())
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.Persistence.SaveTasks(tasks)
}

// trackCurrentSlot points the task settings at the first open slot of p.
func (s *Service) trackCurrentSlot(p *plan.DayPlan) error {
	settings, err := s.Persistence.TaskSettings()
	if err != nil {
		return err
	}
	id := ""
	if cur := p.Current(); cur != nil {
		id = cur.ID
	}
	if settings.CurrentSlotID == id {
		return nil
	}
	settings.CurrentSlotID = id
	return s.Persistence.SaveTaskSettings(settings)
}

// CompletePomodoro marks the slot of today's plan done and records the
// pomodoro on its task. When the task reaches its estimate and
// AutoStartNextTask is enabled, the next planned task becomes current.
func (s *Service) CompletePomodoro(ctx context.Context, slotRef string) (*PomodoroResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.todayPlan()
	if err != nil {
		return nil, err
	}
	slot, err := ResolveSlot(p, slotRef)
	if err != nil {
		return nil, err
	}
	return s.completeSlot(p, slot)
}

// CompleteCurrentSlot completes the first open slot of today's plan.
func (s *Service) CompleteCurrentSlot(ctx context.Context) (*PomodoroResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.todayPlan()
	if err != nil {
		return nil, err
	}
	slot := p.Current()
	if slot == nil {
		return nil, ErrNoCurrentSlot
	}
	return s.completeSlot(p, slot)
}

func (s *Service) completeSlot(p *plan.DayPlan, slot *plan.Slot) (*PomodoroResult, error) {
	now := s.now()
	taskID, err := p.Complete(slot.ID, now)
	if err != nil {
		return nil, err
	}
	res := &PomodoroResult{Slot: slot}

	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return nil, err
	}
	if t := task.Find(tasks, taskID); t != nil {
		res.Task = t
		res.TaskDone = t.RecordPomodoro(now)
		if err := s.Persistence.SaveTasks(tasks); err != nil {
			return nil, err
		}
	}
	if err := s.savePlan(p); err != nil {
		return nil, err
	}

	settings, err := s.Persistence.TaskSettings()
	if err != nil {
		return nil, err
	}
	settings.CurrentSlotID = ""
	if cur := p.Current(); cur != nil {
		settings.CurrentSlotID = cur.ID
	}
	if res.TaskDone {
		if settings.CurrentTaskID == taskID {
			settings.CurrentTaskID = ""
		}
		if settings.AutoStartNextTask {
			if next := task.Find(tasks, p.NextTask(slot.ID)); next != nil {
				settings.CurrentTaskID = next.ID
				res.Next = next
			}
		}
	}
	if err := s.Persistence.SaveTaskSettings(settings); err != nil {
		return nil, err
	}
	if _, err := s.updateStatistics(p, tasks); err != nil {
		return nil, err
	}
	return res, nil
}

// SwapSlots exchanges the assignments of two slots of today's plan.
func (s *Service) SwapSlots(ctx context.Context, a, b string) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.todayPlan()
	if err != nil {
		return err
	}
	sa, err := ResolveSlot(p, a)
	if err != nil {
		return err
	}
	sb, err := ResolveSlot(p, b)
	if err != nil {
		return err
	}
	if err := p.Swap(sa.ID, sb.ID); err != nil {
		return err
	}
	if err := s.savePlan(p); err != nil {
		return err
	}
	return s.trackCurrentSlot(p)
}

// ResizeTodayPlan changes the number of slots today and stores n as the
// daily slot count for future days.
func (s *Service) ResizeTodayPlan(ctx context.Context, n int) (*plan.DayPlan, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.todayPlan()
	if err != nil {
		return nil, err
	}
	resized, err := p.Resize(n, s.now())
	if err != nil {
		return nil, err
	}

	// Tasks that lost all of their slots go back to the backlog.
	kept := make(map[string]bool)
	for _, id := range resized.Tasks() {
		kept[id] = true
	}
	var dropped []string
	for _, id := range p.Tasks() {
		if !kept[id] {
			dropped = append(dropped, id)
		}
	}
	if err := s.backlogTasks(dropped...); err != nil {
		return nil, err
	}

	ts, err := s.Persistence.TimerSettings()
	if err != nil {
		return nil, err
	}
	ts.DailySlots = n
	if err := s.Persistence.SaveTimerSettings(ts); err != nil {
		return nil, err
	}
	if err := s.savePlan(resized); err != nil {
		return nil, err
	}
	return resized, s.trackCurrentSlot(resized)
}

// SetDailySlots stores the number of slots for plans created from now on.
// Today's plan keeps its size.
func (s *Service) SetDailySlots(ctx context.Context, n int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if n < 1 {
		return plan.ErrInvalidSlotCount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, err := s.Persistence.TimerSettings()
	if err != nil {
		return err
	}
	ts.DailySlots = n
	return s.Persistence.SaveTimerSettings(ts)
}

// ClearTodayPlan removes every assignment from today's plan and returns the
// unfinished tasks to the backlog.
func (s *Service) ClearTodayPlan(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.todayPlan()
	if err != nil {
		return err
	}
	if err := s.backlogTasks(p.Tasks()...); err != nil {
		return err
	}
	p.Clear()
	if err := s.savePlan(p); err != nil {
		return err
	}
	return s.trackCurrentSlot(p)
}

func (s *Service) DayPlanSummary(ctx context.Context) (plan.Summary, error) {
	p, err := s.TodayPlan(ctx)
	if err != nil {
		return plan.Summary{}, err
	}
	return p.Summary(), nil
}

// UpdateTodayStatistics recomputes and stores today's statistics.
func (s *Service) UpdateTodayStatistics(ctx context.Context) (plan.Statistics, error) {
	if err := s.ready(); err != nil {
		return plan.Statistics{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.todayPlan()
	if err != nil {
		return plan.Statistics{}, err
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return plan.Statistics{}, err
	}
	return s.updateStatistics(p, tasks)
}

func (s *Service) updateStatistics(p *plan.DayPlan, tasks []*task.Task) (plan.Statistics, error) {
	st := plan.StatisticsFor(p, tasks)
	return st, s.Persistence.SaveStatistics(st)
}

// Statistics returns the stored statistics for date.
func (s *Service) Statistics(ctx context.Context, date string) (plan.Statistics, error) {
	if err := s.ready(); err != nil {
		return plan.Statistics{}, err
	}
	return s.Persistence.Statistics(date)
}
