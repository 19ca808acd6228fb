package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/store"
	"tableflip.dev/pomo/pkg/task"
)

// CarryOverCandidate is an unfinished task planned on an earlier day.
type CarryOverCandidate struct {
	Task *task.Task
	// LastPlanned is the most recent earlier date the task had slots.
	LastPlanned string
	// Open counts pomodoros still missing from the estimate.
	Open int
}

// CarryOverCandidates lists tasks that were planned on a day between since
// and yesterday, are not done and have no slot in today's plan.
func (s *Service) CarryOverCandidates(ctx context.Context, since string) ([]CarryOverCandidate, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	today := plan.DateKey(s.now())
	dates, err := s.Persistence.DayPlanDates(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return nil, err
	}

	planned := make(map[string]bool)
	if p, err := s.Persistence.DayPlan(today); err == nil {
		for _, id := range p.Tasks() {
			planned[id] = true
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	last := make(map[string]string)
	for _, date := range dates {
		if date >= today || date < since {
			continue
		}
		p, err := s.Persistence.DayPlan(date)
		if err != nil {
			continue
		}
		for _, id := range p.Tasks() {
			if date > last[id] {
				last[id] = date
			}
		}
	}

	var out []CarryOverCandidate
	for id, date := range last {
		t := task.Find(tasks, id)
		if t == nil || t.Status == task.Done || planned[id] {
			continue
		}
		out = append(out, CarryOverCandidate{
			Task:        t,
			LastPlanned: date,
			Open:        max(1, t.EstimatePomodoros-t.ActualPomodoros),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastPlanned != out[j].LastPlanned {
			return out[i].LastPlanned < out[j].LastPlanned
		}
		return out[i].Task.CreatedAt.Before(out[j].Task.CreatedAt)
	})
	return out, nil
}

// CarryOver plans the given tasks into the first free slots of today's plan,
// one run per task sized by its open pomodoros. It returns the positions
// bound for each task id; tasks that do not fit are skipped.
func (s *Service) CarryOver(ctx context.Context, refs []string) (map[string][]int, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.todayPlan()
	if err != nil {
		return nil, err
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, ref := range refs {
		t, err := findTask(tasks, ref)
		if err != nil {
			return nil, err
		}
		if t.Status == task.Done {
			return nil, fmt.Errorf("app: task %s is already done", t.ID)
		}
		free := firstFree(p)
		if free == nil {
			break
		}
		bound, err := p.Assign(free.ID, t.ID, max(1, t.EstimatePomodoros-t.ActualPomodoros))
		if err != nil {
			return nil, err
		}
		t.Start(s.now())
		out[t.ID] = bound
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := s.Persistence.SaveTasks(tasks); err != nil {
		return nil, err
	}
	if err := s.savePlan(p); err != nil {
		return nil, err
	}
	return out, s.trackCurrentSlot(p)
}

func firstFree(p *plan.DayPlan) *plan.Slot {
	for _, slot := range p.Slots {
		if !slot.Assigned() {
			return slot
		}
	}
	return nil
}
