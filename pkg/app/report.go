package app

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/store"
	"tableflip.dev/pomo/pkg/task"
)

// ReportItem is a task worked on during one day.
type ReportItem struct {
	Task *task.Task
	// Pomodoros counts the completed slots of the task that day.
	Pomodoros int
	Planned   int
}

// ReportSection groups the work of one day.
type ReportSection struct {
	Date      string
	Items     []ReportItem
	Completed int
	Planned   int
}

// ReportResult summarises completed pomodoros for a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
}

// Report returns the day plans between the provided bounds with their
// completed pomodoros grouped by task.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if err := s.ready(); err != nil {
		return ReportResult{}, err
	}
	if since.After(until) {
		since, until = until, since
	}
	dates, err := s.Persistence.DayPlanDates(ctx)
	if err != nil {
		return ReportResult{}, err
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return ReportResult{}, err
	}

	first, last := plan.DateKey(since), plan.DateKey(until)
	result := ReportResult{Since: since, Until: until}
	for _, date := range dates {
		// Dates are YYYY-MM-DD so string order is calendar order.
		if date < first || date > last {
			continue
		}
		p, err := s.Persistence.DayPlan(date)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return ReportResult{}, err
		}
		section := reportSection(p, tasks)
		if section.Planned == 0 {
			continue
		}
		result.Total += section.Completed
		result.Sections = append(result.Sections, section)
	}
	return result, nil
}

func reportSection(p *plan.DayPlan, tasks []*task.Task) ReportSection {
	section := ReportSection{Date: p.Date}
	index := make(map[string]int)
	for _, slot := range p.Slots {
		if !slot.Assigned() {
			continue
		}
		i, ok := index[slot.TaskID]
		if !ok {
			t := task.Find(tasks, slot.TaskID)
			if t == nil {
				// Deleted tasks keep their history under a placeholder.
				t = &task.Task{ID: slot.TaskID, Name: "(deleted task)"}
			}
			i = len(section.Items)
			index[slot.TaskID] = i
			section.Items = append(section.Items, ReportItem{Task: t})
		}
		section.Items[i].Planned++
		section.Planned++
		if slot.Completed {
			section.Items[i].Pomodoros++
			section.Completed++
		}
	}
	return section
}
