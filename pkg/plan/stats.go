package plan

import (
	"tableflip.dev/pomo/pkg/task"
)

type Summary struct {
	Planned   int `json:"planned"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}

func (p *DayPlan) Summary() Summary {
	s := Summary{Total: len(p.Slots)}
	for _, slot := range p.Slots {
		if slot.Assigned() {
			s.Planned++
		}
		if slot.Completed {
			s.Completed++
		}
	}
	s.Remaining = s.Planned - s.Completed
	return s
}

// Statistics is the per-day record kept under statistics/<date>.
type Statistics struct {
	Date               string `json:"date"`
	PlannedPomodoros   int    `json:"plannedPomodoros"`
	CompletedPomodoros int    `json:"completedPomodoros"`
	CompletedTasks     int    `json:"completedTasks"`
	TotalTasks         int    `json:"totalTasks"`
}

// StatisticsFor counts the plan's slots and the tasks started on date.
func StatisticsFor(p *DayPlan, tasks []*task.Task) Statistics {
	sum := p.Summary()
	st := Statistics{
		Date:               p.Date,
		PlannedPomodoros:   sum.Planned,
		CompletedPomodoros: sum.Completed,
	}
	for _, t := range tasks {
		if t.StartedAt == nil || DateKey(*t.StartedAt) != p.Date {
			continue
		}
		st.TotalTasks++
		if t.Status == task.Done {
			st.CompletedTasks++
		}
	}
	return st
}
