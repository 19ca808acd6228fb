package task

type Stats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InProgress     int `json:"inProgress"`
	Completed      int `json:"completed"`
	TotalPomodoros int `json:"totalPomodoros"`
}

func StatsOf(tasks []*Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case Backlog:
			s.Pending++
		case Doing:
			s.InProgress++
		case Done:
			s.Completed++
		}
		s.TotalPomodoros += t.ActualPomodoros
	}
	return s
}

// Filter returns the tasks in status, keeping their order.
func Filter(tasks []*Task, status Status) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Board groups tasks by kanban column.
func Board(tasks []*Task) map[Status][]*Task {
	b := make(map[Status][]*Task, len(Statuses))
	for _, s := range Statuses {
		b[s] = Filter(tasks, s)
	}
	return b
}

// Find returns the task with id, or nil.
func Find(tasks []*Task, id string) *Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
