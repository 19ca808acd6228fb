package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/store"
	"tableflip.dev/pomo/pkg/task"
)

// TaskUpdate holds the editable fields of a task. Nil fields are left alone.
type TaskUpdate struct {
	Name        *string
	Description *string
	Estimate    *int
	RepeatType  *task.RepeatType
	Tags        []string
}

// Tasks lists every task in creation order.
func (s *Service) Tasks(ctx context.Context) ([]*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Tasks()
}

// Task returns the task with the given id. A unique id prefix or a unique
// name, ignoring case, is accepted.
func (s *Service) Task(ctx context.Context, ref string) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return nil, err
	}
	return findTask(tasks, ref)
}

func findTask(tasks []*task.Task, ref string) (*task.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrTaskNotFound
	}
	if t := task.Find(tasks, ref); t != nil {
		return t, nil
	}
	var match *task.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguousTask, ref)
			}
			match = t
		}
	}
	if match != nil {
		return match, nil
	}
	for _, t := range tasks {
		if strings.EqualFold(t.Name, ref) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguousTask, ref)
			}
			match = t
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	}
	return match, nil
}

// mutateTask loads every task, applies fn to the referenced one and stores
// the list again.
func (s *Service) mutateTask(ref string, fn func(t *task.Task, tasks []*task.Task) error) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return nil, err
	}
	t, err := findTask(tasks, ref)
	if err != nil {
		return nil, err
	}
	if err := fn(t, tasks); err != nil {
		return nil, err
	}
	if err := s.Persistence.SaveTasks(tasks); err != nil {
		return nil, err
	}
	return t, nil
}

// AddTask creates and stores a new backlog task.
func (s *Service) AddTask(ctx context.Context, name, description string, estimate int) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := task.New(name, description, estimate, s.now())
	if err != nil {
		return nil, err
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return nil, err
	}
	if err := s.Persistence.SaveTasks(append(tasks, t)); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask edits the referenced task.
func (s *Service) UpdateTask(ctx context.Context, ref string, u TaskUpdate) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateTask(ref, func(t *task.Task, _ []*task.Task) error {
		if u.Name != nil {
			name := strings.TrimSpace(*u.Name)
			if name == "" {
				return task.ErrNameRequired
			}
			t.Name = name
		}
		if u.Description != nil {
			t.Description = strings.TrimSpace(*u.Description)
		}
		if u.Estimate != nil {
			t.EstimatePomodoros = max(1, *u.Estimate)
		}
		if u.RepeatType != nil {
			t.RepeatType = *u.RepeatType
		}
		if u.Tags != nil {
			t.Tags = u.Tags
		}
		return nil
	})
}

// DeleteTask removes the task, clears it as the current task and unbinds it
// from today's plan.
func (s *Service) DeleteTask(ctx context.Context, ref string) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return err
	}
	t, err := findTask(tasks, ref)
	if err != nil {
		return err
	}
	kept := make([]*task.Task, 0, len(tasks))
	for _, other := range tasks {
		if other.ID != t.ID {
			kept = append(kept, other)
		}
	}
	if err := s.Persistence.SaveTasks(kept); err != nil {
		return err
	}

	settings, err := s.Persistence.TaskSettings()
	if err != nil {
		return err
	}
	if settings.CurrentTaskID == t.ID {
		settings.CurrentTaskID = ""
		if err := s.Persistence.SaveTaskSettings(settings); err != nil {
			return err
		}
	}

	p, err := s.Persistence.DayPlan(plan.DateKey(s.now()))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.UnassignTask(t.ID) == 0 {
		return nil
	}
	if err := s.savePlan(p); err != nil {
		return err
	}
	return s.trackCurrentSlot(p)
}

// MoveTask applies a kanban move of the task into status.
func (s *Service) MoveTask(ctx context.Context, ref string, status task.Status) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateTask(ref, func(t *task.Task, _ []*task.Task) error {
		t.MoveTo(status, s.now())
		return nil
	})
}

// StartTask moves the task to doing and makes it the current task.
func (s *Service) StartTask(ctx context.Context, ref string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.mutateTask(ref, func(t *task.Task, _ []*task.Task) error {
		t.Start(s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, s.setCurrentTask(t.ID)
}

// CompleteTask moves the task to done and clears it as the current task.
func (s *Service) CompleteTask(ctx context.Context, ref string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.mutateTask(ref, func(t *task.Task, _ []*task.Task) error {
		t.Complete(s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	settings, err := s.Persistence.TaskSettings()
	if err != nil {
		return nil, err
	}
	if settings.CurrentTaskID == t.ID {
		settings.CurrentTaskID = ""
		return t, s.Persistence.SaveTaskSettings(settings)
	}
	return t, nil
}

// IncrementTaskPomodoro adds one finished pomodoro to the task without
// changing its status.
func (s *Service) IncrementTaskPomodoro(ctx context.Context, ref string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateTask(ref, func(t *task.Task, _ []*task.Task) error {
		t.IncrementPomodoro()
		return nil
	})
}

// CurrentTask returns the current task, or nil when none is set or the
// recorded task no longer exists.
func (s *Service) CurrentTask(ctx context.Context) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	settings, err := s.Persistence.TaskSettings()
	if err != nil {
		return nil, err
	}
	if settings.CurrentTaskID == "" {
		return nil, nil
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return nil, err
	}
	return task.Find(tasks, settings.CurrentTaskID), nil
}

// SetCurrentTask records the current task. An empty ref clears it.
func (s *Service) SetCurrentTask(ctx context.Context, ref string) (*task.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref == "" {
		return nil, s.setCurrentTask("")
	}
	tasks, err := s.Persistence.Tasks()
	if err != nil {
		return nil, err
	}
	t, err := findTask(tasks, ref)
	if err != nil {
		return nil, err
	}
	return t, s.setCurrentTask(t.ID)
}

func (s *Service) setCurrentTask(id string) error {
	settings, err := s.Persistence.TaskSettings()
	if err != nil {
		return err
	}
	settings.CurrentTaskID = id
	return s.Persistence.SaveTaskSettings(settings)
}

func (s *Service) TaskSettings(ctx context.Context) (task.Settings, error) {
	if err := s.ready(); err != nil {
		return task.Settings{}, err
	}
	return s.Persistence.TaskSettings()
}

func (s *Service) SaveTaskSettings(ctx context.Context, settings task.Settings) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Persistence.SaveTaskSettings(settings)
}

func (s *Service) TaskStatistics(ctx context.Context) (task.Stats, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return task.Stats{}, err
	}
	return task.StatsOf(tasks), nil
}

// ClearAllTasks deletes every task, the current task pointers and today's
// slot assignments.
func (s *Service) ClearAllTasks(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Persistence.SaveTasks(nil); err != nil {
		return err
	}
	settings, err := s.Persistence.TaskSettings()
	if err != nil {
		return err
	}
	settings.CurrentTaskID = ""
	settings.CurrentSlotID = ""
	if err := s.Persistence.SaveTaskSettings(settings); err != nil {
		return err
	}
	p, err := s.Persistence.DayPlan(plan.DateKey(s.now()))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	p.Clear()
	return s.savePlan(p)
}
