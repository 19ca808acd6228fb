// Package task defines task records and their kanban status transitions.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	Backlog Status = "backlog"
	Doing   Status = "doing"
	Done    Status = "done"
)

// Statuses lists the kanban columns in board order.
var Statuses = []Status{Backlog, Doing, Done}

// ParseStatus accepts a status name, ignoring case.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case Backlog, "todo":
		return Backlog, nil
	case Doing, "in-progress", "progress":
		return Doing, nil
	case Done, "complete", "completed":
		return Done, nil
	}
	return "", fmt.Errorf("task: unknown status %q", s)
}

func (s Status) String() string { return string(s) }

type RepeatType string

const (
	RepeatNone   RepeatType = "none"
	RepeatDaily  RepeatType = "daily"
	RepeatWeekly RepeatType = "weekly"
)

var ErrNameRequired = errors.New("task: name is required")

type Task struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	Status            Status     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
	StartedAt         *time.Time `json:"startedAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	ActualPomodoros   int        `json:"actualPomodoros"`
	EstimatePomodoros int        `json:"estimatePomodoros"`
	RepeatType        RepeatType `json:"repeatType"`
	Tags              []string   `json:"tags,omitempty"`
}

// New creates a backlog task. An estimate below one is raised to one.
func New(name, description string, estimate int, now time.Time) (*Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if estimate < 1 {
		estimate = 1
	}
	return &Task{
		ID:                uuid.NewString(),
		Name:              name,
		Description:       strings.TrimSpace(description),
		Status:            Backlog,
		CreatedAt:         now,
		EstimatePomodoros: estimate,
		RepeatType:        RepeatNone,
		Tags:              []string{},
	}, nil
}

// MoveTo applies a kanban drop into the status column.
func (t *Task) MoveTo(status Status, now time.Time) {
	at := now
	t.Status = status
	switch status {
	case Done:
		t.CompletedAt = &at
	case Backlog:
		t.StartedAt = nil
		t.CompletedAt = nil
	case Doing:
		t.StartedAt = &at
	}
}

// Start moves the task to doing.
func (t *Task) Start(now time.Time) {
	at := now
	t.Status = Doing
	t.StartedAt = &at
}

// Complete moves the task to done.
func (t *Task) Complete(now time.Time) {
	at := now
	t.Status = Done
	t.CompletedAt = &at
}

func (t *Task) IncrementPomodoro() {
	t.ActualPomodoros++
}

// RecordPomodoro counts a finished pomodoro and completes the task once the
// estimate is reached. It reports whether the task became done.
func (t *Task) RecordPomodoro(now time.Time) bool {
	t.IncrementPomodoro()
	if t.Status != Done && t.ActualPomodoros >= t.EstimatePomodoros {
		t.Complete(now)
		return true
	}
	return false
}

// Progress renders actual over estimate, e.g. "2/3".
func (t *Task) Progress() string {
	return fmt.Sprintf("%d/%d", t.ActualPomodoros, t.EstimatePomodoros)
}
