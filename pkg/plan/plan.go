// Package plan models the day's grid of pomodoro slots. Each slot holds at
// most one task; a task estimated at several pomodoros occupies a contiguous
// run of slots.
package plan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Slot errors.
var (
	ErrSlotNotFound     = errors.New("plan: slot not found")
	ErrSlotOccupied     = errors.New("plan: slot is already assigned")
	ErrSlotEmpty        = errors.New("plan: slot has no task")
	ErrSlotCompleted    = errors.New("plan: slot is already completed")
	ErrInvalidSlotCount = errors.New("plan: slot count must be at least 1")
)

const DefaultSlots = 6

// DateLayout is the key format of a day plan.
const DateLayout = "2006-01-02"

type Slot struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"taskId,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Order       int        `json:"order"`
}

// Assigned reports whether a task is bound to the slot.
func (s *Slot) Assigned() bool { return s.TaskID != "" }

func (s *Slot) clear() {
	s.TaskID = ""
	s.Completed = false
	s.CompletedAt = nil
}

type DayPlan struct {
	Date      string    `json:"date"`
	Slots     []*Slot   `json:"slots"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DateKey returns the local calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Local().Format(DateLayout)
}

func newSlot(order int) *Slot {
	return &Slot{ID: uuid.NewString(), Order: order}
}

// New returns a plan for date with n empty slots. A non-positive n uses
// DefaultSlots.
func New(date string, n int, now time.Time) *DayPlan {
	if n <= 0 {
		n = DefaultSlots
	}
	p := &DayPlan{Date: date, CreatedAt: now, UpdatedAt: now}
	p.Slots = make([]*Slot, n)
	for i := range p.Slots {
		p.Slots[i] = newSlot(i)
	}
	return p
}

// Index returns the position of the slot with id, or -1.
func (p *DayPlan) Index(id string) int {
	for i, s := range p.Slots {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Slot returns the slot with id.
func (p *DayPlan) Slot(id string) (*Slot, error) {
	if i := p.Index(id); i >= 0 {
		return p.Slots[i], nil
	}
	return nil, ErrSlotNotFound
}

// At returns the slot at a zero-based position.
func (p *DayPlan) At(pos int) (*Slot, error) {
	if pos < 0 || pos >= len(p.Slots) {
		return nil, ErrSlotNotFound
	}
	return p.Slots[pos], nil
}

// Assign binds taskID to the slot and the following empty slots until
// estimate slots are bound, an assigned slot is reached or the day ends. It
// returns the bound positions.
func (p *DayPlan) Assign(slotID, taskID string, estimate int) ([]int, error) {
	start := p.Index(slotID)
	if start < 0 {
		return nil, ErrSlotNotFound
	}
	if p.Slots[start].Assigned() {
		return nil, ErrSlotOccupied
	}
	if estimate < 1 {
		estimate = 1
	}

	var bound []int
	for i := start; i < len(p.Slots) && len(bound) < estimate; i++ {
		if p.Slots[i].Assigned() {
			break
		}
		p.Slots[i].TaskID = taskID
		bound = append(bound, i)
	}
	return bound, nil
}

// Unassign clears every slot bound to the same task as the slot and returns
// that task's id. An empty slot is a no-op returning "".
func (p *DayPlan) Unassign(slotID string) (string, error) {
	slot, err := p.Slot(slotID)
	if err != nil {
		return "", err
	}
	taskID := slot.TaskID
	if taskID == "" {
		return "", nil
	}
	p.UnassignTask(taskID)
	return taskID, nil
}

// UnassignTask clears every slot bound to taskID and reports how many were
// cleared.
func (p *DayPlan) UnassignTask(taskID string) int {
	n := 0
	for _, s := range p.Slots {
		if s.TaskID == taskID {
			s.clear()
			n++
		}
	}
	return n
}

// Complete marks an assigned slot done and returns its task id.
func (p *DayPlan) Complete(slotID string, now time.Time) (string, error) {
	slot, err := p.Slot(slotID)
	if err != nil {
		return "", err
	}
	if !slot.Assigned() {
		return "", ErrSlotEmpty
	}
	if slot.Completed {
		return "", ErrSlotCompleted
	}
	at := now
	slot.Completed = true
	slot.CompletedAt = &at
	return slot.TaskID, nil
}

// Swap exchanges the assignments of two slots. Ids and order stay in place.
func (p *DayPlan) Swap(a, b string) error {
	sa, err := p.Slot(a)
	if err != nil {
		return err
	}
	sb, err := p.Slot(b)
	if err != nil {
		return err
	}
	sa.TaskID, sb.TaskID = sb.TaskID, sa.TaskID
	sa.Completed, sb.Completed = sb.Completed, sa.Completed
	sa.CompletedAt, sb.CompletedAt = sb.CompletedAt, sa.CompletedAt
	return nil
}

// Resize returns a copy of the plan with n slots. Slots within the common
// prefix keep their id and assignment; new slots are empty.
func (p *DayPlan) Resize(n int, now time.Time) (*DayPlan, error) {
	if n < 1 {
		return nil, ErrInvalidSlotCount
	}
	out := &DayPlan{Date: p.Date, CreatedAt: p.CreatedAt, UpdatedAt: now}
	out.Slots = make([]*Slot, n)
	for i := range out.Slots {
		if i < len(p.Slots) {
			s := *p.Slots[i]
			s.Order = i
			out.Slots[i] = &s
			continue
		}
		out.Slots[i] = newSlot(i)
	}
	return out, nil
}

// Current returns the first assigned slot that is not yet completed, or nil.
func (p *DayPlan) Current() *Slot {
	for _, s := range p.Slots {
		if s.Assigned() && !s.Completed {
			return s
		}
	}
	return nil
}

// NextTask returns the task of the first incomplete slot after the slot with
// id that is bound to a different task, or "".
func (p *DayPlan) NextTask(slotID string) string {
	i := p.Index(slotID)
	if i < 0 {
		return ""
	}
	current := p.Slots[i].TaskID
	for _, s := range p.Slots[i+1:] {
		if s.Assigned() && !s.Completed && s.TaskID != current {
			return s.TaskID
		}
	}
	return ""
}

// Tasks returns the distinct task ids bound in the plan, in slot order.
func (p *DayPlan) Tasks() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range p.Slots {
		if s.Assigned() && !seen[s.TaskID] {
			seen[s.TaskID] = true
			ids = append(ids, s.TaskID)
		}
	}
	return ids
}

// Clear removes every assignment and completion.
func (p *DayPlan) Clear() {
	for _, s := range p.Slots {
		s.clear()
	}
}
