package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/pomo/pkg/clock"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/store"
	"tableflip.dev/pomo/pkg/task"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.Local)

func newService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()
	c := clock.Fake(t0)
	return &Service{Persistence: store.New(store.Memory()), Clock: c}, c
}

func TestServiceRequiresPersistence(t *testing.T) {
	svc := &Service{}
	_, err := svc.Tasks(context.Background())
	assert.ErrorIs(t, err, ErrNoPersistence)
}

func TestAddAndFindTask(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, err := svc.AddTask(ctx, " write ", "", 2)
	require.NoError(t, err)
	assert.Equal(t, "write", a.Name)
	assert.Equal(t, task.Backlog, a.Status)

	_, err = svc.AddTask(ctx, "  ", "", 1)
	assert.ErrorIs(t, err, task.ErrNameRequired)

	got, err := svc.Task(ctx, a.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = svc.Task(ctx, "nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	got, err = svc.Task(ctx, "WRITE")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	_, err = svc.AddTask(ctx, "write", "", 1)
	require.NoError(t, err)
	_, err = svc.Task(ctx, "write")
	assert.ErrorIs(t, err, ErrAmbiguousTask)

	name, estimate := "rewrite", 0
	updated, err := svc.UpdateTask(ctx, a.ID, TaskUpdate{Name: &name, Estimate: &estimate})
	require.NoError(t, err)
	assert.Equal(t, "rewrite", updated.Name)
	assert.Equal(t, 1, updated.EstimatePomodoros)
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.AddTask(ctx, "a", "", 1)

	started, err := svc.StartTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Doing, started.Status)

	cur, err := svc.CurrentTask(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, a.ID, cur.ID)

	_, err = svc.IncrementTaskPomodoro(ctx, a.ID)
	require.NoError(t, err)

	done, err := svc.CompleteTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Done, done.Status)
	assert.Equal(t, 1, done.ActualPomodoros)

	cur, err = svc.CurrentTask(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur, "completing the current task clears it")

	moved, err := svc.MoveTask(ctx, a.ID, task.Backlog)
	require.NoError(t, err)
	assert.Nil(t, moved.CompletedAt)

	stats, err := svc.TaskStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, task.Stats{Total: 1, Pending: 1, TotalPomodoros: 1}, stats)
}

func TestTodayPlanUsesDailySlots(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	ts, _ := svc.Persistence.TimerSettings()
	ts.DailySlots = 8
	require.NoError(t, svc.Persistence.SaveTimerSettings(ts))

	p, err := svc.TodayPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, plan.DateKey(t0), p.Date)
	assert.Len(t, p.Slots, 8)

	again, err := svc.TodayPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.Slots[0].ID, again.Slots[0].ID, "the plan is created once")
}

func TestAssignAndRemove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.AddTask(ctx, "a", "", 3)

	bound, err := svc.AssignTaskToSlot(ctx, "2", a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, bound)

	got, _ := svc.Task(ctx, a.ID)
	assert.Equal(t, task.Doing, got.Status)
	assert.NotNil(t, got.StartedAt)

	settings, _ := svc.TaskSettings(ctx)
	p, _ := svc.TodayPlan(ctx)
	assert.Equal(t, p.Slots[1].ID, settings.CurrentSlotID)

	b, _ := svc.AddTask(ctx, "b", "", 1)
	_, err = svc.AssignTaskToSlot(ctx, "3", b.ID)
	assert.ErrorIs(t, err, plan.ErrSlotOccupied)
	_, err = svc.AssignTaskToSlot(ctx, "99", b.ID)
	assert.ErrorIs(t, err, plan.ErrSlotNotFound)

	removed, err := svc.RemoveTaskFromSlot(ctx, p.Slots[3].ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, removed)

	p, _ = svc.TodayPlan(ctx)
	assert.Zero(t, p.Summary().Planned)
	got, _ = svc.Task(ctx, a.ID)
	assert.Equal(t, task.Backlog, got.Status)
	assert.Nil(t, got.StartedAt)
}

func TestCompletePomodoro(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.AddTask(ctx, "a", "", 2)
	b, _ := svc.AddTask(ctx, "b", "", 1)
	_, err := svc.AssignTaskToSlot(ctx, "1", a.ID)
	require.NoError(t, err)
	_, err = svc.AssignTaskToSlot(ctx, "3", b.ID)
	require.NoError(t, err)
	_, err = svc.SetCurrentTask(ctx, a.ID)
	require.NoError(t, err)

	settings, _ := svc.TaskSettings(ctx)
	settings.AutoStartNextTask = true
	require.NoError(t, svc.SaveTaskSettings(ctx, settings))

	res, err := svc.CompleteCurrentSlot(ctx)
	require.NoError(t, err)
	assert.False(t, res.TaskDone)
	assert.Equal(t, 1, res.Task.ActualPomodoros)

	res, err = svc.CompleteCurrentSlot(ctx)
	require.NoError(t, err)
	assert.True(t, res.TaskDone)
	require.NotNil(t, res.Next)
	assert.Equal(t, b.ID, res.Next.ID)

	cur, _ := svc.CurrentTask(ctx)
	require.NotNil(t, cur)
	assert.Equal(t, b.ID, cur.ID)

	_, err = svc.CompletePomodoro(ctx, "1")
	assert.ErrorIs(t, err, plan.ErrSlotCompleted)

	stats, err := svc.Statistics(ctx, plan.DateKey(t0))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.PlannedPomodoros)
	assert.Equal(t, 2, stats.CompletedPomodoros)
	assert.Equal(t, 1, stats.CompletedTasks)

	_, err = svc.CompleteCurrentSlot(ctx)
	require.NoError(t, err)
	_, err = svc.CompleteCurrentSlot(ctx)
	assert.ErrorIs(t, err, ErrNoCurrentSlot)
}

func TestSwapResizeAndClear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.AddTask(ctx, "a", "", 1)
	b, _ := svc.AddTask(ctx, "b", "", 1)
	svc.AssignTaskToSlot(ctx, "1", a.ID)
	svc.AssignTaskToSlot(ctx, "6", b.ID)

	require.NoError(t, svc.SwapSlots(ctx, "1", "2"))
	p, _ := svc.TodayPlan(ctx)
	assert.Equal(t, a.ID, p.Slots[1].TaskID)

	resized, err := svc.ResizeTodayPlan(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, resized.Slots, 4)
	got, _ := svc.Task(ctx, b.ID)
	assert.Equal(t, task.Backlog, got.Status, "a task that lost its slots returns to the backlog")
	ts, _ := svc.Persistence.TimerSettings()
	assert.Equal(t, 4, ts.DailySlots)

	require.NoError(t, svc.ClearTodayPlan(ctx))
	sum, err := svc.DayPlanSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, plan.Summary{Total: 4}, sum)
	got, _ = svc.Task(ctx, a.ID)
	assert.Equal(t, task.Backlog, got.Status)
}

func TestDeleteTaskClearsReferences(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.AddTask(ctx, "a", "", 2)
	svc.AssignTaskToSlot(ctx, "1", a.ID)
	svc.SetCurrentTask(ctx, a.ID)

	require.NoError(t, svc.DeleteTask(ctx, a.ID))

	tasks, _ := svc.Tasks(ctx)
	assert.Empty(t, tasks)
	cur, _ := svc.CurrentTask(ctx)
	assert.Nil(t, cur)
	p, _ := svc.TodayPlan(ctx)
	assert.Zero(t, p.Summary().Planned)
}

func TestDeleteTaskMovesCurrentSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.AddTask(ctx, "a", "", 2)
	b, _ := svc.AddTask(ctx, "b", "", 1)
	_, err := svc.AssignTaskToSlot(ctx, "1", a.ID)
	require.NoError(t, err)
	_, err = svc.AssignTaskToSlot(ctx, "4", b.ID)
	require.NoError(t, err)

	p, _ := svc.TodayPlan(ctx)
	settings, _ := svc.TaskSettings(ctx)
	require.Equal(t, p.Slots[0].ID, settings.CurrentSlotID)

	require.NoError(t, svc.DeleteTask(ctx, a.ID))
	settings, _ = svc.TaskSettings(ctx)
	assert.Equal(t, p.Slots[3].ID, settings.CurrentSlotID, "the next planned slot becomes current")

	require.NoError(t, svc.DeleteTask(ctx, b.ID))
	settings, _ = svc.TaskSettings(ctx)
	assert.Empty(t, settings.CurrentSlotID)
}

func TestClearAllTasks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.AddTask(ctx, "a", "", 1)
	svc.AssignTaskToSlot(ctx, "1", a.ID)

	require.NoError(t, svc.ClearAllTasks(ctx))
	tasks, _ := svc.Tasks(ctx)
	assert.Empty(t, tasks)
	p, _ := svc.TodayPlan(ctx)
	assert.Zero(t, p.Summary().Planned)
	settings, _ := svc.TaskSettings(ctx)
	assert.Empty(t, settings.CurrentSlotID)
}

func TestResolveSlot(t *testing.T) {
	p := plan.New("2025-03-03", 3, t0)
	s, err := ResolveSlot(p, p.Slots[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Order)

	s, err = ResolveSlot(p, " 1 ")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Order)

	_, err = ResolveSlot(p, "0")
	assert.ErrorIs(t, err, plan.ErrSlotNotFound)
}

func TestSetDailySlots(t *testing.T) {
	ctx := context.Background()
	svc, c := newService(t)
	assert.ErrorIs(t, svc.SetDailySlots(ctx, 0), plan.ErrInvalidSlotCount)

	require.NoError(t, svc.SetDailySlots(ctx, 3))
	p, err := svc.TodayPlan(ctx)
	require.NoError(t, err)
	assert.Len(t, p.Slots, 3)

	require.NoError(t, svc.SetDailySlots(ctx, 5))
	p, _ = svc.TodayPlan(ctx)
	assert.Len(t, p.Slots, 3, "today's plan keeps its size")

	c.Advance(24 * time.Hour)
	p, _ = svc.TodayPlan(ctx)
	assert.Len(t, p.Slots, 5)
}
