package mcp

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/clock"
	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/store"
)

func newService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()
	clk := clock.Fake(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.Local))
	a := &app.Service{Persistence: store.New(store.Memory()), Clock: clk}
	timer := coordinator.New(a, nil, nil)
	if err := timer.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewService(a, timer), clk
}

func TestServiceRequiresDependencies(t *testing.T) {
	svc := &Service{}
	if _, err := svc.TimerStatus(context.Background()); err != errNotConfigured {
		t.Fatalf("got %v", err)
	}
	if _, err := (Runner{}).NewServer(); err == nil {
		t.Fatal("want error without service")
	}
}

func TestTimerControl(t *testing.T) {
	ctx := context.Background()
	svc, clk := newService(t)

	dto, err := svc.Control(ctx, coordinator.ActionStart)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !dto.Running || dto.RemainingText != "25:00" || dto.Cycle != "1/4 cycles" {
		t.Fatalf("unexpected timer %+v", dto)
	}

	clk.Advance(10 * time.Minute)
	dto, err = svc.Control(ctx, coordinator.ActionStop)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if dto.Running || !dto.Paused || dto.Remaining != 900 {
		t.Fatalf("unexpected timer %+v", dto)
	}

	if _, err := svc.Control(ctx, coordinator.ActionGetState); err == nil {
		t.Fatal("want error for unsupported action")
	}
}

func TestTaskTools(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	added, err := svc.AddTask(ctx, "write", "draft", 2, []string{"deep"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if added.Status != "backlog" || added.Progress != "0/2" || len(added.Tags) != 1 {
		t.Fatalf("unexpected task %+v", added)
	}

	moved, err := svc.MoveTask(ctx, "write", "doing")
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	if moved.Status != "doing" || !moved.Current {
		t.Fatalf("moved task should be doing and current: %+v", moved)
	}

	timer, err := svc.TimerStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if timer.CurrentTask == nil || timer.CurrentTask.ID != added.ID {
		t.Fatalf("current task missing from timer %+v", timer)
	}

	done, err := svc.CompletePomodoro(ctx)
	if err != nil {
		t.Fatalf("CompletePomodoro: %v", err)
	}
	if done.Actual != 1 {
		t.Fatalf("pomodoro not credited: %+v", done)
	}

	list, err := svc.ListTasks(ctx, "doing")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListTasks = %v, %v", list, err)
	}
	if _, err := svc.ListTasks(ctx, "someday"); err == nil {
		t.Fatal("want error for unknown status")
	}

	if err := svc.DeleteTask(ctx, added.ID); err != nil {
		t.Fatal(err)
	}
	if cur, err := svc.SetCurrentTask(ctx, ""); err != nil || cur != nil {
		t.Fatalf("SetCurrentTask = %v, %v", cur, err)
	}
}

func TestPlanTools(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	if _, err := svc.AddTask(ctx, "write", "", 2, nil); err != nil {
		t.Fatal(err)
	}

	p, err := svc.AssignTask(ctx, "2", "write")
	if err != nil {
		t.Fatalf("AssignTask: %v", err)
	}
	if p.Slots[1].TaskName != "write" || p.Slots[2].TaskName != "write" || p.Summary.Planned != 2 {
		t.Fatalf("unexpected plan %+v", p)
	}

	if _, err := svc.CompletePomodoro(ctx); err != nil {
		t.Fatal(err)
	}
	stats, err := svc.Statistics(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if stats.CompletedPomodoros != 1 || stats.PlannedPomodoros != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	p, err = svc.UnassignSlot(ctx, "3")
	if err != nil {
		t.Fatal(err)
	}
	if p.Summary.Planned != 0 {
		t.Fatalf("slots not freed: %+v", p)
	}

	if _, err := svc.Plan(ctx, "1999-01-01"); err == nil {
		t.Fatal("want error for a missing plan")
	}
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	work, cycles, on := 50, 6, true
	snap, err := svc.UpdateSettings(ctx, SettingsDTO{WorkDuration: &work, TotalCycles: &cycles, SoundEnabled: &on})
	if err != nil {
		t.Fatal(err)
	}
	if snap.TimeSettings.WorkDuration != 50 || snap.CycleSettings.TotalCycles != 6 || !snap.Settings.SoundEnabled {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Remaining != 3000 {
		t.Fatalf("idle run not resized: %d", snap.Remaining)
	}

	debug := true
	snap, err = svc.UpdateSettings(ctx, SettingsDTO{DebugMode: &debug})
	if err != nil {
		t.Fatal(err)
	}
	if !snap.TimeSettings.DebugMode || snap.Remaining != 30 {
		t.Fatalf("debug mode not applied: %+v", snap.TimeSettings)
	}
}

func TestArgument(t *testing.T) {
	if argument("2025-03-03") != "2025-03-03" || argument([]string{"a", "b"}) != "a" || argument(nil) != "" {
		t.Fatal("unexpected argument unwrap")
	}
}
