package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/pomo/pkg/cycle"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/task"
	"tableflip.dev/pomo/pkg/timing"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func TestPersistenceDefaults(t *testing.T) {
	p := New(Memory())

	if _, ok, err := p.TimerState(); ok || err != nil {
		t.Fatalf("expected no timer state, got %v, %v", ok, err)
	}
	ts, err := p.TimerSettings()
	if err != nil || ts != session.DefaultSettings() {
		t.Fatalf("unexpected timer settings %+v, %v", ts, err)
	}
	tm, _ := p.TimeSettings()
	if tm != timing.Default() {
		t.Fatalf("unexpected time settings %+v", tm)
	}
	cs, _ := p.CycleSettings()
	if cs != cycle.Default() {
		t.Fatalf("unexpected cycle settings %+v", cs)
	}
	tasks, err := p.Tasks()
	if err != nil || len(tasks) != 0 {
		t.Fatalf("unexpected tasks %v, %v", tasks, err)
	}
	settings, _ := p.TaskSettings()
	if settings != task.DefaultSettings() {
		t.Fatalf("unexpected task settings %+v", settings)
	}
	if _, err := p.DayPlan("2025-03-03"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	st, _ := p.Statistics("2025-03-03")
	if st != (plan.Statistics{Date: "2025-03-03"}) {
		t.Fatalf("unexpected statistics %+v", st)
	}
}

func TestPersistenceValidatesOnLoad(t *testing.T) {
	b := Memory()
	b.Write(KeyTimeSettings, []byte(`{"workDuration":500}`))
	b.Write(KeyCycleSettings, []byte(`{"totalCycles":40,"currentCycle":2}`))
	b.Write(KeyTaskSettings, []byte(`{"currentTaskId":"a","showTaskInPopup":false}`))
	b.Write(KeyTimerSettings, []byte(`{"workDurationSec":60}`))
	p := New(b)

	tm, _ := p.TimeSettings()
	if tm.WorkDuration != 120 || tm.ShortBreakDuration != 5 {
		t.Fatalf("expected clamped time settings, got %+v", tm)
	}
	cs, _ := p.CycleSettings()
	if cs != (cycle.Settings{TotalCycles: 10, LongBreakInterval: 4, CurrentCycle: 2}) {
		t.Fatalf("unexpected cycle settings %+v", cs)
	}
	settings, _ := p.TaskSettings()
	want := task.Settings{CurrentTaskID: "a", ShowTaskInPopup: false, KanbanView: true}
	if diff := cmp.Diff(want, settings); diff != "" {
		t.Fatalf("unexpected task settings (-want +got):\n%s", diff)
	}
	ts, _ := p.TimerSettings()
	if ts.WorkDurationSec != 60 || ts.BreakDurationSec != 300 || ts.DailySlots != 6 {
		t.Fatalf("unexpected timer settings %+v", ts)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	p := New(Memory())

	state := session.Pause(session.Start(session.New(session.Work, session.DefaultSettings(), t0), t0), t0.Add(time.Minute))
	if err := p.SaveTimerState(state); err != nil {
		t.Fatalf("save state: %v", err)
	}
	got, ok, err := p.TimerState()
	if !ok || err != nil {
		t.Fatalf("load state: %v, %v", ok, err)
	}
	if diff := cmp.Diff(state, got); diff != "" {
		t.Fatalf("unexpected state (-want +got):\n%s", diff)
	}

	a, _ := task.New("a", "", 2, t0)
	if err := p.SaveTasks([]*task.Task{a}); err != nil {
		t.Fatalf("save tasks: %v", err)
	}
	tasks, _ := p.Tasks()
	if diff := cmp.Diff([]*task.Task{a}, tasks); diff != "" {
		t.Fatalf("unexpected tasks (-want +got):\n%s", diff)
	}

	for _, date := range []string{"2025-03-04", "2025-03-03"} {
		if err := p.SaveDayPlan(plan.New(date, 3, t0)); err != nil {
			t.Fatalf("save plan: %v", err)
		}
	}
	dates, err := p.DayPlanDates(context.Background())
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	if diff := cmp.Diff([]string{"2025-03-03", "2025-03-04"}, dates); diff != "" {
		t.Fatalf("unexpected dates (-want +got):\n%s", diff)
	}
	dp, err := p.DayPlan("2025-03-03")
	if err != nil || len(dp.Slots) != 3 {
		t.Fatalf("unexpected plan %+v, %v", dp, err)
	}
	if err := p.DeleteDayPlan("2025-03-03"); err != nil {
		t.Fatalf("delete plan: %v", err)
	}
	if _, err := p.DayPlan("2025-03-03"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := p.SaveDayPlan(&plan.DayPlan{}); err == nil {
		t.Fatalf("expected an error for a plan without a date")
	}
	if _, err := p.Watch(context.Background()); !errors.Is(err, ErrWatchUnsupported) {
		t.Fatalf("expected ErrWatchUnsupported for memory, got %v", err)
	}
}
