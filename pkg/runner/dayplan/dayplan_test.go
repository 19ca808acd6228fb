package dayplan

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/clock"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/store"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.Local)

func newService(t *testing.T) (*app.Service, *clock.FakeClock) {
	t.Helper()
	color.NoColor = true
	clk := clock.Fake(t0)
	return &app.Service{Persistence: store.New(store.Memory()), Clock: clk}, clk
}

func decodePlan(t *testing.T, buf *bytes.Buffer) *plan.DayPlan {
	t.Helper()
	var p plan.DayPlan
	if err := json.Unmarshal(buf.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	return &p
}

func TestShowCreatesToday(t *testing.T) {
	svc, _ := newService(t)
	var buf bytes.Buffer
	r := Show{Service: svc, Output: Output{JSON: true, Out: &buf}}
	if err := r.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	p := decodePlan(t, &buf)
	if p.Date != "2025-03-03" || len(p.Slots) != plan.DefaultSlots {
		t.Fatalf("unexpected plan %+v", p)
	}

	r = Show{Service: svc, Date: "2020-01-01", Output: Output{Out: &bytes.Buffer{}}}
	if err := r.Do(context.Background()); err == nil {
		t.Fatal("want error for a missing day")
	}
}

func TestAssignCompleteSwap(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, err := svc.AddTask(ctx, "alpha", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.AddTask(ctx, "beta", "", 1)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	out := Output{JSON: true, Out: &buf}
	if err := (&Assign{Service: svc, Slot: "1", Task: "alpha", Output: out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	p := decodePlan(t, &buf)
	if p.Slots[0].TaskID != a.ID || p.Slots[1].TaskID != a.ID {
		t.Fatalf("alpha not planned in two slots: %+v", p.Slots)
	}

	buf.Reset()
	if err := (&Assign{Service: svc, Slot: "4", Task: b.ID, Output: out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := (&Swap{Service: svc, A: "1", B: "4", Output: out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	p = decodePlan(t, &buf)
	if p.Slots[0].TaskID != b.ID || p.Slots[3].TaskID != a.ID {
		t.Fatalf("slots not swapped: %+v", p.Slots)
	}

	buf.Reset()
	if err := (&Complete{Service: svc, Output: out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	var res app.PomodoroResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.TaskDone || res.Task.ID != b.ID {
		t.Fatalf("unexpected result %+v", res)
	}

	var text bytes.Buffer
	if err := (&Complete{Service: svc, Slot: "2", Output: Output{Out: &text}}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "2025-03-03  2/3") {
		t.Fatalf("unexpected plan output:\n%s", text.String())
	}

	buf.Reset()
	if err := (&Unassign{Service: svc, Slot: "4", Output: out}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	p = decodePlan(t, &buf)
	if p.Slots[3].Assigned() {
		t.Fatalf("slot 4 still assigned: %+v", p.Slots[3])
	}
}

func TestResizeAndClear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.AddTask(ctx, "alpha", "", 1)
	if _, err := svc.AssignTaskToSlot(ctx, "6", a.ID); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := (&Resize{Service: svc, Slots: 4, Output: Output{JSON: true, Out: &buf}}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if p := decodePlan(t, &buf); len(p.Slots) != 4 {
		t.Fatalf("got %d slots", len(p.Slots))
	}
	if err := (&Clear{Service: svc, Output: Output{Out: &bytes.Buffer{}}}).Do(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestStatsAndReport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	a, _ := svc.AddTask(ctx, "alpha", "", 1)
	if _, err := svc.AssignTaskToSlot(ctx, "1", a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteCurrentSlot(ctx); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := (&Stats{Service: svc, Output: Output{JSON: true, Out: &buf}}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	var s plan.Statistics
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s.CompletedPomodoros != 1 || s.CompletedTasks != 1 {
		t.Fatalf("unexpected stats %+v", s)
	}

	buf.Reset()
	r := Report{Service: svc, Since: t0.AddDate(0, 0, -1), Until: t0.Add(time.Hour), Output: Output{Out: &buf}}
	if err := r.Do(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "alpha") || !strings.Contains(buf.String(), "1 pomodoros") {
		t.Fatalf("unexpected report:\n%s", buf.String())
	}
}

func TestCarryOver(t *testing.T) {
	ctx := context.Background()
	svc, clk := newService(t)
	a, _ := svc.AddTask(ctx, "alpha", "", 3)
	if _, err := svc.AssignTaskToSlot(ctx, "1", a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteCurrentSlot(ctx); err != nil {
		t.Fatal(err)
	}
	clk.Advance(24 * time.Hour)

	var buf bytes.Buffer
	if err := (&CarryOver{Service: svc, Output: Output{Out: &buf}}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "alpha") || !strings.Contains(buf.String(), "2 open") {
		t.Fatalf("unexpected candidates:\n%s", buf.String())
	}

	buf.Reset()
	if err := (&CarryOver{Service: svc, All: true, Output: Output{Out: &buf}}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "carried alpha into 2 slots") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
