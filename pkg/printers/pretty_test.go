package printers

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/cycle"
	"tableflip.dev/pomo/pkg/glyph"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/task"
	"tableflip.dev/pomo/pkg/timing"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.Local)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newTask(t *testing.T, n string, estimate int) *task.Task {
	t.Helper()
	tk, err := task.New(n, "", estimate, t0)
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}
	return tk
}

func TestTimer(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}

	st := session.Start(session.New(session.Work, session.DefaultSettings(), t0), t0)
	cs := cycle.Default()
	snap := coordinator.Snapshot{
		State:     st,
		Remaining: 1499,
		Cycle:     cycle.StateOf(cs, st.Type),
		Progress:  session.ProgressOf(st, 1499),
	}
	pp.Timer(snap, newTask(t, "write report", 3))

	out := buf.String()
	for _, want := range []string{"work", "24:59", "running", "1/4 cycles", "Next: break", "write report", "0/3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSettings(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Settings(coordinator.Snapshot{
		Settings:      session.DefaultSettings(),
		TimeSettings:  timing.Default(),
		CycleSettings: cycle.Default(),
	})
	out := buf.String()
	for _, want := range []string{"25m", "5m", "15m", "off", "normal"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTasksEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Tasks()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestTasksShowsIDsAndCurrent(t *testing.T) {
	var buf bytes.Buffer
	a := newTask(t, "alpha", 2)
	a.Tags = []string{"deep"}
	b := newTask(t, strings.Repeat("long name ", 10), 1)
	pp := PrettyPrint{Out: &buf, ShowID: true, CurrentTaskID: a.ID}
	pp.Tasks(a, b)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], a.ID[:8]) || !strings.Contains(lines[0], "›") || !strings.Contains(lines[0], "#deep") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "…") {
		t.Errorf("long name not truncated: %q", lines[1])
	}
}

func TestBoard(t *testing.T) {
	var buf bytes.Buffer
	a := newTask(t, "alpha", 1)
	b := newTask(t, "beta", 1)
	b.MoveTo(task.Doing, t0)
	pp := PrettyPrint{Out: &buf}
	pp.Board([]*task.Task{a, b})

	out := buf.String()
	for _, want := range []string{"backlog - 1 task", "doing - 1 task", "done - 0 tasks"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlan(t *testing.T) {
	var buf bytes.Buffer
	a := newTask(t, "alpha", 2)
	p := plan.New("2025-03-03", 3, t0)
	if _, err := p.Assign(p.Slots[0].ID, a.ID, 2); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := p.Complete(p.Slots[0].ID, t0); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	pp := PrettyPrint{Out: &buf}
	pp.Plan(p, []*task.Task{a})

	out := buf.String()
	for _, want := range []string{"2025-03-03  1/2", "■ alpha", "›▣ " + glyph.Bold("alpha"), "□ -"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	a := newTask(t, "alpha", 2)
	pp := PrettyPrint{Out: &buf}
	pp.Report(app.ReportResult{
		Since: t0.AddDate(0, 0, -2),
		Until: t0,
		Sections: []app.ReportSection{{
			Date:      "2025-03-03",
			Items:     []app.ReportItem{{Task: a, Pomodoros: 1, Planned: 2}},
			Completed: 1,
			Planned:   2,
		}},
		Total: 1,
	})
	out := buf.String()
	for _, want := range []string{"2025-03-01 to 2025-03-03", "alpha", "1/2", "1 pomodoros", "March"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintMonthCount(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	// March 2025 starts on a Saturday.
	pp.PrintMonthCount(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local), nil)
	lines := strings.Split(buf.String(), "\n")
	if got, want := lines[1], strings.Repeat("   ", 6)+" 1 "; got != want {
		t.Fatalf("first week = %q, want %q", got, want)
	}
	if got := DaysIn(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.Local)); got != 29 {
		t.Fatalf("DaysIn = %d", got)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("got %q", got)
	}
}
