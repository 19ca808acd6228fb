package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/cycle"
	"tableflip.dev/pomo/pkg/glyph"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/task"
)

const (
	idWidth   = 8
	nameWidth = 48
)

type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
	// CurrentTaskID marks the timer's task in task lists.
	CurrentTaskID string
}

var spacing = strings.Repeat(" ", idWidth+2)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " task")
	default:
		_, _ = c.Fprintln(pp.out(), " tasks")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func shortID(id string) string {
	if len(id) > idWidth {
		return id[:idWidth]
	}
	return id
}

func name(s string) string {
	return truncate.StringWithTail(s, nameWidth, "…")
}

// Timer prints the run, cycle and current task of a snapshot.
func (pp *PrettyPrint) Timer(snap coordinator.Snapshot, current *task.Task) {
	w := pp.out()
	kind := color.New(color.Bold, color.FgRed)
	if snap.State.Type == session.Break {
		kind = color.New(color.Bold, color.FgGreen)
	}
	faint := color.New(color.Faint)

	state := "stopped"
	switch {
	case snap.State.Running:
		state = "running"
	case snap.State.Paused():
		state = "paused"
	}
	_, _ = kind.Fprintf(w, "%s %s", glyph.ForSession(snap.State.Type), snap.State.Type)
	_, _ = fmt.Fprintf(w, "  %s  ", session.FormatClock(snap.Remaining))
	_, _ = faint.Fprintf(w, "%s %3.0f%%\n", state, snap.Progress.Percentage)

	_, _ = faint.Fprintf(w, "  %s · %s\n", cycle.ProgressText(snap.Cycle), cycle.NextSessionText(snap.Cycle))
	if current != nil {
		_, _ = fmt.Fprintf(w, "  %s %s %s\n", glyph.Current, name(current.Name), faint.Sprint(current.Progress()))
	}
}

// Settings prints the run lengths, cycle plan and sound switch.
func (pp *PrettyPrint) Settings(snap coordinator.Snapshot) {
	ts := snap.TimeSettings
	txt := ts.DisplayText()
	mode := "normal"
	if ts.DebugMode {
		mode = "debug"
	}
	stats := ts.Stats(snap.CycleSettings.TotalCycles, snap.CycleSettings.LongBreakInterval)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("mode", mode)
	tbl.AddRow("work", txt.Work)
	tbl.AddRow("short break", txt.ShortBreak)
	tbl.AddRow("long break", txt.LongBreak)
	tbl.AddRow("cycles", snap.CycleSettings.TotalCycles)
	tbl.AddRow("long break every", snap.CycleSettings.LongBreakInterval)
	tbl.AddRow("sound", onOff(snap.Settings.SoundEnabled))
	tbl.AddRow("daily slots", snap.Settings.DailySlots)
	tbl.AddRow("full run", fmt.Sprintf("%d%s work, %d%s break", stats.TotalWork, stats.Unit, stats.TotalBreak, stats.Unit))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (pp *PrettyPrint) taskRow(tbl *uitable.Table, t *task.Task) {
	label := name(t.Name)
	if t.Status == task.Done {
		label = glyph.Strike(label)
	}
	mark := " "
	if t.ID == pp.CurrentTaskID {
		mark = glyph.Current.Symbol
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)
	row := []interface{}{mark + glyph.ForStatus(t.Status).Symbol, label, faint.Sprint(t.Progress())}
	if len(t.Tags) > 0 {
		row = append(row, faint.Sprint("#"+strings.Join(t.Tags, " #")))
	}
	if pp.ShowID {
		row = append([]interface{}{y.Sprint(shortID(t.ID))}, row...)
	}
	tbl.AddRow(row...)
}

// Tasks prints one task per line.
func (pp *PrettyPrint) Tasks(tasks ...*task.Task) {
	if len(tasks) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = " "
	for _, t := range tasks {
		pp.taskRow(tbl, t)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Board prints tasks grouped by status.
func (pp *PrettyPrint) Board(tasks []*task.Task) {
	board := task.Board(tasks)
	for _, s := range task.Statuses {
		pp.TitleWithCount(s.String(), len(board[s]))
		pp.Tasks(board[s]...)
	}
}

func (pp *PrettyPrint) TaskStats(s task.Stats) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("total", s.Total)
	tbl.AddRow("backlog", s.Pending)
	tbl.AddRow("doing", s.InProgress)
	tbl.AddRow("done", s.Completed)
	tbl.AddRow("pomodoros", s.TotalPomodoros)
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Plan prints the slots of a day plan with their tasks.
func (pp *PrettyPrint) Plan(p *plan.DayPlan, tasks []*task.Task) {
	sum := p.Summary()
	pp.Title(fmt.Sprintf("%s  %d/%d", p.Date, sum.Completed, sum.Planned))

	tbl := uitable.New()
	tbl.Separator = " "
	faint := color.New(color.Faint)
	cur := p.Current()
	for i, s := range p.Slots {
		label := faint.Sprint("-")
		if s.Assigned() {
			if t := task.Find(tasks, s.TaskID); t != nil {
				label = name(t.Name)
			} else {
				label = faint.Sprint("missing task " + shortID(s.TaskID))
			}
		}
		mark := " "
		if cur != nil && s.ID == cur.ID {
			mark = glyph.Current.Symbol
			label = glyph.Bold(label)
		}
		row := []interface{}{fmt.Sprintf("%2d", i+1), mark + glyph.ForSlot(s).Symbol, label}
		if pp.ShowID {
			row = append(row, faint.Sprint(shortID(s.ID)))
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func (pp *PrettyPrint) Statistics(s plan.Statistics) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("date", s.Date)
	tbl.AddRow("planned", s.PlannedPomodoros)
	tbl.AddRow("completed", s.CompletedPomodoros)
	tbl.AddRow("tasks done", fmt.Sprintf("%d/%d", s.CompletedTasks, s.TotalTasks))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
