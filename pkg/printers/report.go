package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/glyph"
	"tableflip.dev/pomo/pkg/plan"
)

// Report prints completed pomodoros per day followed by a month view for
// every month in the window.
func (pp *PrettyPrint) Report(r app.ReportResult) {
	w := pp.out()
	faint := color.New(color.Faint)
	pp.Title(fmt.Sprintf("%s to %s", r.Since.Format(plan.DateLayout), r.Until.Format(plan.DateLayout)))

	if len(r.Sections) == 0 {
		pp.none()
		return
	}
	for _, sec := range r.Sections {
		_, _ = color.New(color.Bold).Fprintf(w, "%s", sec.Date)
		_, _ = faint.Fprintf(w, "  %d/%d\n", sec.Completed, sec.Planned)
		tbl := uitable.New()
		tbl.Separator = " "
		for _, it := range sec.Items {
			tbl.AddRow("  "+glyph.ForStatus(it.Task.Status).Symbol, name(it.Task.Name), faint.Sprintf("%d/%d", it.Pomodoros, it.Planned))
		}
		_, _ = fmt.Fprintln(w, tbl)
	}
	_, _ = faint.Fprintf(w, "\n%d pomodoros\n\n", r.Total)

	counts := map[string]int{}
	for _, sec := range r.Sections {
		counts[sec.Date] = sec.Completed
	}
	for m := monthOf(r.Since); !m.After(r.Until); m = NextMonth(m) {
		count := make([]int, DaysIn(m))
		for i := range count {
			count[i] = counts[m.AddDate(0, 0, i).Format(plan.DateLayout)]
		}
		pp.PrintMonthCount(m, count)
	}
}

// CarryOver prints unfinished tasks from earlier days.
func (pp *PrettyPrint) CarryOver(cands []app.CarryOverCandidate) {
	if len(cands) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	tbl := uitable.New()
	tbl.Separator = " "
	for _, c := range cands {
		tbl.AddRow(y.Sprint(shortID(c.Task.ID)), glyph.ForStatus(c.Task.Status).Symbol, name(c.Task.Name),
			faint.Sprintf("%d open", c.Open), faint.Sprint(c.LastPlanned))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

const width = len("11 12 13 14 15 16 17")

// PrintMonthCount draws a month with days that have a count in bold.
func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	w := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)
	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	_, _ = fmt.Fprint(w, strings.Repeat("   ", int(d)))

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiRed)
	for i := 0; i < DaysIn(then); i++ {
		if i < len(count) && count[i] > 0 {
			_, _ = l2.Fprintf(w, "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(w, "%2d ", i+1)
		}
		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(w, "\n")
		}
	}
	_, _ = fmt.Fprint(w, "\n\n")
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 1, 0, 0, 0, t.Location())
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 1, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
