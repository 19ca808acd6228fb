// Package dayplan provides the runners behind the plan commands.
package dayplan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/printers"
	"tableflip.dev/pomo/pkg/task"
)

var errNoService = errors.New("can not run plan command, no service")

// Output selects how a runner prints its result.
type Output struct {
	JSON   bool
	ShowID bool
	Out    io.Writer
}

func (o Output) writer() io.Writer {
	if o.Out == nil {
		return color.Output
	}
	return o.Out
}

// plan prints today's plan, or encodes it.
func (o Output) plan(ctx context.Context, svc *app.Service, p *plan.DayPlan) error {
	if o.JSON {
		return printers.JSON(o.writer(), p)
	}
	tasks, err := svc.Tasks(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: o.Out, ShowID: o.ShowID}
	pp.Plan(p, tasks)
	return nil
}

func (o Output) today(ctx context.Context, svc *app.Service) error {
	p, err := svc.TodayPlan(ctx)
	if err != nil {
		return err
	}
	return o.plan(ctx, svc, p)
}

// Show prints the plan of a day. Date defaults to today.
type Show struct {
	Service *app.Service
	Date    string
	Output
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	if n.Date == "" {
		return n.today(ctx, n.Service)
	}
	p, err := n.Service.DayPlan(ctx, n.Date)
	if err != nil {
		return fmt.Errorf("no plan for %s: %w", n.Date, err)
	}
	return n.plan(ctx, n.Service, p)
}

// Assign binds a task to slots starting at Slot.
type Assign struct {
	Service *app.Service
	Slot    string
	Task    string
	Output
}

func (n *Assign) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	if _, err := n.Service.AssignTaskToSlot(ctx, n.Slot, n.Task); err != nil {
		return err
	}
	return n.today(ctx, n.Service)
}

// Unassign frees the slot and every other slot of its task.
type Unassign struct {
	Service *app.Service
	Slot    string
	Output
}

func (n *Unassign) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	if _, err := n.Service.RemoveTaskFromSlot(ctx, n.Slot); err != nil {
		return err
	}
	return n.today(ctx, n.Service)
}

// Complete finishes a slot. An empty Slot completes the current one.
type Complete struct {
	Service *app.Service
	Slot    string
	Output
}

func (n *Complete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	var (
		res *app.PomodoroResult
		err error
	)
	if n.Slot == "" {
		res, err = n.Service.CompleteCurrentSlot(ctx)
	} else {
		res, err = n.Service.CompletePomodoro(ctx, n.Slot)
	}
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.writer(), res)
	}
	if res.TaskDone && res.Task != nil {
		_, _ = color.New(color.FgGreen).Fprintf(n.writer(), "%s is done\n", res.Task.Name)
	}
	return n.today(ctx, n.Service)
}

// Swap exchanges two slots.
type Swap struct {
	Service *app.Service
	A, B    string
	Output
}

func (n *Swap) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	if err := n.Service.SwapSlots(ctx, n.A, n.B); err != nil {
		return err
	}
	return n.today(ctx, n.Service)
}

// Resize changes the number of slots of today's plan.
type Resize struct {
	Service *app.Service
	Slots   int
	Output
}

func (n *Resize) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	p, err := n.Service.ResizeTodayPlan(ctx, n.Slots)
	if err != nil {
		return err
	}
	return n.plan(ctx, n.Service, p)
}

// Clear frees every slot of today's plan.
type Clear struct {
	Service *app.Service
	Output
}

func (n *Clear) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	if err := n.Service.ClearTodayPlan(ctx); err != nil {
		return err
	}
	return n.today(ctx, n.Service)
}

// Stats prints the statistics of a day. Date defaults to today, which is
// recomputed first.
type Stats struct {
	Service *app.Service
	Date    string
	Output
}

func (n *Stats) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	var (
		s   plan.Statistics
		err error
	)
	if n.Date == "" {
		s, err = n.Service.UpdateTodayStatistics(ctx)
	} else {
		s, err = n.Service.Statistics(ctx, n.Date)
	}
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.writer(), s)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Statistics(s)
	return nil
}

// Report prints completed pomodoros for a window of days.
type Report struct {
	Service      *app.Service
	Since, Until time.Time
	Output
}

func (n *Report) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	r, err := n.Service.Report(ctx, n.Since, n.Until)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.writer(), r)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Report(r)
	return nil
}

// CarryOver plans unfinished tasks from earlier days into today. Without
// Refs it only lists the candidates, unless All is set.
type CarryOver struct {
	Service *app.Service
	Since   string
	Refs    []string
	All     bool
	Output
}

func (n *CarryOver) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	cands, err := n.Service.CarryOverCandidates(ctx, n.Since)
	if err != nil {
		return err
	}
	refs := n.Refs
	if n.All {
		refs = refs[:0:0]
		for _, c := range cands {
			refs = append(refs, c.Task.ID)
		}
	}
	if len(refs) == 0 {
		if n.JSON {
			return printers.JSON(n.writer(), cands)
		}
		pp := printers.PrettyPrint{Out: n.Out, ShowID: true}
		pp.CarryOver(cands)
		return nil
	}

	bound, err := n.Service.CarryOver(ctx, refs)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.writer(), bound)
	}
	ids := make([]string, 0, len(bound))
	for id := range bound {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	tasks, err := n.Service.Tasks(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		label := id
		if t := task.Find(tasks, id); t != nil {
			label = t.Name
		}
		_, _ = fmt.Fprintf(n.writer(), "carried %s into %d slots\n", label, len(bound[id]))
	}
	return n.today(ctx, n.Service)
}
