// Package tasks provides the runners behind the task commands.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/glyph"
	"tableflip.dev/pomo/pkg/printers"
	"tableflip.dev/pomo/pkg/task"
)

var errNoService = errors.New("can not run task command, no service")

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

func (o Output) printer(ctx context.Context, svc *app.Service) printers.PrettyPrint {
	pp := printers.PrettyPrint{Out: o.Out, ShowID: o.ShowID}
	if cur, err := svc.CurrentTask(ctx); err == nil && cur != nil {
		pp.CurrentTaskID = cur.ID
	}
	return pp
}

func (o Output) task(ctx context.Context, svc *app.Service, t *task.Task) error {
	if o.JSON {
		return printers.JSON(o.writer(), t)
	}
	pp := o.printer(ctx, svc)
	pp.Tasks(t)
	return nil
}

// Add creates a task in the backlog.
type Add struct {
	Service     *app.Service
	Name        string
	Description string
	Estimate    int
	Tags        []string
	Output
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	t, err := n.Service.AddTask(ctx, n.Name, n.Description, n.Estimate)
	if err != nil {
		return err
	}
	if len(n.Tags) > 0 {
		if t, err = n.Service.UpdateTask(ctx, t.ID, app.TaskUpdate{Tags: n.Tags}); err != nil {
			return err
		}
	}
	return n.task(ctx, n.Service, t)
}

// Edit changes the fields of a task.
type Edit struct {
	Service *app.Service
	Ref     string
	Update  app.TaskUpdate
	Output
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	t, err := n.Service.UpdateTask(ctx, n.Ref, n.Update)
	if err != nil {
		return err
	}
	return n.task(ctx, n.Service, t)
}

// List prints tasks, either as a list or as a board.
type List struct {
	Service *app.Service
	// Status limits the list to one column when set.
	Status task.Status
	// All includes done tasks in a plain list.
	All   bool
	Board bool
	Output
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	all, err := n.Service.Tasks(ctx)
	if err != nil {
		return err
	}
	var list []*task.Task
	switch {
	case n.Status != "":
		list = task.Filter(all, n.Status)
	case n.All || n.Board:
		list = all
	default:
		list = append(task.Filter(all, task.Doing), task.Filter(all, task.Backlog)...)
	}
	if n.JSON {
		return printers.JSON(n.writer(), list)
	}
	pp := n.printer(ctx, n.Service)
	if n.Board {
		pp.Board(list)
		return nil
	}
	pp.Tasks(list...)
	return nil
}

// Verb is a single task state change.
type Verb string

const (
	Start  Verb = "start"
	Finish Verb = "done"
	Remove Verb = "rm"
	Move   Verb = "move"
)

// Change applies a verb to one task.
type Change struct {
	Service *app.Service
	Ref     string
	Verb    Verb
	// Status is the target column of a move.
	Status task.Status
	Output
}

func (n *Change) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	var (
		t   *task.Task
		err error
	)
	switch n.Verb {
	case Start:
		t, err = n.Service.StartTask(ctx, n.Ref)
	case Finish:
		t, err = n.Service.CompleteTask(ctx, n.Ref)
	case Move:
		t, err = n.Service.MoveTask(ctx, n.Ref, n.Status)
	case Remove:
		if t, err = n.Service.Task(ctx, n.Ref); err != nil {
			return err
		}
		if err := n.Service.DeleteTask(ctx, t.ID); err != nil {
			return err
		}
		if n.JSON {
			return printers.JSON(n.writer(), t)
		}
		_, _ = fmt.Fprintf(n.writer(), "removed %s\n", t.Name)
		return nil
	default:
		return fmt.Errorf("unknown task verb %q", n.Verb)
	}
	if err != nil {
		return err
	}
	return n.task(ctx, n.Service, t)
}

// Current shows or sets the task the timer works on.
type Current struct {
	Service *app.Service
	Ref     string
	Clear   bool
	Output
}

func (n *Current) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	var (
		t   *task.Task
		err error
	)
	switch {
	case n.Clear:
		_, err = n.Service.SetCurrentTask(ctx, "")
	case n.Ref != "":
		t, err = n.Service.SetCurrentTask(ctx, n.Ref)
	default:
		t, err = n.Service.CurrentTask(ctx)
	}
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.writer(), t)
	}
	if t == nil {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(n.writer(), "no current task")
		return nil
	}
	_, _ = fmt.Fprintf(n.writer(), "%s %s %s\n", glyph.Current, t.Name, t.Progress())
	return nil
}

// Stats prints task counts.
type Stats struct {
	Service *app.Service
	Output
}

func (n *Stats) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	s, err := n.Service.TaskStatistics(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.writer(), s)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.TaskStats(s)
	return nil
}

// Clear deletes every task and today's plan.
type Clear struct {
	Service *app.Service
	Output
}

func (n *Clear) Do(ctx context.Context) error {
	if n.Service == nil {
		return errNoService
	}
	if err := n.Service.ClearAllTasks(ctx); err != nil {
		return err
	}
	if !n.JSON {
		_, _ = fmt.Fprintln(n.writer(), "all tasks cleared")
	}
	return nil
}
