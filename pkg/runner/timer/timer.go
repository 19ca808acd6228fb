// Package timer provides the runners that drive the timer from the CLI.
package timer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/glyph"
	"tableflip.dev/pomo/pkg/printers"
)

// Timer sends one message to the coordinator and prints the result.
type Timer struct {
	Coordinator *coordinator.Coordinator
	Message     coordinator.Message
	JSON        bool
	Out         io.Writer
}

func (n *Timer) Do(ctx context.Context) error {
	if n.Coordinator == nil {
		return errors.New("can not run timer, no coordinator")
	}
	resp, err := n.Coordinator.Dispatch(ctx, n.Message)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errors.New(resp.Error)
	}
	if n.JSON {
		return printers.JSON(n.out(), resp)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	switch n.Message.Action {
	case coordinator.ActionUpdateSettings:
		pp.Settings(resp.Snapshot)
		return nil
	case coordinator.ActionCompleteCurrentSlot:
		if p := resp.Pomodoro; p != nil && p.Task != nil {
			_, _ = fmt.Fprintf(n.out(), "%s %s %s\n", glyph.SlotDone, p.Task.Name, p.Task.Progress())
			if p.TaskDone {
				_, _ = color.New(color.FgGreen).Fprintf(n.out(), "%s %s is done\n", glyph.Done, p.Task.Name)
			}
			if p.Next != nil {
				_, _ = fmt.Fprintf(n.out(), "%s next up: %s\n", glyph.Current, p.Next.Name)
			}
		}
	}

	current := resp.CurrentTask
	if current == nil && n.Coordinator != nil {
		info, err := n.Coordinator.Dispatch(ctx, coordinator.Message{Action: coordinator.ActionGetCurrentTaskInfo})
		if err == nil {
			current = info.CurrentTask
		}
	}
	pp.Timer(resp.Snapshot, current)
	return nil
}

func (n *Timer) out() io.Writer {
	if n.Out == nil {
		return color.Output
	}
	return n.Out
}
