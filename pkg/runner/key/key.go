// Package key prints the legend of task, run and slot glyphs.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/pomo/pkg/glyph"
)

type Key struct {
	Out io.Writer
}

// Do renders the task and slot legends.
func (k *Key) Do(ctx context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	legend := glyph.Legend()

	_, _ = fmt.Fprintln(out, "")
	k.Key(ctx, out, legend, false)
	_, _ = fmt.Fprintln(out, "")
	k.Key(ctx, out, legend, true)
	_, _ = fmt.Fprintln(out, "")
	return nil
}

// Key renders a glyph table; when slots is true, plan slot glyphs are shown.
func (k *Key) Key(_ context.Context, out io.Writer, glyphs []glyph.Glyph, slots bool) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	if slots {
		tbl.AddRow(bold.Sprint("Slots"), bold.Sprint("Meaning"))
	} else {
		tbl.AddRow(bold.Sprint("Tasks"), bold.Sprint("Meaning"))
	}
	for _, g := range glyphs {
		if g.Slot == slots {
			tbl.AddRow(g.Symbol, g.Meaning)
		}
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
}
