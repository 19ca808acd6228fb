// Package teaui is the full screen timer UI.
package teaui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/coordinator"
)

// Run shows the UI until the user quits or ctx is done. The coordinator must
// be running elsewhere for runs to finish on time.
func Run(ctx context.Context, svc *app.Service, timer *coordinator.Coordinator) error {
	updates, cancel := timer.Subscribe()
	defer cancel()

	p := tea.NewProgram(New(ctx, svc, timer, updates), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil && err != nil {
		return nil
	}
	return err
}
