package commands

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/clock"
	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/store"
)

// env is the service and timer shared by one command invocation.
type env struct {
	svc   *app.Service
	timer *coordinator.Coordinator
}

// loadEnv opens the store and restores the timer. A run whose time ran out
// while nothing was watching is finished before the command sees it.
func loadEnv(ctx context.Context) (*env, error) {
	p, err := store.Load(nil, logger)
	if err != nil {
		return nil, err
	}
	svc := &app.Service{Persistence: p, Clock: clock.Real()}
	timer := coordinator.New(svc, logger, notifier())
	if err := timer.Load(ctx); err != nil {
		_ = p.Close()
		return nil, err
	}
	timer.Check(ctx)
	return &env{svc: svc, timer: timer}, nil
}

func (e *env) Close() error {
	return errors.Join(e.timer.Flush(), e.svc.Persistence.Close())
}

func notifier() coordinator.Notifier {
	n := coordinator.LogNotifier{Log: logger}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return coordinator.Notifiers{n, coordinator.BellNotifier{Out: os.Stderr}}
	}
	return n
}

// withEnv runs fn against a freshly loaded env and reports errors through
// the output options.
func withEnv(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := loadEnv(ctx)
	if err != nil {
		return oo.HandleError(err)
	}
	err = fn(ctx, e)
	if cerr := e.Close(); err == nil {
		err = cerr
	}
	return oo.HandleError(err)
}
