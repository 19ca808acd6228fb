// Package daemon keeps the timer coordinator running next to any services
// that share it, until the context is cancelled or one of them fails.
package daemon

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/pomo/pkg/coordinator"
)

// Service is a long running function that returns when ctx is done.
type Service func(ctx context.Context) error

type Daemon struct {
	Coordinator *coordinator.Coordinator
	Log         *zap.Logger
	Services    []Service
}

// Do runs the coordinator and every service. The first failure cancels the
// rest. A clean shutdown through ctx returns nil.
func (d *Daemon) Do(ctx context.Context) error {
	if d.Coordinator == nil {
		return errors.New("daemon: no coordinator")
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("timer running")
		return d.Coordinator.Run(gctx)
	})
	for _, svc := range d.Services {
		g.Go(func() error { return svc(gctx) })
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		err = nil
	}
	log.Info("timer stopped", zap.Error(err))
	return err
}
