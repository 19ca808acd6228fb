package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/clock"
	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newDaemon(t *testing.T, services ...Service) *Daemon {
	t.Helper()
	svc := &app.Service{
		Persistence: store.New(store.Memory()),
		Clock:       clock.Fake(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.Local)),
	}
	c := coordinator.New(svc, zaptest.NewLogger(t), nil)
	require.NoError(t, c.Load(context.Background()))
	return &Daemon{Coordinator: c, Log: zaptest.NewLogger(t), Services: services}
}

func TestDaemonStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	d := newDaemon(t, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	errc := make(chan error, 1)
	go func() { errc <- d.Do(ctx) }()
	<-started
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestDaemonReturnsServiceFailure(t *testing.T) {
	boom := errors.New("boom")
	d := newDaemon(t, func(context.Context) error { return boom })
	assert.ErrorIs(t, d.Do(context.Background()), boom)
}

func TestDaemonRequiresCoordinator(t *testing.T) {
	assert.Error(t, (&Daemon{}).Do(context.Background()))
}
