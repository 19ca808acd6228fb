package timer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/clock"
	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/store"
)

func newCoordinator(t *testing.T) (*coordinator.Coordinator, *app.Service) {
	t.Helper()
	color.NoColor = true
	svc := &app.Service{
		Persistence: store.New(store.Memory()),
		Clock:       clock.Fake(time.Date(2025, time.March, 3, 9, 0, 0, 0, time.Local)),
	}
	c := coordinator.New(svc, nil, nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c, svc
}

func TestStartPrintsTimer(t *testing.T) {
	ctx := context.Background()
	c, svc := newCoordinator(t)
	if _, err := svc.AddTask(ctx, "write", "", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartTask(ctx, "write"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	r := Timer{Coordinator: c, Message: coordinator.Message{Action: coordinator.ActionStart}, Out: &buf}
	if err := r.Do(ctx); err != nil {
		t.Fatalf("Do: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"25:00", "running", "write"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	c, _ := newCoordinator(t)
	var buf bytes.Buffer
	r := Timer{Coordinator: c, Message: coordinator.Message{Action: coordinator.ActionGetState}, JSON: true, Out: &buf}
	if err := r.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	var resp coordinator.Response
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if !resp.Success || resp.Snapshot.Remaining != 1500 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestFailureIsReturned(t *testing.T) {
	c, _ := newCoordinator(t)
	r := Timer{Coordinator: c, Message: coordinator.Message{Action: coordinator.ActionCompleteCurrentSlot}, Out: &bytes.Buffer{}}
	if err := r.Do(context.Background()); err == nil {
		t.Fatal("want error without a current task")
	}
}

func TestNoCoordinator(t *testing.T) {
	r := Timer{}
	if err := r.Do(context.Background()); err == nil {
		t.Fatal("want error")
	}
}
