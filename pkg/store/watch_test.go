package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestDiskvWatchEmitsKeyChanges(t *testing.T) {
	b, err := Diskv(t.TempDir(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}
	// Create the key directory before watching so the write is seen.
	if err := b.Write("timerState", []byte(`{}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := New(b).Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	if err := b.Write("timerState", []byte(`{"type":"work"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Key == "" || evt.Key == KeyTimerState {
				return
			}
			t.Fatalf("unexpected key %q", evt.Key)
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	th.Enqueue(Event{Key: "tasks"}, send)
	th.Enqueue(Event{Key: "tasks"}, send)
	th.Enqueue(Event{Key: "timerState"}, send)

	seen := map[string]int{}
	timeout := time.After(time.Second)
	for len(seen) < 2 {
		select {
		case ev := <-got:
			seen[ev.Key]++
		case <-timeout:
			t.Fatalf("timed out, saw %v", seen)
		}
	}
	if seen["tasks"] != 1 {
		t.Fatalf("expected one tasks event, got %d", seen["tasks"])
	}
}

func TestWatchDirLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	base := t.TempDir()
	b, err := Diskv(base, zap.New(core))
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer watcher.Close()

	watched := map[string]struct{}{}
	missing := filepath.Join(base, "gone")
	b.(*diskvBackend).watchDir(watcher, missing, watched)
	if _, ok := watched[missing]; ok {
		t.Fatal("a failed directory must not be recorded as watched")
	}
	entries := logs.FilterMessage("store: watch").All()
	if len(entries) != 1 || entries[0].ContextMap()["dir"] != missing {
		t.Fatalf("unexpected logs %+v", logs.All())
	}

	b.(*diskvBackend).watchDir(watcher, base, watched)
	if _, ok := watched[base]; !ok {
		t.Fatal("expected base to be watched")
	}
	if logs.Len() != 1 {
		t.Fatalf("unexpected logs %+v", logs.All())
	}
}
