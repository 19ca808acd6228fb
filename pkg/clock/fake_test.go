package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(time.Second, func() { fired++ })

	c.Advance(999 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("fired early: %d", fired)
	}
	c.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("expected one call, got %d", fired)
	}
	c.Advance(time.Hour)
	if fired != 1 {
		t.Fatalf("one-shot timer fired again: %d", fired)
	}
}

func TestFakeAfterFuncStop(t *testing.T) {
	c := Fake(epoch)
	timer := c.AfterFunc(time.Second, func() { t.Fatal("stopped timer fired") })
	if !timer.Stop() {
		t.Fatal("expected Stop to report an active timer")
	}
	if timer.Stop() {
		t.Fatal("second Stop should report false")
	}
	c.Advance(time.Minute)
	if got := c.Pending(); got != 0 {
		t.Fatalf("expected no pending timers, got %d", got)
	}
}

func TestFakeTickerDropsMissedTicks(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(time.Second)
	defer ticker.Stop()

	c.Advance(5 * time.Second)
	select {
	case got := <-ticker.C:
		if !got.Equal(epoch.Add(5 * time.Second)) {
			t.Fatalf("unexpected tick time %v", got)
		}
	default:
		t.Fatal("expected a tick")
	}
	select {
	case <-ticker.C:
		t.Fatal("missed ticks should be dropped")
	default:
	}

	c.Advance(time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker should resume on the next interval")
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	c := Fake(epoch)
	done := make(chan struct{})
	go func() {
		c.NewTicker(time.Second)
		close(done)
	}()
	c.WaitForTimers(1)
	<-done
	if got := c.Pending(); got != 1 {
		t.Fatalf("expected 1 pending, got %d", got)
	}
}
