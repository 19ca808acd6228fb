// Package coordinator owns the running timer. It restores and persists timer
// state, detects finished runs, moves through work and break cycles and
// answers requests from the CLI, the terminal UI and the MCP server.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/clock"
	"tableflip.dev/pomo/pkg/cycle"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/store"
	"tableflip.dev/pomo/pkg/timing"
)

const (
	CheckInterval = time.Second
	BadgeInterval = time.Minute
	SaveDelay     = time.Second
)

// Coordinator serialises every change to the timer behind one lock.
type Coordinator struct {
	svc      *app.Service
	store    store.Persistence
	clock    clock.Clock
	log      *zap.Logger
	notifier Notifier

	mu           sync.Mutex
	state        session.State
	settings     session.Settings
	timeSettings timing.Settings
	cycle        cycle.Settings
	badge        string
	dirty        bool
	saveTimer    *clock.Timer

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// New returns a coordinator over svc. Call Load before anything else.
func New(svc *app.Service, log *zap.Logger, n Notifier) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	if n == nil {
		n = LogNotifier{Log: log}
	}
	c := svc.Clock
	if c == nil {
		c = clock.Real()
	}
	return &Coordinator{
		svc:          svc,
		store:        svc.Persistence,
		clock:        c,
		log:          log,
		notifier:     n,
		settings:     session.DefaultSettings(),
		timeSettings: timing.Default(),
		cycle:        cycle.Default(),
		subs:         map[int]chan Snapshot{},
	}
}

// Load restores settings and timer state. Unreadable values fall back to
// their defaults. The restored state is written back at once.
func (c *Coordinator) Load(ctx context.Context) error {
	if c.store == nil {
		return app.ErrNoPersistence
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loadLocked(true)
	c.badge = session.BadgeText(c.state, c.clock.Now())
	c.log.Debug("timer restored",
		zap.Stringer("type", c.state.Type),
		zap.Bool("running", c.state.Running),
		zap.Int("cycle", c.cycle.CurrentCycle))
	return c.saveLocked()
}

func (c *Coordinator) loadLocked(initial bool) {
	now := c.clock.Now()
	if s, err := c.store.TimerSettings(); err != nil {
		c.log.Warn("loading timer settings", zap.Error(err))
	} else {
		c.settings = s
	}
	if s, err := c.store.TimeSettings(); err != nil {
		c.log.Warn("loading time settings", zap.Error(err))
	} else {
		c.timeSettings = s
	}
	if s, err := c.store.CycleSettings(); err != nil {
		c.log.Warn("loading cycle settings", zap.Error(err))
	} else {
		c.cycle = s
	}
	c.settings = c.timeSettings.ApplyTo(c.settings)

	st, ok, err := c.store.TimerState()
	switch {
	case err != nil:
		c.log.Warn("loading timer state", zap.Error(err))
		if initial {
			c.state = session.New(session.Work, c.settings, now)
		}
	case !ok:
		if initial {
			c.state = session.New(session.Work, c.settings, now)
		}
	default:
		c.state = st
	}
}

// Run checks the timer every second and refreshes the badge every minute
// until ctx is done. Changes written by other processes are picked up when
// the store can be watched. Pending state is flushed before Run returns.
func (c *Coordinator) Run(ctx context.Context) error {
	check := c.clock.NewTicker(CheckInterval)
	defer check.Stop()
	badge := c.clock.NewTicker(BadgeInterval)
	defer badge.Stop()

	events, err := c.svc.Watch(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrWatchUnsupported) {
			c.log.Warn("watching store", zap.Error(err))
		}
		events = nil
	}

	for {
		select {
		case <-ctx.Done():
			return c.Flush()
		case <-check.C:
			c.Check(ctx)
		case <-badge.C:
			c.UpdateBadge()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.reload(ev)
		}
	}
}

// Check finishes the current run if its time is up. It reports whether a run
// was finished.
func (c *Coordinator) Check(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Running || !session.Completed(c.state, c.clock.Now()) {
		return false
	}
	c.completeLocked(ctx)
	return true
}

func (c *Coordinator) completeLocked(ctx context.Context) {
	now := c.clock.Now()
	finished := c.state.Type
	if finished == session.Work {
		if _, err := c.recordPomodoro(ctx); err != nil && !errors.Is(err, errNoTask) {
			c.log.Warn("recording pomodoro", zap.Error(err))
		}
	}

	long := cycle.LongBreakDue(c.cycle, finished)
	c.cycle = cycle.Advance(c.cycle, finished)

	var title, message string
	switch {
	case c.cycle.Completed:
		c.state = session.New(session.Work, c.settings, now)
		st := cycle.StateOf(c.cycle, c.state.Type)
		title, message = "All cycles complete", cycle.CompletionMessage(st)
	case finished == session.Work:
		next := c.settings
		next.BreakDurationSec = c.timeSettings.BreakSeconds(long)
		c.state = session.Start(session.New(session.Break, next, now), now)
		kind := "Short break"
		if long {
			kind = "Long break"
		}
		title, message = "Work session complete", fmt.Sprintf("%s, %s", kind, c.lengthText(next.BreakDurationSec))
	default:
		c.state = session.Start(session.New(session.Work, c.settings, now), now)
		title, message = "Break over", "Focus for "+c.lengthText(c.settings.WorkDurationSec)
	}

	c.log.Info("session complete",
		zap.Stringer("finished", finished),
		zap.Stringer("next", c.state.Type),
		zap.Int("cycle", c.cycle.CurrentCycle),
		zap.Bool("longBreak", long))
	if err := c.notifier.Notify(title, message); err != nil {
		c.log.Warn("notifying", zap.Error(err))
	}
	if c.settings.SoundEnabled {
		c.playSoundLocked(finished)
	}

	if err := c.saveLocked(); err != nil {
		c.log.Warn("saving timer", zap.Error(err))
	}
	c.badge = session.BadgeText(c.state, now)
	c.publishLocked()
}

func (c *Coordinator) lengthText(sec int) string {
	if c.timeSettings.DebugMode {
		return fmt.Sprintf("%d sec", sec)
	}
	return fmt.Sprintf("%d min", (sec+30)/60)
}

func (c *Coordinator) playSoundLocked(t session.Type) {
	sound := c.settings.WorkCompleteSound
	if t == session.Break {
		sound = c.settings.BreakCompleteSound
	}
	if err := c.notifier.PlaySound(t, sound); err != nil {
		c.log.Warn("playing sound", zap.Error(err))
	}
}

var errNoTask = errors.New("coordinator: no current task")

// recordPomodoro credits a finished work run to today's plan, or to the
// current task when nothing is planned.
func (c *Coordinator) recordPomodoro(ctx context.Context) (*app.PomodoroResult, error) {
	res, err := c.svc.CompleteCurrentSlot(ctx)
	if err == nil {
		c.log.Debug("slot complete", zap.String("slot", res.Slot.ID), zap.Bool("taskDone", res.TaskDone))
		return res, nil
	}
	if !errors.Is(err, app.ErrNoCurrentSlot) {
		return nil, err
	}
	t, err := c.svc.CurrentTask(ctx)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errNoTask
	}
	t, err = c.svc.IncrementTaskPomodoro(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &app.PomodoroResult{Task: t}, nil
}

// Dispatch handles one request. Failures the user can act on are reported
// in the response; err is reserved for unknown actions.
func (c *Coordinator) Dispatch(ctx context.Context, msg Message) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()

	resp := Response{Success: true}
	switch msg.Action {
	case ActionStart:
		if c.cycle.Completed {
			c.cycle = cycle.Reset(c.cycle)
		}
		c.state = session.Start(c.state, now)
		c.changedLocked()
	case ActionStop:
		c.state = session.Pause(c.state, now)
		c.changedLocked()
	case ActionReset:
		c.state = session.New(session.Work, c.settings, now)
		c.cycle = cycle.Reset(c.cycle)
		c.changedLocked()
		if err := c.store.SaveCycleSettings(c.cycle); err != nil {
			resp.fail(err)
		}
	case ActionGetState:
	case ActionUpdateBadge:
		c.badge = session.BadgeText(c.state, now)
	case ActionPlaySound:
		if c.settings.SoundEnabled && msg.SessionType != "" {
			c.playSoundLocked(msg.SessionType)
		}
	case ActionUpdateSettings:
		if err := c.updateSettingsLocked(msg.Settings, now); err != nil {
			resp.fail(err)
		}
	case ActionCompleteCurrentSlot:
		res, err := c.recordPomodoro(ctx)
		if err != nil {
			resp.fail(err)
		} else {
			resp.Pomodoro = res
		}
	case ActionGetCurrentTaskInfo:
		t, err := c.svc.CurrentTask(ctx)
		if err != nil {
			resp.fail(err)
		}
		resp.CurrentTask = t
	default:
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}

	c.badge = session.BadgeText(c.state, now)
	resp.Snapshot = c.snapshotLocked(now)
	c.publishLocked()
	return resp, nil
}

func (r *Response) fail(err error) {
	r.Success = false
	r.Error = err.Error()
}

func (c *Coordinator) updateSettingsLocked(u *SettingsUpdate, now time.Time) error {
	if u == nil {
		return nil
	}
	if u.SoundEnabled != nil {
		c.settings.SoundEnabled = *u.SoundEnabled
	}
	if u.TimeSettings != nil {
		c.timeSettings = timing.Validate(*u.TimeSettings)
		c.settings = c.timeSettings.ApplyTo(c.settings)
	}
	if u.CycleSettings != nil {
		next := cycle.Validate(*u.CycleSettings)
		if next.CurrentCycle > next.TotalCycles {
			next.CurrentCycle = next.TotalCycles
		}
		c.cycle = next
	}
	// An idle run picks up new lengths so the next start uses them.
	if !c.state.Running && !c.state.Paused() {
		c.state = session.New(c.state.Type, c.settings, now)
	}

	var errs []error
	errs = append(errs, c.store.SaveTimeSettings(c.timeSettings))
	errs = append(errs, c.store.SaveCycleSettings(c.cycle))
	c.cancelSaveLocked()
	errs = append(errs, c.saveLocked())
	return errors.Join(errs...)
}

// UpdateBadge recomputes the badge text and publishes it when it changed.
func (c *Coordinator) UpdateBadge() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	badge := session.BadgeText(c.state, c.clock.Now())
	if badge != c.badge {
		c.badge = badge
		c.publishLocked()
	}
	return badge
}

// Snapshot returns the current view of the timer.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(c.clock.Now())
}

func (c *Coordinator) snapshotLocked(now time.Time) Snapshot {
	rem := session.Remaining(c.state, now)
	return Snapshot{
		State:         c.state,
		Settings:      c.settings,
		TimeSettings:  c.timeSettings,
		CycleSettings: c.cycle,
		Cycle:         cycle.StateOf(c.cycle, c.state.Type),
		Remaining:     rem,
		Badge:         c.badge,
		BadgeColor:    session.BadgeColor(c.state.Type),
		Progress:      session.ProgressOf(c.state, rem),
	}
}

// changedLocked marks the state dirty and schedules a save SaveDelay from
// now. Further changes push the save back.
func (c *Coordinator) changedLocked() {
	c.dirty = true
	c.cancelSaveLocked()
	c.saveTimer = c.clock.AfterFunc(SaveDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.dirty {
			return
		}
		if err := c.saveLocked(); err != nil {
			c.log.Warn("saving timer", zap.Error(err))
		}
	})
}

func (c *Coordinator) cancelSaveLocked() {
	if c.saveTimer != nil {
		c.saveTimer.Stop()
		c.saveTimer = nil
	}
}

func (c *Coordinator) saveLocked() error {
	c.cancelSaveLocked()
	if err := c.store.SaveTimerState(c.state); err != nil {
		return err
	}
	// The daily slot count is owned by the plan commands.
	if stored, err := c.store.TimerSettings(); err == nil {
		c.settings.DailySlots = stored.DailySlots
	}
	if err := c.store.SaveTimerSettings(c.settings); err != nil {
		return err
	}
	if err := c.store.SaveCycleSettings(c.cycle); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Flush writes pending state now.
func (c *Coordinator) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelSaveLocked()
	if !c.dirty {
		return nil
	}
	return c.saveLocked()
}

// reload applies a change made by another process. Local changes that are
// not saved yet win.
func (c *Coordinator) reload(ev store.Event) {
	switch ev.Key {
	case "", store.KeyTimerState, store.KeyTimerSettings, store.KeyTimeSettings, store.KeyCycleSettings:
	default:
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty {
		return
	}
	c.loadLocked(false)
	c.badge = session.BadgeText(c.state, c.clock.Now())
	c.log.Debug("timer reloaded", zap.String("key", ev.Key))
	c.publishLocked()
}

// Subscribe returns a channel that receives a snapshot after every change.
// Slow readers only see the latest snapshot. Call cancel when done.
func (c *Coordinator) Subscribe() (<-chan Snapshot, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan Snapshot, 1)
	c.subs[id] = ch
	return ch, func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(ch)
		}
	}
}

func (c *Coordinator) publishLocked() {
	snap := c.snapshotLocked(c.clock.Now())
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
