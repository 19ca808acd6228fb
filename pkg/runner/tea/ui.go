package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/pomo/pkg/app"
	"tableflip.dev/pomo/pkg/coordinator"
	"tableflip.dev/pomo/pkg/cycle"
	"tableflip.dev/pomo/pkg/glyph"
	"tableflip.dev/pomo/pkg/plan"
	"tableflip.dev/pomo/pkg/session"
	"tableflip.dev/pomo/pkg/task"
)

const (
	refreshInterval = time.Second
	maxBarWidth     = 60
	nameWidth       = 48
)

type (
	// updateMsg carries a snapshot published by the coordinator.
	updateMsg coordinator.Snapshot
	// resultMsg is the answer to a key driven action.
	resultMsg struct {
		snap   coordinator.Snapshot
		status string
	}
	dataMsg struct {
		tasks   []*task.Task
		plan    *plan.DayPlan
		current *task.Task
	}
	tickMsg   time.Time
	statusMsg string
	errMsg    struct{ err error }
)

// Model contains UI state.
type Model struct {
	ctx     context.Context
	svc     *app.Service
	timer   *coordinator.Coordinator
	updates <-chan coordinator.Snapshot

	keys  KeyMap
	theme Theme
	bar   progress.Model
	help  help.Model

	snap    coordinator.Snapshot
	tasks   []*task.Task
	plan    *plan.DayPlan
	current *task.Task
	cursor  int

	status string
	failed bool
	width  int
}

// New creates a UI model backed by the service and the timer. updates may be
// nil, in which case the model only sees its own changes and the refresh tick.
func New(ctx context.Context, svc *app.Service, timer *coordinator.Coordinator, updates <-chan coordinator.Snapshot) Model {
	return Model{
		ctx:     ctx,
		svc:     svc,
		timer:   timer,
		updates: updates,
		keys:    DefaultKeyMap,
		theme:   DefaultTheme(),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:    help.New(),
		snap:    timer.Snapshot(),
		status:  "space to start, enter to pick a task",
	}
}

// Init loads the tasks and plan, and starts listening for timer changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.wait(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) wait() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	ch := m.updates
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return updateMsg(snap)
	}
}

func (m Model) load() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		tasks, err := svc.Tasks(ctx)
		if err != nil {
			return errMsg{err}
		}
		p, err := svc.TodayPlan(ctx)
		if err != nil {
			return errMsg{err}
		}
		cur, err := svc.CurrentTask(ctx)
		if err != nil {
			return errMsg{err}
		}
		open := append(task.Filter(tasks, task.Doing), task.Filter(tasks, task.Backlog)...)
		return dataMsg{tasks: open, plan: p, current: cur}
	}
}

func (m Model) dispatch(action coordinator.Action, done string) tea.Cmd {
	ctx, timer := m.ctx, m.timer
	return func() tea.Msg {
		resp, err := timer.Dispatch(ctx, coordinator.Message{Action: action})
		if err != nil {
			return errMsg{err}
		}
		if !resp.Success {
			return errMsg{fmt.Errorf("%s", resp.Error)}
		}
		status := done
		if p := resp.Pomodoro; p != nil && p.Task != nil {
			status = fmt.Sprintf("%s  %s %s", done, p.Task.Name, p.Task.Progress())
		}
		return resultMsg{snap: resp.Snapshot, status: status}
	}
}

func (m Model) pick(t *task.Task) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		if _, err := svc.SetCurrentTask(ctx, t.ID); err != nil {
			return errMsg{err}
		}
		return statusMsg("working on " + t.Name)
	}
}

// Update handles messages and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(maxBarWidth, max(10, msg.Width-4))
		m.help.Width = msg.Width
		return m, nil

	case updateMsg:
		m.snap = coordinator.Snapshot(msg)
		return m, tea.Batch(m.wait(), m.load())

	case resultMsg:
		m.snap = msg.snap
		m.setStatus(msg.status, false)
		return m, m.load()

	case tickMsg:
		m.snap = m.timer.Snapshot()
		return m, tick()

	case dataMsg:
		m.tasks, m.plan, m.current = msg.tasks, msg.plan, msg.current
		m.cursor = max(0, min(m.cursor, len(m.tasks)-1))
		return m, nil

	case statusMsg:
		m.setStatus(string(msg), false)
		return m, m.load()

	case errMsg:
		m.setStatus(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		if m.snap.State.Running {
			return m, m.dispatch(coordinator.ActionStop, "paused")
		}
		return m, m.dispatch(coordinator.ActionStart, "running")
	case key.Matches(msg, m.keys.Reset):
		return m, m.dispatch(coordinator.ActionReset, "reset")
	case key.Matches(msg, m.keys.Complete):
		return m, m.dispatch(coordinator.ActionCompleteCurrentSlot, "pomodoro recorded")
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(m.tasks) {
			return m, m.pick(m.tasks[m.cursor])
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// View renders the timer, today's slots and the open tasks.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("pomo") + "\n\n")
	m.viewTimer(&b)
	b.WriteString("\n")
	m.viewPlan(&b)
	b.WriteString("\n")
	m.viewTasks(&b)
	b.WriteString("\n")

	status := m.theme.Status
	if m.failed {
		status = m.theme.Error
	}
	b.WriteString(status.Render(m.status) + "\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewTimer(b *strings.Builder) {
	snap := m.snap
	style := m.theme.Session(snap.State.Type)
	state := "ready"
	switch {
	case snap.State.Running:
		state = "running"
	case snap.State.Paused():
		state = "paused"
	}
	fmt.Fprintf(b, "%s  %s  %s\n",
		style.Render(glyph.ForSession(snap.State.Type).Symbol+" "+snap.State.Type.String()),
		m.theme.Clock.Render(session.FormatClock(snap.Remaining)),
		m.theme.Dim.Render(state))
	b.WriteString(m.bar.ViewAs(snap.Progress.Percentage/100) + "\n")
	b.WriteString(m.theme.Dim.Render(cycle.ProgressText(snap.Cycle)+" · "+cycle.NextSessionText(snap.Cycle)) + "\n")
	if m.current != nil {
		fmt.Fprintf(b, "%s %s %s\n", m.theme.Current.Render(glyph.Current.Symbol), m.current.Name, m.theme.Dim.Render(m.current.Progress()))
	}
}

func (m Model) viewPlan(b *strings.Builder) {
	if m.plan == nil {
		return
	}
	sum := m.plan.Summary()
	b.WriteString(m.theme.Heading.Render(fmt.Sprintf("Today %s", m.plan.Date)))
	b.WriteString(m.theme.Dim.Render(fmt.Sprintf("  %d/%d", sum.Completed, sum.Planned)) + "\n")
	marks := make([]string, 0, len(m.plan.Slots))
	for _, s := range m.plan.Slots {
		marks = append(marks, glyph.ForSlot(s).Symbol)
	}
	b.WriteString(strings.Join(marks, " ") + "\n")
}

func (m Model) viewTasks(b *strings.Builder) {
	b.WriteString(m.theme.Heading.Render("Tasks") + "\n")
	if len(m.tasks) == 0 {
		b.WriteString(m.theme.Dim.Render("  none, add one with pomo task add") + "\n")
		return
	}
	for i, t := range m.tasks {
		mark := " "
		if m.current != nil && m.current.ID == t.ID {
			mark = glyph.Current.Symbol
		}
		line := fmt.Sprintf("%s %s %s %s", mark, glyph.ForStatus(t.Status).Symbol,
			truncate.StringWithTail(t.Name, nameWidth, "…"), t.Progress())
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
}
