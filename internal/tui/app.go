package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maestrohq/maestro/internal/conductor"
	"github.com/maestrohq/maestro/pkg/models"
)

// Pipeline is the slice of the conductor the watch view needs. Tests
// substitute a fake.
type Pipeline interface {
	Items() []*models.Item
	Workers() []*models.Worker
	Events() <-chan conductor.Event
	Orchestrate(ctx context.Context, goal string) (*models.PlanResult, error)
}

// tickMsg drives the periodic snapshot refresh.
type tickMsg time.Time

// eventMsg wraps one conductor event for the event panel.
type eventMsg conductor.Event

// planMsg reports the outcome of an orchestration started from the view.
type planMsg struct {
	plan *models.PlanResult
	err  error
}

// Watch is the top-level watch view model.
type Watch struct {
	pipeline Pipeline
	refresh  time.Duration

	workers *WorkersPanel
	items   *ItemsPanel
	events  *EventsPanel
	goal    textinput.Model

	status   string
	statusOK bool
	planning bool
	width    int
	height   int

	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
	errorStyle  lipgloss.Style
	hintStyle   lipgloss.Style
}

// NewWatch creates the watch view for a running pipeline.
func NewWatch(pipeline Pipeline, refresh time.Duration) *Watch {
	if refresh <= 0 {
		refresh = 500 * time.Millisecond
	}

	goal := textinput.New()
	goal.Placeholder = "enter a goal and press enter to plan"
	goal.CharLimit = 200
	goal.Focus()

	return &Watch{
		pipeline: pipeline,
		refresh:  refresh,
		workers:  NewWorkersPanel(),
		items:    NewItemsPanel(),
		events:   NewEventsPanel(),
		goal:     goal,
		width:    100,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),

		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Init starts the refresh ticker and the event pump.
func (w *Watch) Init() tea.Cmd {
	return tea.Batch(w.tick(), w.waitForEvent(), textinput.Blink)
}

// Update handles messages.
func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		w.layout()
		return w, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return w, tea.Quit
		case "q":
			// Only quit on q when not typing a goal.
			if w.goal.Value() == "" {
				return w, tea.Quit
			}
		case "enter":
			goal := w.goal.Value()
			if goal != "" && !w.planning {
				w.planning = true
				w.status = "planning: " + goal
				w.statusOK = true
				w.goal.Reset()
				return w, w.orchestrate(goal)
			}
			return w, nil
		}

	case tickMsg:
		w.workers.SetWorkers(w.pipeline.Workers())
		w.items.SetItems(w.pipeline.Items())
		return w, w.tick()

	case eventMsg:
		w.events.Append(conductor.Event(msg))
		return w, w.waitForEvent()

	case planMsg:
		w.planning = false
		if msg.err != nil {
			w.status = "planning failed: " + msg.err.Error()
			w.statusOK = false
		} else {
			w.status = fmt.Sprintf("plan %s: %d step(s), score %.3f",
				msg.plan.ID, len(msg.plan.Path)-1, msg.plan.PathScore)
			w.statusOK = true
		}
		return w, nil
	}

	var cmd tea.Cmd
	w.goal, cmd = w.goal.Update(msg)
	return w, cmd
}

// View renders the watch layout.
func (w *Watch) View() string {
	header := w.titleStyle.Render("maestro") + w.hintStyle.Render("  conductor watch")

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(2).Render(w.workers.View()),
		w.items.View())

	var status string
	if w.status != "" {
		if w.statusOK {
			status = w.statusStyle.Render(w.status)
		} else {
			status = w.errorStyle.Render(w.status)
		}
	}

	hints := w.hintStyle.Render("enter plan │ esc quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		top,
		"",
		w.events.View(),
		"",
		w.goal.View(),
		status,
		hints)
}

// layout distributes the available width across panels.
func (w *Watch) layout() {
	workerWidth := w.width / 3
	if workerWidth < 24 {
		workerWidth = 24
	}
	w.workers.SetWidth(workerWidth)
	w.items.SetWidth(w.width - workerWidth - 2)
	w.events.SetWidth(w.width)
	w.goal.Width = w.width - 4
}

// tick schedules the next snapshot refresh.
func (w *Watch) tick() tea.Cmd {
	return tea.Tick(w.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the conductor's event stream.
func (w *Watch) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-w.pipeline.Events()
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

// orchestrate runs one planning call off the UI loop.
func (w *Watch) orchestrate(goal string) tea.Cmd {
	return func() tea.Msg {
		plan, err := w.pipeline.Orchestrate(context.Background(), goal)
		return planMsg{plan: plan, err: err}
	}
}

// NewProgram creates the bubbletea program for the watch view.
func NewProgram(pipeline Pipeline, refresh time.Duration) *tea.Program {
	return tea.NewProgram(NewWatch(pipeline, refresh), tea.WithAltScreen())
}
