package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/maestrohq/maestro/internal/conductor"
)

// maxEventRows bounds the event scrollback.
const maxEventRows = 10

// EventsPanel renders the tail of the conductor's event stream.
type EventsPanel struct {
	lines []string
	width int

	titleStyle lipgloss.Style
	lineStyle  lipgloss.Style
	errStyle   lipgloss.Style
}

// NewEventsPanel creates a new EventsPanel.
func NewEventsPanel() *EventsPanel {
	return &EventsPanel{
		width: 60,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238")),

		lineStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		errStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}

// Append adds one event to the scrollback, dropping the oldest line when
// full.
func (p *EventsPanel) Append(ev conductor.Event) {
	line := p.format(ev)
	p.lines = append(p.lines, line)
	if len(p.lines) > maxEventRows {
		p.lines = p.lines[len(p.lines)-maxEventRows:]
	}
}

// SetWidth sets the panel width.
func (p *EventsPanel) SetWidth(width int) {
	p.width = width
}

// View renders the panel.
func (p *EventsPanel) View() string {
	var b strings.Builder

	b.WriteString(p.titleStyle.Render("Events"))
	b.WriteString("\n")

	if len(p.lines) == 0 {
		b.WriteString(p.lineStyle.Render("(quiet)"))
		return b.String()
	}

	for _, line := range p.lines {
		b.WriteString(truncate(line, p.width-2))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// format turns an event into a single display line.
func (p *EventsPanel) format(ev conductor.Event) string {
	stamp := ev.Timestamp.Format("15:04:05")

	var detail string
	switch ev.Type {
	case conductor.EventItemIngested:
		detail = fmt.Sprintf("item %s ingested from %s", ev.ItemID, ev.Message)
	case conductor.EventClusterPass:
		detail = "cluster pass: " + ev.Message
	case conductor.EventClusterSkipped:
		detail = "cluster pass skipped"
	case conductor.EventPlanCreated:
		detail = fmt.Sprintf("plan %s for %q", ev.PlanID, ev.Message)
	case conductor.EventStepAssigned:
		detail = fmt.Sprintf("%q -> %s", ev.Message, ev.WorkerID)
	case conductor.EventStepUnassigned:
		detail = fmt.Sprintf("%q unassigned", ev.Message)
	case conductor.EventWorkerFreed:
		detail = fmt.Sprintf("worker %s freed", ev.WorkerID)
	case conductor.EventBranchFailed:
		detail = p.errStyle.Render(fmt.Sprintf("branch %q failed", ev.Message))
	default:
		detail = string(ev.Type)
	}

	return p.lineStyle.Render(stamp+" ") + detail
}
