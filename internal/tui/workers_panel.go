package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/maestrohq/maestro/pkg/models"
)

// WorkersPanel renders the worker pool with status and current task.
type WorkersPanel struct {
	workers []*models.Worker
	width   int

	titleStyle   lipgloss.Style
	idleStyle    lipgloss.Style
	busyStyle    lipgloss.Style
	blockedStyle lipgloss.Style
	nameStyle    lipgloss.Style
	taskStyle    lipgloss.Style
}

// NewWorkersPanel creates a new WorkersPanel.
func NewWorkersPanel() *WorkersPanel {
	return &WorkersPanel{
		width: 40,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238")),

		idleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		busyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		blockedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		nameStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),

		taskStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// SetWorkers updates the displayed roster.
func (p *WorkersPanel) SetWorkers(workers []*models.Worker) {
	p.workers = workers
}

// SetWidth sets the panel width.
func (p *WorkersPanel) SetWidth(width int) {
	p.width = width
}

// View renders the panel.
func (p *WorkersPanel) View() string {
	var b strings.Builder

	b.WriteString(p.titleStyle.Render("Workers"))
	b.WriteString("\n")

	if len(p.workers) == 0 {
		b.WriteString(p.taskStyle.Render("(no workers)"))
		return b.String()
	}

	for _, w := range p.workers {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			p.statusBadge(w.Status),
			p.nameStyle.Render(w.Name),
			p.taskStyle.Render(fmt.Sprintf("(%.2f)", w.PerformanceScore))))

		if w.Status == models.WorkerBusy && w.CurrentTask != "" {
			b.WriteString("    ")
			b.WriteString(p.taskStyle.Render(truncate(w.CurrentTask, p.width-6)))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// statusBadge returns the colored status marker for a worker.
func (p *WorkersPanel) statusBadge(status models.WorkerStatus) string {
	switch status {
	case models.WorkerIdle:
		return p.idleStyle.Render("●")
	case models.WorkerBusy:
		return p.busyStyle.Render("◐")
	case models.WorkerBlocked:
		return p.blockedStyle.Render("■")
	default:
		return "?"
	}
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
