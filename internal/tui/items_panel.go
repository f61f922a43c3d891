package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/maestrohq/maestro/pkg/models"
)

// maxItemRows bounds how many recent items the panel shows.
const maxItemRows = 12

// ItemsPanel renders the tail of the ingested item log with importance
// and cluster labels.
type ItemsPanel struct {
	items []*models.Item
	width int

	titleStyle   lipgloss.Style
	sourceStyle  lipgloss.Style
	textStyle    lipgloss.Style
	clusterStyle lipgloss.Style
	noiseStyle   lipgloss.Style
	hotStyle     lipgloss.Style
}

// NewItemsPanel creates a new ItemsPanel.
func NewItemsPanel() *ItemsPanel {
	return &ItemsPanel{
		width: 60,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238")),

		sourceStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		textStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		clusterStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")),

		noiseStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		hotStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
	}
}

// SetItems updates the displayed item log.
func (p *ItemsPanel) SetItems(items []*models.Item) {
	p.items = items
}

// SetWidth sets the panel width.
func (p *ItemsPanel) SetWidth(width int) {
	p.width = width
}

// View renders the panel, newest items last.
func (p *ItemsPanel) View() string {
	var b strings.Builder

	b.WriteString(p.titleStyle.Render(fmt.Sprintf("Items (%d)", len(p.items))))
	b.WriteString("\n")

	if len(p.items) == 0 {
		b.WriteString(p.noiseStyle.Render("(nothing ingested yet)"))
		return b.String()
	}

	start := 0
	if len(p.items) > maxItemRows {
		start = len(p.items) - maxItemRows
	}
	for _, item := range p.items[start:] {
		b.WriteString(p.clusterBadge(item))
		b.WriteString(" ")
		b.WriteString(p.importanceBadge(item.Importance))
		b.WriteString(" ")
		b.WriteString(p.sourceStyle.Render("[" + item.Source + "]"))
		b.WriteString(" ")
		b.WriteString(p.textStyle.Render(truncate(item.Text, p.width-16)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// clusterBadge shows the item's cluster label, or a dot for noise and
// unclustered items.
func (p *ItemsPanel) clusterBadge(item *models.Item) string {
	if item.ClusterID == nil {
		return p.noiseStyle.Render(" ·")
	}
	if *item.ClusterID == models.NoiseCluster {
		return p.noiseStyle.Render(" ~")
	}
	return p.clusterStyle.Render(fmt.Sprintf("c%d", *item.ClusterID))
}

// importanceBadge renders importance as a two-digit bar.
func (p *ItemsPanel) importanceBadge(importance float64) string {
	label := fmt.Sprintf("%.1f", importance)
	if importance >= 0.3 {
		return p.hotStyle.Render(label)
	}
	return p.noiseStyle.Render(label)
}
