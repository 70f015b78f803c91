// Package styles holds the lipgloss styles of human-readable CLI output.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/tablo/internal/config"
	"github.com/thenoetrevino/tablo/internal/models"
)

// Widths in cells
const (
	CardWidth   = 80
	ColumnWidth = 30
)

var (
	CardStyle         lipgloss.Style // task detail frame
	ColumnStyle       lipgloss.Style
	ColumnHeaderStyle lipgloss.Style
	TaskCardStyle     lipgloss.Style // one task inside a column

	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // field names such as "Due:"
	ValueStyle    lipgloss.Style
	SectionStyle  lipgloss.Style

	badges   map[models.Label]lipgloss.Style
	priority map[models.Priority]lipgloss.Style
)

func init() {
	Init(config.Default().ColorScheme)
}

// Init rebuilds every style from scheme
func Init(scheme config.ColorScheme) {
	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	badge := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(hex))
	}

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(scheme.Accent)).
		Padding(1, 2).
		Width(CardWidth)
	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(scheme.ColumnBorder)).
		Padding(0, 1).
		Width(ColumnWidth)
	ColumnHeaderStyle = fg(scheme.Title).Bold(true).MarginBottom(1)
	TaskCardStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(scheme.Subtle)).
		Width(ColumnWidth - 2)

	TitleStyle = fg(scheme.Title).Bold(true)
	SubtitleStyle = fg(scheme.Subtle)
	LabelStyle = fg(scheme.Accent).Bold(true)
	ValueStyle = fg(scheme.Normal)
	SectionStyle = fg(scheme.Accent).Bold(true).MarginTop(1)

	badges = map[models.Label]lipgloss.Style{
		models.LabelFeature: badge(scheme.Feature),
		models.LabelBug:     badge(scheme.Bug),
		models.LabelIssue:   badge(scheme.Issue),
	}
	priority = map[models.Priority]lipgloss.Style{
		models.PriorityHigh:   fg(scheme.ErrorFg).Bold(true),
		models.PriorityMedium: fg(scheme.WarningFg),
		models.PriorityLow:    SubtitleStyle,
	}
}

// LabelBadge renders a task label. Undefined labels render as "".
func LabelBadge(label models.Label) string {
	s, ok := badges[label]
	if !ok {
		return ""
	}
	return s.Render(string(label))
}

var priorityMarks = map[models.Priority]string{
	models.PriorityHigh:   "!!!",
	models.PriorityMedium: "!!",
	models.PriorityLow:    "!",
}

// PriorityText renders a priority with its marker, e.g. "!! Medium"
func PriorityText(p models.Priority) string {
	s, ok := priority[p]
	if !ok {
		return ""
	}
	return s.Render(priorityMarks[p] + " " + string(p))
}

// ProgressBar renders a bar of width cells followed by the percentage
func ProgressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return ValueStyle.Render(strings.Repeat("█", filled)+strings.Repeat("░", width-filled)) +
		SubtitleStyle.Render(fmt.Sprintf(" %d%%", percent))
}
