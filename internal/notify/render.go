package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/tablo/internal/config/colors"
)

type style struct {
	icon       string
	title      string
	foreground string
	background string
}

func styleFor(kind Kind, scheme colors.ColorScheme) style {
	switch kind {
	case Success:
		return style{icon: "✓", title: "Success", foreground: scheme.SuccessFg, background: scheme.SuccessBg}
	case Warning:
		return style{icon: "⚠", title: "Warning", foreground: scheme.WarningFg, background: scheme.WarningBg}
	case Error:
		return style{icon: "✕", title: "Error", foreground: scheme.ErrorFg, background: scheme.ErrorBg}
	default:
		return style{icon: "🔔", title: "Info", foreground: scheme.InfoFg, background: scheme.InfoBg}
	}
}

// Render renders a notification banner for the given kind
func Render(kind Kind, message string, scheme colors.ColorScheme) string {
	s := styleFor(kind, scheme)

	headerText := s.icon + " " + s.title
	maxWidth := max(lipgloss.Width(headerText), lipgloss.Width(message))

	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.foreground)).
		Bold(true).
		Width(maxWidth).
		Render(headerText)

	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.foreground)).
		Width(maxWidth).
		Render(message)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(s.background)).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

// Printer writes each notification to w as it arrives, for one-shot CLI
// commands where there is nothing to expire. Plain prints a single
// "kind: message" line instead of a banner.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	scheme colors.ColorScheme
	Plain  bool
}

// NewPrinter creates a printer using the given color scheme
func NewPrinter(w io.Writer, scheme colors.ColorScheme) *Printer {
	return &Printer{w: w, scheme: scheme}
}

func (p *Printer) Notify(message string, kind Kind, _ time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Plain {
		fmt.Fprintf(p.w, "%s: %s\n", kind, message)
		return
	}
	fmt.Fprintln(p.w, Render(kind, message, p.scheme))
}
