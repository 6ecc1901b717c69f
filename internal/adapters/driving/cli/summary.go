package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/valueindex/internal/core/domain"
)

// summaryStyles colours the run summary on a terminal.
type summaryStyles struct {
	styled bool

	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

func newSummaryStyles(styled bool) summaryStyles {
	return summaryStyles{
		styled:  styled,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

// paint renders text with style, or returns it unchanged when output is not a terminal.
func (s summaryStyles) paint(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}
	return style.Render(text)
}

// renderSummary formats a run report for display.
func renderSummary(report *domain.RunReport, styled bool) string {
	s := newSummaryStyles(styled)
	var b strings.Builder

	b.WriteString(s.paint(s.Title, "Run "+report.RunID) + "\n")

	failed := s.Muted
	if report.Failed() > 0 {
		failed = s.Error
	}
	fmt.Fprintf(&b, "  %s  %s  %d records\n",
		s.paint(s.Success, fmt.Sprintf("%d indexed", report.Succeeded())),
		s.paint(failed, fmt.Sprintf("%d failed", report.Failed())),
		report.Records(),
	)
	if len(report.Skipped) > 0 {
		b.WriteString(s.paint(s.Muted, "  skipped: "+strings.Join(report.Skipped, ", ")) + "\n")
	}

	for _, outcome := range report.Databases {
		if !outcome.OK() {
			line := fmt.Sprintf("  %s [%s]: %v", outcome.Database.ID, outcome.Stage, outcome.Err)
			b.WriteString(s.paint(s.Error, line) + "\n")
			continue
		}
		if n := outcome.FailedColumns(); n > 0 {
			line := fmt.Sprintf("  %s: %d columns skipped", outcome.Database.ID, n)
			b.WriteString(s.paint(s.Muted, line) + "\n")
		}
	}

	return b.String()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
