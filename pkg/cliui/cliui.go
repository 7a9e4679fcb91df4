// Package cliui holds the terminal styles shared by the chatproxy commands.
// Output goes through lipgloss writers so colours are dropped when the
// destination is not a terminal.
package cliui

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	WarnMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true).Render("!")
	EmptyMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("●")

	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	NameStyle   = lipgloss.NewStyle().Bold(true)
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

const notSet = "<not set>"

// Printf writes a formatted line to w with colours downsampled for w.
func Printf(w io.Writer, format string, args ...any) {
	_, _ = lipgloss.Fprintf(w, format, args...)
}

// Done prints an indented success line.
func Done(w io.Writer, format string, args ...any) {
	Printf(w, "  %s %s\n", SuccessMark, fmt.Sprintf(format, args...))
}

// Warn prints an indented warning line.
func Warn(w io.Writer, format string, args ...any) {
	Printf(w, "  %s %s\n", WarnMark, fmt.Sprintf(format, args...))
}

// Title prints a section header framed by blank lines.
func Title(w io.Writer, title string) {
	Printf(w, "\n  %s\n\n", HeaderStyle.Render(title))
}

// Field renders a key next to its value. Empty values read as <not set>.
func Field(key, value string) string {
	if value == "" {
		return KeyStyle.Render(key) + "  " + DimStyle.Render(notSet)
	}
	return KeyStyle.Render(key) + "  " + ValueStyle.Render(value)
}
