package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	locationColor = color.New(color.FgBlue)
)

// Format renders a single diagnostic as "[SEVERITY] message at line:column",
// the wire format spec.md §6 specifies for CLI error output.
func (d *Diagnostic) Format() string {
	return fmt.Sprintf("[%s] %s at %s", strings.ToUpper(d.Severity.String()), d.Message, d.Location.String())
}

// FormatColor renders the same message with ANSI severity coloring, for an
// interactive terminal.
func (d *Diagnostic) FormatColor() string {
	sev := severityColor(d.Severity).Sprintf("[%s]", strings.ToUpper(d.Severity.String()))
	loc := locationColor.Sprint(d.Location.String())
	msg := fmt.Sprintf("%s %s at %s", sev, d.Message, loc)
	if d.Suggestion != "" {
		msg += "\n  " + color.New(color.Faint).Sprintf("help: %s", d.Suggestion)
	}
	return msg
}

func severityColor(s Severity) *color.Color {
	switch s {
	case Error:
		return errorColor
	case Warning:
		return warningColor
	default:
		return infoColor
	}
}

// FormatAll renders a Diagnostics list, one diagnostic per line.
func (ds Diagnostics) FormatAll() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.Format()
	}
	return strings.Join(lines, "\n")
}

// FormatAllColor renders a Diagnostics list with ANSI coloring.
func (ds Diagnostics) FormatAllColor() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.FormatColor()
	}
	return strings.Join(lines, "\n")
}
