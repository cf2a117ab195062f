// Package kdiff renders the difference between a document's original and
// formatted text, for "would this change anything" previews.
package kdiff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Result holds an original/formatted pair and whether they differ.
type Result struct {
	Original  string
	Formatted string
	Changed   bool
}

// Diff compares original and formatted text.
func Diff(original, formatted string) *Result {
	return &Result{
		Original:  original,
		Formatted: formatted,
		Changed:   original != formatted,
	}
}

// String renders a colored, line-oriented preview of the change.
func (d *Result) String() string {
	if !d.Changed {
		return color.GreenString("no changes needed")
	}

	var buf bytes.Buffer
	originalLines := strings.Split(d.Original, "\n")
	formattedLines := strings.Split(d.Formatted, "\n")

	maxLines := len(originalLines)
	if len(formattedLines) > maxLines {
		maxLines = len(formattedLines)
	}

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	for i := 0; i < maxLines; i++ {
		var origLine, formLine string
		if i < len(originalLines) {
			origLine = originalLines[i]
		}
		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}
		if origLine == formLine {
			continue
		}
		cyan.Fprintf(&buf, "@@ line %d @@\n", i+1)
		if origLine != "" {
			red.Fprintf(&buf, "- %s\n", origLine)
		}
		if formLine != "" {
			green.Fprintf(&buf, "+ %s\n", formLine)
		}
	}
	return buf.String()
}

// Unified renders a standard unified-diff-shaped string for path.
func (d *Result) Unified(path string) string {
	if !d.Changed {
		return ""
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- a/%s\n", path)
	fmt.Fprintf(&buf, "+++ b/%s\n", path)

	originalLines := strings.Split(d.Original, "\n")
	formattedLines := strings.Split(d.Formatted, "\n")
	maxLines := len(originalLines)
	if len(formattedLines) > maxLines {
		maxLines = len(formattedLines)
	}

	for i := 0; i < maxLines; i++ {
		var origLine, formLine string
		if i < len(originalLines) {
			origLine = originalLines[i]
		}
		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}
		if origLine == formLine {
			continue
		}
		fmt.Fprintf(&buf, "@@ -%d +%d @@\n", i+1, i+1)
		if origLine != "" {
			fmt.Fprintf(&buf, "-%s\n", origLine)
		}
		if formLine != "" {
			fmt.Fprintf(&buf, "+%s\n", formLine)
		}
	}
	return buf.String()
}
