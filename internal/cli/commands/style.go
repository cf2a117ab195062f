package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kson-lang/kson/internal/kson/format"
)

// styleFlags holds the formatting-style flags shared by the format
// command and any other command that renders KSON back to KSON.
type styleFlags struct {
	indentSpaces int
	indentTabs   bool
	style        string
}

func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.indentSpaces, "indent-spaces", 2, "number of spaces per indent level")
	cmd.Flags().BoolVar(&f.indentTabs, "indent-tabs", false, "indent with tabs instead of spaces")
	cmd.Flags().StringVar(&f.style, "style", "plain", "output style: plain, delimited, compact, classic")
}

func (f *styleFlags) options() (format.Options, error) {
	style, err := parseStyle(f.style)
	if err != nil {
		return format.Options{}, err
	}
	return format.Options{
		Style:      style,
		IndentKind: format.Indent{Tabs: f.indentTabs, Spaces: f.indentSpaces},
	}, nil
}

func parseStyle(s string) (format.Style, error) {
	switch s {
	case "plain":
		return format.Plain, nil
	case "delimited":
		return format.Delimited, nil
	case "compact":
		return format.Compact, nil
	case "classic":
		return format.Classic, nil
	default:
		return 0, fmt.Errorf("unknown style %q (want plain, delimited, compact, or classic)", s)
	}
}
