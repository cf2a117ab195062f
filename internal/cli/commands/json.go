package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kson-lang/kson/internal/kson/jsonenc"
	"github.com/kson-lang/kson/internal/kson/kson"
)

var (
	jsonInput, jsonOutput string
	jsonIndent            int
	jsonRetainTags        bool
)

// NewJSONCommand transpiles KSON to JSON.
func NewJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Transpile a KSON document to JSON",
		RunE:  runJSON,
	}
	cmd.Flags().StringVarP(&jsonInput, "input", "i", "-", "input path (or stdin)")
	cmd.Flags().StringVarP(&jsonOutput, "output", "o", "-", "output path (or stdout)")
	cmd.Flags().IntVar(&jsonIndent, "indent", 0, "spaces to indent with (0 means compact)")
	cmd.Flags().BoolVar(&jsonRetainTags, "retain-tags", true, "render embed blocks as {embedTag, embedContent} objects")
	return cmd
}

func runJSON(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, jsonInput)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	indent := ""
	if jsonIndent > 0 {
		for i := 0; i < jsonIndent; i++ {
			indent += " "
		}
	}

	out, diags, ok := kson.ToJSON(string(src), jsonenc.Options{Indent: indent, RetainTags: jsonRetainTags})
	for _, d := range diags {
		fmt.Fprintln(cmd.ErrOrStderr(), d.Format())
	}
	if !ok {
		return fmt.Errorf("cannot transpile a document with parse errors")
	}

	return writeOutput(cmd, jsonOutput, []byte(out+"\n"))
}
