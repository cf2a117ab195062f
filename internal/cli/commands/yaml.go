package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kson-lang/kson/internal/kson/kson"
)

var yamlInput, yamlOutput string

// NewYAMLCommand transpiles KSON to YAML.
func NewYAMLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yaml",
		Short: "Transpile a KSON document to YAML",
		RunE:  runYAML,
	}
	cmd.Flags().StringVarP(&yamlInput, "input", "i", "-", "input path (or stdin)")
	cmd.Flags().StringVarP(&yamlOutput, "output", "o", "-", "output path (or stdout)")
	return cmd
}

func runYAML(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, yamlInput)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	out, diags, ok := kson.ToYAML(string(src))
	for _, d := range diags {
		fmt.Fprintln(cmd.ErrOrStderr(), d.Format())
	}
	if !ok {
		return fmt.Errorf("cannot transpile a document with parse errors")
	}

	return writeOutput(cmd, yamlOutput, []byte(out))
}
