package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kson-lang/kson/internal/kson/kson"
)

var validateInput, validateSchema string

// NewValidateCommand validates a KSON document against a Draft-7 schema.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a KSON document against a JSON Schema",
		RunE:  runValidate,
	}
	cmd.Flags().StringVarP(&validateInput, "input", "i", "-", "input path (or stdin)")
	cmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "path to the schema document (required)")
	cmd.MarkFlagRequired("schema")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	schemaSrc, err := readInput(cmd, validateSchema)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}
	validator, diags, ok := kson.ParseSchema(string(schemaSrc))
	for _, d := range diags {
		fmt.Fprintln(cmd.ErrOrStderr(), d.Format())
	}
	if !ok {
		return fmt.Errorf("schema document failed to parse")
	}

	src, err := readInput(cmd, validateInput)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	violations, ok := validator.Validate(string(src))
	for _, d := range violations {
		fmt.Fprintln(cmd.ErrOrStderr(), d.Format())
	}
	if !ok {
		return fmt.Errorf("document failed to parse")
	}
	if violations.HasErrors() {
		return fmt.Errorf("validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "valid")
	return nil
}
