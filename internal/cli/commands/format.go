package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kson-lang/kson/internal/kdiff"
	"github.com/kson-lang/kson/internal/kson/kson"
	"github.com/kson-lang/kson/internal/kson/lexer"
)

var formatFlags styleFlags
var formatInput, formatOutput string
var formatShowDiff, formatShowTokens bool

// NewFormatCommand reformats KSON source in one of the four styles.
func NewFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Reformat a KSON document",
		RunE:  runFormat,
	}
	cmd.Flags().StringVarP(&formatInput, "input", "i", "-", "input path (or stdin)")
	cmd.Flags().StringVarP(&formatOutput, "output", "o", "-", "output path (or stdout)")
	cmd.Flags().BoolVar(&formatShowDiff, "diff", false, "show what formatting would change instead of writing it")
	cmd.Flags().BoolVar(&formatShowTokens, "show-tokens", false, "dump the lexer's token stream instead of formatting")
	formatFlags.register(cmd)
	return cmd
}

func runFormat(cmd *cobra.Command, args []string) error {
	opts, err := formatFlags.options()
	if err != nil {
		return err
	}

	src, err := readInput(cmd, formatInput)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if formatShowTokens {
		toks, diags := lexer.New(string(src)).Lex()
		for _, tok := range toks {
			fmt.Fprintln(cmd.OutOrStdout(), tok.String())
		}
		for _, d := range diags {
			fmt.Fprintln(cmd.ErrOrStderr(), d.Format())
		}
		if diags.HasErrors() {
			return fmt.Errorf("lexing completed with errors")
		}
		return nil
	}

	out, diags := kson.Format(string(src), opts)
	for _, d := range diags {
		fmt.Fprintln(cmd.ErrOrStderr(), d.Format())
	}

	if formatShowDiff {
		result := kdiff.Diff(string(src), out)
		fmt.Fprint(cmd.OutOrStdout(), result.String())
		if diags.HasErrors() {
			return fmt.Errorf("format completed with errors")
		}
		return nil
	}

	if err := writeOutput(cmd, formatOutput, []byte(out)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if diags.HasErrors() {
		return fmt.Errorf("format completed with errors")
	}
	return nil
}
