package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"unparen/internal/diagfmt"
	"unparen/internal/driver"
	"unparen/internal/parens"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.cs",
		Short: "Print the expression tree of a C# source file",
		Long: `Parse prints every expression of a C# source file as a tree. With --verdicts
each parenthesized group is annotated with the reason it must stay or can go.`,
		Args: cobra.ExactArgs(1),
		RunE: instrumented(runParse),
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("verdicts", false, "annotate groups with their verdicts")
	addStyleFlags(cmd)
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	withVerdicts, err := cmd.Flags().GetBool("verdicts")
	if err != nil {
		return fmt.Errorf("failed to get verdicts flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(cmd.Context(), filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if result.Bag.Len() > 0 {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		result.Bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: color, Context: 2})
	}

	var verdicts []parens.Verdict
	if withVerdicts {
		s, err := loadSettings(cmd, filePath)
		if err != nil {
			return err
		}
		verdicts, err = result.Verdicts(cmd.Context(), s.opts.Style)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatASTJSON(out, result.Builder, result.FileID, result.FileSet, verdicts)
	} else {
		err = diagfmt.FormatASTPretty(out, result.Builder, result.FileID, result.FileSet, verdicts)
	}
	if err != nil {
		return err
	}
	if result.Errors > 0 || result.Bag.HasErrors() {
		return exitError{code: exitErrors}
	}
	return nil
}
