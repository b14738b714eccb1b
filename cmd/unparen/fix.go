package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"unparen/internal/diag"
	"unparen/internal/driver"
	"unparen/internal/fix"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] [file.cs|directory]",
		Short: "Remove unnecessary parentheses",
		Long: `Fix removes parentheses check would report. --all re-judges every removal
against the ones made before it, so the result needs no second pass.`,
		Args: cobra.MaximumNArgs(1),
		RunE: instrumented(runFix),
	}
	cmd.Flags().Bool("all", false, "remove every unnecessary pair in each file")
	cmd.Flags().Bool("once", false, "remove the first unnecessary pair (default)")
	cmd.Flags().String("id", "", "apply the fix with a specific identifier")
	cmd.Flags().Bool("diff", false, "print a unified diff instead of writing files")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directories (0 = from config, else GOMAXPROCS)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	addStyleFlags(cmd)
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	mode, err := applyMode(applyAll, applyOnce, targetID)
	if err != nil {
		return err
	}

	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	// id уникален только в пределах одного файла
	if s.isDir && targetID != "" {
		return fmt.Errorf("fix: --id can only be used with a single file")
	}

	opts := s.opts
	opts.KeepTrees = mode == fix.ApplyModeAll
	res, err := analyze(cmd.Context(), s, progressView{mode: uiModeOff}, opts)
	if err != nil {
		return fmt.Errorf("fix: analysis failed: %w", err)
	}

	var diagnostics []diag.Diagnostic
	if mode == fix.ApplyModeAll {
		diagnostics, err = driver.PlanFixAll(cmd.Context(), res, opts.Style)
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
	} else {
		res.Bag.Sort()
		diagnostics = res.Bag.Items()
	}

	applied, applyErr := fix.Apply(res.FileSet, diagnostics, fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   showDiff,
		Diff:     showDiff,
	})
	out := cmd.OutOrStdout()
	if showDiff && applied != nil {
		for _, change := range applied.FileChanges {
			fmt.Fprint(out, change.Diff)
		}
		return ignoreNoFixes(applyErr)
	}
	if s.quiet {
		return ignoreNoFixes(applyErr)
	}
	return handleApplyResult(out, applied, applyErr)
}

func applyMode(all, once bool, id string) (fix.ApplyMode, error) {
	if id != "" && (all || once) {
		return 0, fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if all && once {
		return 0, fmt.Errorf("--all and --once are mutually exclusive")
	}
	switch {
	case id != "":
		return fix.ApplyModeID, nil
	case all:
		return fix.ApplyModeAll, nil
	}
	return fix.ApplyModeOnce, nil
}

func ignoreNoFixes(err error) error {
	if errors.Is(err, fix.ErrNoFixes) {
		return nil
	}
	return err
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return ignoreNoFixes(applyErr)
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability.String())
		}
	}
	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
	return nil
}
