package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"unparen/internal/diagfmt"
	"unparen/internal/driver"
	"unparen/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.cs|directory]",
		Short: "Report parentheses that can be removed",
		Long: `Check analyzes a C# file or every selected file of a directory and reports each
parenthesized expression whose parentheses can be dropped. The exit status is 1 when
something is reported and 2 when a file could not be read or parsed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: instrumented(runCheck),
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directories (0 = from config, else GOMAXPROCS)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	cmd.Flags().String("ui", "auto", "progress view for directories (auto|on|off)")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Bool("preview", false, "show each fix as the lines before and after it (pretty and json)")
	addStyleFlags(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}

	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	res, err := analyze(cmd.Context(), s, progressView{mode: mode, format: format}, s.opts)
	if err != nil {
		return err
	}
	res.Bag.Sort()

	pathMode := diagfmt.PathModeRelative
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	if err := writeDiagnostics(cmd, out, format, diagnosticsView{pathMode: pathMode, preview: preview}, res); err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	if !s.quiet && format != diagfmt.FormatJSON && format != diagfmt.FormatSARIF {
		printSummary(errOut, &res.Stats)
	}
	if s.opts.Timer != nil {
		if err := driver.WriteTimings(errOut, "check", target, s.opts.Timer, &res.Stats); err != nil {
			return err
		}
	}
	return exitStatus(res)
}

// diagnosticsView holds the output flags shared by the renderers.
type diagnosticsView struct {
	pathMode diagfmt.PathMode
	preview  bool
}

func writeDiagnostics(cmd *cobra.Command, out io.Writer, format diagfmt.Format, view diagnosticsView, res *driver.Result) error {
	switch format {
	case diagfmt.FormatShort:
		return diagfmt.Short(out, res.Bag, res.FileSet, view.pathMode)
	case diagfmt.FormatJSON:
		return diagfmt.JSON(out, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         view.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  view.preview,
		})
	case diagfmt.FormatSARIF:
		return diagfmt.Sarif(out, res.Bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "unparen",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	default:
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       color,
			Context:     1,
			PathMode:    view.pathMode,
			ShowNotes:   true,
			ShowFixes:   true,
			ShowPreview: view.preview,
		})
		return nil
	}
}

func printSummary(w io.Writer, stats *driver.Stats) {
	fmt.Fprintf(w, "%d file(s): %d analyzed, %d cached, %d with syntax errors; %d of %d group(s) removable\n",
		stats.Files, stats.Analyzed, stats.Cached, stats.Broken, stats.Removable, stats.Groups)
}

// exitStatus maps the outcome of a run to the process exit status.
func exitStatus(res *driver.Result) error {
	switch {
	case res.Bag.HasErrors():
		return exitError{code: exitErrors}
	case res.Stats.Removable > 0:
		return exitError{code: exitFindings}
	}
	return nil
}
