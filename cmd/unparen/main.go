package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"unparen/internal/version"
)

// exitError carries a process exit status out of a command. Its message,
// if any, has already been printed.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Exit statuses of check and parse.
const (
	exitFindings = 1
	exitErrors   = 2
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "unparen",
		Short: "Find and remove unnecessary parentheses in C# code",
		Long: `unparen judges every parenthesized expression of C# sources and reports the
pairs that can go without changing how the code parses or evaluates`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "print phase timings as JSON to stderr")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	flags.String("config", "", "configuration file (default: discovered from the target upwards)")
	addTraceFlags(root)
	addProfileFlags(root)

	root.AddCommand(newCheckCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newLSPCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	os.Exit(run(newRootCmd(), os.Args[1:]))
}

// run executes root with args and maps the outcome to an exit status.
func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(root.ErrOrStderr(), "unparen: %v\n", err)
	return exitErrors
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for output written to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}
