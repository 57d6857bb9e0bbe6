// Command rill is the command-line front end for the rill language: it runs
// programs, dumps parse trees, and hosts an interactive session.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// errHandled marks failures that were already rendered to stderr, so main
// can exit non-zero without printing them a second time.
var errHandled = errors.New("handled")

func main() {
	root := newRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errHandled) {
			fmt.Fprintln(os.Stderr, "rill:", err)
		}
		os.Exit(1)
	}
}

type cliOptions struct {
	verbose bool
}

// logger returns the debug logger for -v runs and a discarding one
// otherwise. Debug events go to stderr so program output stays clean.
func (o *cliOptions) logger(w io.Writer) *slog.Logger {
	if o.verbose {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "rill",
		Short:         "The rill language toolchain",
		Long:          "rill runs .rill programs, inspects their syntax trees, and hosts a REPL.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug events to stderr")
	root.AddCommand(
		newRunCommand(opts),
		newParseCommand(),
		newReplCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rill version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rill %s\n", version)
		},
	}
}
