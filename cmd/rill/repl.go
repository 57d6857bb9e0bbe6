package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/rill-lang/rill/pkg/driver"
	"github.com/rill-lang/rill/pkg/interpreter"
	"github.com/rill-lang/rill/pkg/parser"
	"github.com/rill-lang/rill/pkg/runtime"
)

const (
	replPrompt   = ">> "
	replContinue = ".. "
	historyName  = ".rill_history"
)

func newReplCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.logger(cmd.ErrOrStderr()))
		},
	}
}

func runRepl(stdout, stderr io.Writer, logger *slog.Logger) error {
	// One session for the whole sitting, so definitions persist from one
	// input to the next.
	session := driver.NewSession(
		interpreter.WithStdout(stdout),
		interpreter.WithLogger(logger),
	)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	loadHistory(line, histPath)
	defer saveHistory(line, histPath, logger)

	fmt.Fprintf(stdout, "rill %s (Ctrl-D to exit)\n", version)

	var pending strings.Builder
	for {
		prompt := replPrompt
		if pending.Len() > 0 {
			prompt = replContinue
		}
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			pending.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		if pending.Len() > 0 {
			pending.WriteString("\n")
		}
		pending.WriteString(input)
		source := pending.String()
		if strings.TrimSpace(source) == "" {
			pending.Reset()
			continue
		}

		value, err := session.RunSource("repl", source)
		if err != nil {
			var parseErr *parser.ParseError
			if errors.As(err, &parseErr) && parseErr.Incomplete {
				continue // an open block: keep reading lines
			}
			pending.Reset()
			fmt.Fprintln(stderr, driver.RenderError(err, source))
			continue
		}
		pending.Reset()
		if value != nil && value.Kind() != runtime.KindNull {
			fmt.Fprintln(stdout, session.Interpreter().Format(value))
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyName)
}

func loadHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	line.ReadHistory(f)
}

func saveHistory(line *liner.State, path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Debug("history not saved", "err", err)
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
