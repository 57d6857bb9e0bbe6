package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rill-lang/rill/pkg/driver"
	"github.com/rill-lang/rill/pkg/interpreter"
	"github.com/rill-lang/rill/pkg/runtime"
)

func newRunCommand(opts *cliOptions) *cobra.Command {
	var (
		trace     bool
		noTrace   bool
		workers   int
		loopLimit int
		watch     bool
	)
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a rill program",
		Long: `Run executes a .rill program file. With no argument it looks for a
rill.yml in the working directory (or a parent) and runs its entry file.
Flags override rill.yml settings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := discoverConfig()
			if err != nil {
				return err
			}
			entry := cfg.EntryPath()
			if len(args) == 1 {
				entry = args[0]
			}
			if entry == "" {
				return errors.New("no program file: pass one or set entry in rill.yml")
			}

			logger := opts.logger(cmd.ErrOrStderr())
			runOpts := []interpreter.Option{
				interpreter.WithStdout(cmd.OutOrStdout()),
				interpreter.WithLogger(logger),
				interpreter.WithTracing(resolveTracing(cfg, trace, noTrace)),
				interpreter.WithLoopLimit(resolveLoopLimit(cmd, cfg, loopLimit)),
			}
			if pool := resolveWorkers(cmd, cfg, workers); pool > 0 {
				runOpts = append(runOpts, interpreter.WithWorkerPool(runtime.NewWorkerPool(pool)))
			}

			// A fresh session per run keeps watch-mode reruns independent:
			// globals from the previous execution never leak forward.
			runOnce := func() error {
				source, err := driver.LoadFile(entry)
				if err != nil {
					return err
				}
				session := driver.NewSession(runOpts...)
				if _, err := session.RunSource(entry, source); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), driver.RenderError(err, source))
					return errHandled
				}
				return nil
			}

			if !watch {
				return runOnce()
			}
			report := func(err error) {
				if err == nil || errors.Is(err, errHandled) {
					return
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "rill:", err)
			}
			report(runOnce())
			return driver.WatchFile(entry, logger, func() {
				report(runOnce())
			})
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "force pipe tracing on")
	cmd.Flags().BoolVar(&noTrace, "no-trace", false, "suppress pipe tracing")
	cmd.Flags().IntVar(&workers, "workers", 0, "spawn worker pool size (0 = shared default)")
	cmd.Flags().IntVar(&loopLimit, "loop-limit", interpreter.DefaultLoopLimit, "while-loop iteration ceiling (0 = unlimited)")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-run whenever the file changes")
	cmd.MarkFlagsMutuallyExclusive("trace", "no-trace")
	return cmd
}

// discoverConfig loads the nearest rill.yml, or returns nil when the project
// has none.
func discoverConfig() (*driver.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	path, err := driver.FindConfig(cwd)
	if err != nil {
		if errors.Is(err, driver.ErrNoConfig) {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadConfig(path)
}

// Flag beats config beats default, checked per setting so a rill.yml can
// still fill in whatever the command line left alone.

func resolveTracing(cfg *driver.Config, trace, noTrace bool) bool {
	tracing := true
	if cfg != nil && cfg.Trace != nil {
		tracing = *cfg.Trace
	}
	if noTrace {
		tracing = false
	} else if trace {
		tracing = true
	}
	return tracing
}

func resolveWorkers(cmd *cobra.Command, cfg *driver.Config, workers int) int {
	if cmd.Flags().Changed("workers") {
		return workers
	}
	if cfg != nil {
		return cfg.Workers
	}
	return workers
}

func resolveLoopLimit(cmd *cobra.Command, cfg *driver.Config, loopLimit int) int {
	if cmd.Flags().Changed("loop-limit") {
		return loopLimit
	}
	if cfg != nil && cfg.LoopLimit != nil {
		return *cfg.LoopLimit
	}
	return loopLimit
}
