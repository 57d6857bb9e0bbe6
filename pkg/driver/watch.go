package driver

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses the bursts of filesystem events editors emit for
// a single save into one rerun.
const debounceWindow = 100 * time.Millisecond

// WatchFile blocks, invoking onChange each time the file is rewritten. It
// watches the parent directory rather than the file itself so atomic-save
// editors (write temp, rename over) keep triggering.
func WatchFile(path string, logger *slog.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	logger.Debug("watching", "file", abs)
	return watchLoop(watcher, abs, logger, onChange)
}

// watchLoop runs until the watcher is closed. Split from WatchFile so the
// loop can be driven with a caller-owned watcher.
func watchLoop(watcher *fsnotify.Watcher, abs string, logger *slog.Logger, onChange func()) error {
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			drainEvents(watcher)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Debug("watch error", "err", err)
		}
	}
}

func drainEvents(watcher *fsnotify.Watcher) {
	deadline := time.After(debounceWindow)
	for {
		select {
		case _, ok := <-watcher.Events:
			if !ok {
				return
			}
		case <-deadline:
			return
		}
	}
}
