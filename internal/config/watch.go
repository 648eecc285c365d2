package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursty editor and atomic-write events.
const watchDebounce = 200 * time.Millisecond

// Watch reloads the manifest at path whenever it changes and passes each
// valid result to reload. Invalid manifests are logged and skipped, so the
// caller keeps running with the last good one. Watch blocks until ctx is
// done.
//
// The parent directory is watched rather than the file, since editors often
// replace files instead of writing them in place.
func Watch(ctx context.Context, path string, logger *slog.Logger, reload func(*Config)) error {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watching manifest", "path", path)

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(watchDebounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(watchDebounce)
		}
		timerCh = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			schedule()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("manifest watch error", "error", err)
		case <-timerCh:
			timerCh = nil
			reloadFile(path, logger, reload)
		}
	}
}

func reloadFile(path string, logger *slog.Logger, reload func(*Config)) {
	cfg, err := LoadFile(path)
	if err != nil {
		logger.Error("manifest reload failed", "path", path, "error", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("manifest reload failed", "path", path, "error", err)
		return
	}
	cfg.LogLint(logger)

	logger.Info("manifest reloaded", "path", path, "routes", len(cfg.Routes))
	reload(cfg)
}
