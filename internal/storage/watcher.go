package storage

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce coalesces the write/rename event burst an atomic save
// produces into a single reload.
const watchDebounce = 200 * time.Millisecond

// WatchFile watches the notes file for external changes and calls
// onChange after each debounced modification, until ctx is cancelled.
// The parent directory is watched rather than the file itself because
// atomic saves replace the file by rename.
func WatchFile(ctx context.Context, path string, logger *zap.Logger, onChange func()) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	logger.Info("watcher: started", zap.String("path", absPath))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(watchDebounce)
			reloadCh = reloadTimer.C
			return
		}
		reloadTimer.Reset(watchDebounce)
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			logger.Debug("watcher: reloading", zap.String("path", absPath))
			if onChange != nil {
				onChange()
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			eventPath, pathErr := filepath.Abs(event.Name)
			if pathErr != nil || eventPath != absPath {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", zap.Error(watchErr))
		}
	}
}
