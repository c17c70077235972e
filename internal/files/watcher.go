package files

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called for each uploads directory change.
// kind is "created" or "deleted".
type EventCallback func(kind, name string)

// Watch starts an fsnotify watcher on the uploads directory and
// reports file create/remove events until ctx is cancelled. Out-of-band
// deletions matter here: a removed file orphans the document rows that
// reference it.
func Watch(ctx context.Context, store *Store, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(store.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", store.Root()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)

			switch {
			case ev.Op&fsnotify.Create != 0:
				logger.Debug("watcher: file created", slog.String("name", name))
				if cb != nil {
					cb("created", name)
				}
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Warn("watcher: stored file removed", slog.String("name", name))
				if cb != nil {
					cb("deleted", name)
				}
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
