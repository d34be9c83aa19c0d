package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// WatchAdapter reports changes inside a directory.
type WatchAdapter interface {
	// WatchDir streams the paths of files created, written, removed or
	// renamed in dir until ctx is cancelled. Both channels are closed when
	// watching stops.
	WatchDir(ctx context.Context, dir m.Path) (<-chan m.Path, <-chan error, error)
}

// LocalWatchAdapter implements WatchAdapter with fsnotify.
type LocalWatchAdapter struct {
	buffer int
}

// NewLocalWatchAdapter constructs a LocalWatchAdapter.
func NewLocalWatchAdapter() *LocalWatchAdapter {
	return &LocalWatchAdapter{buffer: 16}
}

// WatchDir starts watching dir.
func (a *LocalWatchAdapter) WatchDir(ctx context.Context, dir m.Path) (<-chan m.Path, <-chan error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(string(dir)); err != nil {
		_ = watcher.Close()
		return nil, nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	eventCh := make(chan m.Path, a.buffer)
	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)
		defer close(errCh)

		defer func() {
			if err := watcher.Close(); err != nil {
				slog.Error("Failed to close watcher", "dir", dir, "error", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				slog.Debug("watch event", "path", event.Name, "op", event.Op.String())

				select {
				case <-ctx.Done():
					return
				case eventCh <- m.Path(event.Name):
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				select {
				case errCh <- err:
				default:
					slog.Warn("Dropping watcher error", "dir", dir, "error", err)
				}
			}
		}
	}()

	return eventCh, errCh, nil
}
