package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Watch calls fn every time the file at path is written, created or replaced,
// once the file has been quiet for debounce. Errors from fn are logged and
// watching goes on. Watch returns nil when ctx is cancelled.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve watch path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory: editors and downloaders replace the file rather
	// than writing it in place.
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	logger.Info("Watching dataset", "path", target, "debounce", debounce)

	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	var pending bool
	var lastChange time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				lastChange = time.Now()
				logger.Debug("Dataset change detected", "op", event.Op.String())
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			if !pending || time.Since(lastChange) < debounce {
				continue
			}
			pending = false
			if err := fn(ctx); err != nil {
				logger.Error("Rebuild failed", "error", err)
			}
		}
	}
}
