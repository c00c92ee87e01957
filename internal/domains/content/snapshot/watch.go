package snapshot

import (
	"context"
	"path/filepath"

	"content-backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
)

// Invalidator is the slice of the memory cache the watcher needs.
type Invalidator interface {
	Invalidate()
}

// Watch monitors the snapshot file and invalidates the memory cache whenever
// the file changes: hand edits between runs, or a sibling process writing
// through the shared filesystem. It runs until ctx is cancelled.
//
// The watch is on the parent directory, not the file. Atomic rename-style
// saves (including this store's own writes) replace the file's inode, which
// silently kills a file-level watch; the directory watch survives the swap
// and reports the replacement as a create of the same name.
func (s *Store) Watch(ctx context.Context, cache Invalidator) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	logger.Info("snapshot: watching for external changes", map[string]interface{}{
		"path": s.path,
	})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			// Create covers rename-style saves landing on the watched
			// name; Remove covers deletion, after which reads see an
			// empty collection.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			cache.Invalidate()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("snapshot: watcher error", err)
		}
	}
}
