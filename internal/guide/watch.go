package guide

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits for a burst of file events to settle.
const WatchDebounce = 100 * time.Millisecond

// Watch reloads the guide at path whenever it is written or recreated and
// passes the result to onChange. Parse failures are delivered as errors so the
// caller can keep running the previous guide. Watch blocks until ctx is done.
//
// The parent directory is watched, not the file, because editors commonly
// save by writing a temp file and renaming it over the original.
func Watch(ctx context.Context, path string, onChange func(*Guide, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve guide path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = true
			debounce.Reset(WatchDebounce)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			g, err := Load(abs)
			onChange(g, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("watching guide: %w", err))
		}
	}
}
