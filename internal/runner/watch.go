package runner

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses bursts of events, such as an editor's save sequence.
const debounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// Paths are the files and directories to watch; directories are
	// watched recursively.
	Paths []string
	// Relevant filters changed files. Nil accepts every file.
	Relevant func(path string) bool
	Logger   *slog.Logger
}

// Watch calls onChange after relevant files change, until ctx is done.
// onChange never runs concurrently with itself.
func Watch(ctx context.Context, opts WatchOptions, onChange func(ctx context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, p := range opts.Paths {
		if err := watchRecursive(watcher, p); err != nil {
			logger.Error("failed to watch path", "path", p, "error", err)
		}
	}

	// Debounce timer
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchRecursive(watcher, event.Name)
					continue
				}
			}
			if opts.Relevant != nil && !opts.Relevant(event.Name) {
				continue
			}
			logger.Debug("file changed", "file", event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			onChange(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// watchRecursive adds a directory and all subdirectories to the watcher.
// A file is watched directly.
func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
