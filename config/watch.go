// watch.go
package config

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/NOT-REAL-GAMES/vkframegen/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

var logger = log.New("config")

// Toggle is a flag written by the watcher and read by the render thread.
type Toggle struct {
	value atomic.Bool
	dirty atomic.Bool
}

func NewToggle(initial bool) *Toggle {
	t := &Toggle{}
	t.value.Store(initial)
	return t
}

func (t *Toggle) Set(v bool) {
	if t.value.Swap(v) != v {
		t.dirty.Store(true)
	}
}

func (t *Toggle) Get() bool {
	return t.value.Load()
}

// Changed returns the current value and whether it changed since the last
// call.
func (t *Toggle) Changed() (bool, bool) {
	return t.value.Load(), t.dirty.Swap(false)
}

// Watch reloads path whenever it is written and hands valid configs to fn.
// Invalid files are logged and skipped. fn runs on the watcher goroutine;
// it must only record values. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "config: watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "config: watch")
	}
	defer watcher.Close()

	// Editors replace files on save, so the directory is watched.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "config: watch %s", path)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(abs)
			if err != nil {
				logger.Warningf("ignoring %s: %v", path, err)
				continue
			}
			logger.Debugf("reloaded %s", path)
			fn(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("watch %s: %v", path, err)
		}
	}
}
