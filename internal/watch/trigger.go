package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andyrewlee/rewatch/internal/logging"
	"github.com/andyrewlee/rewatch/internal/safego"
)

// Trigger fires a render pulse when any of a set of files changes. Each
// file's parent directory carries the watch: editors and build tools replace
// files by writing a temp file and renaming it over the original, and
// fsnotify watches inodes, so a watch on the file itself is lost at the
// first save.
type Trigger struct {
	watcher   *fsnotify.Watcher
	paths     map[string]bool
	pulses    chan struct{}
	debounce  time.Duration
	closeOnce sync.Once
}

// NewTrigger watches the given paths. The files need not exist yet, but
// their directories must.
func NewTrigger(paths []string) (*Trigger, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	t := &Trigger{
		watcher:  watcher,
		paths:    make(map[string]bool),
		pulses:   make(chan struct{}, 1),
		debounce: 500 * time.Millisecond,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		t.paths[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
		dirs[dir] = true
	}

	safego.Go("file-trigger", t.run)
	return t, nil
}

// Pulses delivers one token per batch of changes. The channel holds at most
// one pending pulse, so changes arriving during a render coalesce.
func (t *Trigger) Pulses() <-chan struct{} {
	return t.pulses
}

func (t *Trigger) run() {
	var last time.Time
	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if !t.paths[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if time.Since(last) < t.debounce {
				continue
			}
			last = time.Now()
			logging.Debug("trigger: %s", event)
			select {
			case t.pulses <- struct{}{}:
			default:
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			logging.WithError(err, "file trigger")
		}
	}
}

// Close stops the watcher and its pump.
func (t *Trigger) Close() error {
	var err error
	t.closeOnce.Do(func() {
		err = t.watcher.Close()
	})
	return err
}
