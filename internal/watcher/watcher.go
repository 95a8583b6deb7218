// Package watcher rebuilds the guide when section files change. Editors
// tend to emit bursts of events per save, so changes are debounced into a
// single rebuild.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"docbind/internal/manifest"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 300 * time.Millisecond

type Watcher struct {
	dir      string
	m        manifest.Manifest
	debounce time.Duration
	onChange func()
}

// New watches dir for changes to manifest sections and calls onChange
// after each debounced burst. Files outside the manifest (including the
// assembled output) are ignored.
func New(dir string, m manifest.Manifest, debounce time.Duration, onChange func()) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, m: m, debounce: debounce, onChange: onChange}
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case <-fire:
			timer = nil
			fire = nil
			w.onChange()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return w.m.Contains(filepath.Base(ev.Name))
}
