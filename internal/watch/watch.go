// Package watch drives rebuild-on-change for cinderc --watch using
// OS-native file notifications.
package watch

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces editor save bursts into one rebuild.
const debounce = 100 * time.Millisecond

// Watcher observes a set of source files and invokes a callback when any
// of them changes.
type Watcher struct {
	w    *fsnotify.Watcher
	done chan struct{}
}

// New creates a watcher over the given paths.
func New(paths []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := fw.Add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return &Watcher{w: fw, done: make(chan struct{})}, nil
}

// Run blocks, invoking onChange with the changed path after each write
// or create event, and onError for watcher failures. It returns when
// Close is called.
func (w *Watcher) Run(onChange func(path string), onError func(err error)) {
	var (
		pending   string
		timer     *time.Timer
		timerFire <-chan time.Time
	)

	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = ev.Name
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerFire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-timerFire:
			onChange(pending)
			timer = nil
			timerFire = nil
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			onError(err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.w.Close()
}
