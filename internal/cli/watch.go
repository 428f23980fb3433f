package cli

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultWatchDebounce coalesces editor save bursts into one re-run.
const defaultWatchDebounce = 200 * time.Millisecond

// scenarioWatcher reports changes to scenario files under a directory tree.
type scenarioWatcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onError  func(error)

	mu      sync.Mutex
	timer   *time.Timer
	changes chan struct{}
}

// newScenarioWatcher watches root and every directory below it.
func newScenarioWatcher(root string, debounce time.Duration, onError func(error)) (*scenarioWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &scenarioWatcher{
		fsw:      fsw,
		debounce: debounce,
		onError:  onError,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Changed receives once per debounced burst of scenario file changes.
func (w *scenarioWatcher) Changed() <-chan struct{} {
	return w.changes
}

// Run forwards fsnotify events until ctx is done, then closes the watcher.
func (w *scenarioWatcher) Run(ctx context.Context) {
	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if isDir(event.Name) {
					if err := w.fsw.Add(event.Name); err != nil {
						w.onError(err)
					}
					continue
				}
			}
			if !isScenarioFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.trigger()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *scenarioWatcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.changes <- struct{}{}:
		default:
		}
	})
}

func (w *scenarioWatcher) close() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	_ = w.fsw.Close()
}
