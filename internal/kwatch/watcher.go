// Package kwatch implements the file-watch loop behind `kson watch`: it
// monitors a set of directories for `.kson` file changes, debounces
// bursts of events from a single save, and re-runs an analysis callback
// on the settled batch.
package kwatch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Watcher monitors the file system for `.kson` changes and triggers a
// callback once a burst of writes has settled.
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	ignored   []string
	onChange  func(sessionID string, files []string) error
	log       *zap.SugaredLogger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher. onChange is invoked with a fresh correlation ID
// per settled batch, so log lines from the same save can be grouped by a
// caller aggregating structured logs.
func New(log *zap.SugaredLogger, ignored []string, onChange func(sessionID string, files []string) error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("kwatch: failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		ignored:  ignored,
		onChange: onChange,
		log:      log,
		stopChan: make(chan struct{}),
	}
	w.debouncer = newDebouncer(150*time.Millisecond, func(files []string) {
		sessionID := uuid.NewString()
		if err := w.onChange(sessionID, files); err != nil {
			w.log.Errorw("kwatch: change handler failed", "session", sessionID, "error", err)
		}
	})
	return w, nil
}

// Start begins watching every directory in roots (non-recursively added
// by caller; each root is added as-is to fsnotify, which does not watch
// subdirectories on its own).
func (w *Watcher) Start(roots []string) error {
	for _, root := range roots {
		if err := w.watcher.Add(root); err != nil {
			return fmt.Errorf("kwatch: failed to watch directory %s: %w", root, err)
		}
		w.log.Infow("watching directory", "path", root)
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop shuts the watcher down and waits for its goroutine to exit.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopChan:
		return nil
	default:
		close(w.stopChan)
	}
	w.wg.Wait()
	w.debouncer.stop()
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if strings.HasSuffix(event.Name, ".kson") {
					w.log.Debugw("file changed", "path", event.Name)
					w.debouncer.add(event.Name)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorw("watch error", "error", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, pattern := range w.ignored {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// debouncer collects changed paths and flushes them as one batch once no
// new event has arrived for `duration`.
type debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopChan chan struct{}
}

func newDebouncer(duration time.Duration, callback func([]string)) *debouncer {
	return &debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
		callback: callback,
		stopChan: make(chan struct{}),
	}
}

func (d *debouncer) add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.files[file] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

func (d *debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.files) == 0 {
		return
	}
	files := make([]string, 0, len(d.files))
	for f := range d.files {
		files = append(files, f)
	}
	d.files = make(map[string]struct{})
	if d.callback != nil {
		d.callback(files)
	}
}

func (d *debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
	}
}
