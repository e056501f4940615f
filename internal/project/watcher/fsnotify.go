package watcher

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches individual files using fsnotify.
type FileWatcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	config  Config

	// files is the set of watched absolute file paths; dirs counts the
	// watched files per parent directory.
	files map[string]bool
	dirs  map[string]int

	pending map[string]*pendingEvent

	events chan Event
	errors chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// pendingEvent tracks a debounced event.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// New creates a file watcher.
func New(opts ...Option) (*FileWatcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 100
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &FileWatcher{
		watcher: fsw,
		config:  config,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, config.BufferSize),
		errors:  make(chan error, config.BufferSize),
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch starts watching the file at path. The file must exist.
func (w *FileWatcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if info.IsDir() {
		return ErrIsDirectory
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Unwatch stops watching the file at path.
func (w *FileWatcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[absPath] {
		return ErrNotWatching
	}

	delete(w.files, absPath)
	if p, ok := w.pending[absPath]; ok {
		p.timer.Stop()
		delete(w.pending, absPath)
	}

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.watcher.Remove(dir)
	}
	return nil
}

// Events returns the event channel. It is closed by Close.
func (w *FileWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// IsWatching returns true if the file at path is being watched.
func (w *FileWatcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[absPath]
}

// WatchedPaths returns the watched files in sorted order.
func (w *FileWatcher) WatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// PendingCount returns the number of events waiting out their debounce delay.
func (w *FileWatcher) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Flush immediately delivers all pending events.
func (w *FileWatcher) Flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path, p := range w.pending {
		p.timer.Stop()
		paths = append(paths, path)
	}
	w.mu.Unlock()

	sort.Strings(paths)
	for _, path := range paths {
		w.fire(path)
	}
}

// Close stops the watcher and closes the event and error channels.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.closedWg.Wait()

	// A timer that fired before Stop may still be sending; it holds the
	// lock while doing so and gives up once closed is set.
	w.mu.Lock()
	close(w.events)
	close(w.errors)
	w.mu.Unlock()

	return w.watcher.Close()
}

// processLoop handles incoming fsnotify events.
func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.config.Logger.Warn("watch error", "error", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// handle filters an fsnotify event down to watched files and debounces it.
func (w *FileWatcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	if w.closed || !w.files[path] {
		w.mu.Unlock()
		return
	}
	now := time.Now()

	if w.config.DebounceDelay == 0 {
		w.sendLocked(Event{Path: path, Op: op, Timestamp: now})
		w.mu.Unlock()
		return
	}

	if p, ok := w.pending[path]; ok {
		p.event.Op |= op
		p.event.Timestamp = now
		p.timer.Reset(w.config.DebounceDelay)
		w.mu.Unlock()
		return
	}
	w.pending[path] = &pendingEvent{
		event: Event{Path: path, Op: op, Timestamp: now},
		timer: time.AfterFunc(w.config.DebounceDelay, func() { w.fire(path) }),
	}
	w.mu.Unlock()
}

// fire delivers the pending event for path.
func (w *FileWatcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pending[path]
	if !ok || w.closed {
		return
	}
	delete(w.pending, path)
	w.sendLocked(p.event)
}

// sendLocked queues an event without blocking. w.mu must be held.
func (w *FileWatcher) sendLocked(event Event) {
	select {
	case w.events <- event:
	default:
		w.config.Logger.Warn("event channel full, dropping event", "path", event.Path, "op", event.Op)
	}
}

// convertOp converts fsnotify.Op to watcher.Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}
