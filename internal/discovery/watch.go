package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
)

// ErrorCode classifies watch failures for callers that map them to
// exit codes or user messages.
type ErrorCode string

const (
	ErrCodeNotFound       ErrorCode = "ENOENT"
	ErrCodeNotDir         ErrorCode = "ENOTDIR"
	ErrCodePermission     ErrorCode = "EACCES"
	ErrCodeTooManyWatches ErrorCode = "EMFILE"
	ErrCodeUnknown        ErrorCode = "UNKNOWN"
)

// WatchError is a classified failure from starting or running a
// watch.
type WatchError struct {
	Code    ErrorCode
	Path    string
	Message string
}

func (e *WatchError) Error() string {
	return e.Message
}

// EventType identifies what happened to a watched brainfile.
type EventType string

const (
	EventAdd    EventType = "add"
	EventChange EventType = "change"
	EventRemove EventType = "unlink"
)

// Event is one brainfile change. File carries fresh metadata for add
// and change events and is nil for removals.
type Event struct {
	Type EventType
	Path string
	File *File
}

// Watcher reports brainfile changes under a directory tree until
// stopped.
type Watcher struct {
	root    string
	fsw     *fsnotify.Watcher
	onEvent func(Event)
	onError func(*WatchError)

	done     chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	active bool
}

// Watch starts watching rootDir and its subdirectories, excluding
// DefaultExcludeDirs, and invokes onEvent for every brainfile change.
// onError, when non-nil, receives runtime watch failures. Errors are
// always *WatchError.
func Watch(rootDir string, onEvent func(Event), onError func(*WatchError)) (*Watcher, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &WatchError{Code: ErrCodeNotFound, Path: absRoot, Message: fmt.Sprintf("Directory does not exist: %s", absRoot)}
		}
		if os.IsPermission(err) {
			return nil, &WatchError{Code: ErrCodePermission, Path: absRoot, Message: fmt.Sprintf("Permission denied: %s", absRoot)}
		}
		return nil, &WatchError{Code: ErrCodeUnknown, Path: absRoot, Message: fmt.Sprintf("Failed to watch directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &WatchError{Code: ErrCodeNotDir, Path: absRoot, Message: fmt.Sprintf("Path is not a directory: %s", absRoot)}
	}
	if _, err := os.ReadDir(absRoot); err != nil {
		if os.IsPermission(err) {
			return nil, &WatchError{Code: ErrCodePermission, Path: absRoot, Message: fmt.Sprintf("Permission denied: %s", absRoot)}
		}
		return nil, &WatchError{Code: ErrCodeUnknown, Path: absRoot, Message: fmt.Sprintf("Failed to watch directory: %v", err)}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, classifyWatchErr(absRoot, err)
	}

	w := &Watcher{
		root:    absRoot,
		fsw:     fsw,
		onEvent: onEvent,
		onError: onError,
		done:    make(chan struct{}),
		active:  true,
	}
	if err := w.addRecursive(absRoot); err != nil {
		fsw.Close()
		return nil, classifyWatchErr(absRoot, err)
	}

	go w.loop()
	return w, nil
}

func classifyWatchErr(path string, err error) *WatchError {
	if errors.Is(err, syscall.EMFILE) {
		return &WatchError{
			Code:    ErrCodeTooManyWatches,
			Path:    path,
			Message: "Too many open files - close some file watchers or increase system limits",
		}
	}
	return &WatchError{Code: ErrCodeUnknown, Path: path, Message: fmt.Sprintf("Failed to watch directory: %v", err)}
}

// addRecursive registers dir and every non-excluded subdirectory.
// fsnotify itself only watches single directories.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && containsName(DefaultExcludeDirs, d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Stop ends the watch. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()

		w.mu.Lock()
		w.active = false
		w.mu.Unlock()
	})
}

// IsActive reports whether the watch is still running.
func (w *Watcher) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(&WatchError{Code: ErrCodeUnknown, Path: w.root, Message: fmt.Sprintf("Watch error: %v", err)})
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.IsActive() {
		return
	}

	// New directories need their own watch registration.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !containsName(DefaultExcludeDirs, filepath.Base(event.Name)) {
				w.addRecursive(event.Name)
			}
			return
		}
	}

	if !IsBrainfileName(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.emit(Event{Type: EventRemove, Path: event.Name})
	case event.Has(fsnotify.Create):
		w.emitWithMetadata(EventAdd, event.Name)
	case event.Has(fsnotify.Write):
		w.emitWithMetadata(EventChange, event.Name)
	}
}

func (w *Watcher) emitWithMetadata(eventType EventType, path string) {
	relativePath, err := filepath.Rel(w.root, path)
	if err != nil {
		relativePath = filepath.Base(path)
	}
	file, ok := parseFileMetadata(path, relativePath)
	if !ok {
		return
	}
	w.emit(Event{Type: eventType, Path: path, File: &file})
}

func (w *Watcher) emit(event Event) {
	if w.onEvent != nil {
		w.onEvent(event)
	}
}
