package site

import (
	"os"
	"sync"

	ferrors "git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/fsutil"
)

// Writer serializes writes per destination path. Writes to distinct paths
// proceed concurrently; writes to the same path happen one at a time and
// each replaces the file atomically.
type Writer struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	sync.Mutex
	refs int
}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{locks: make(map[string]*pathLock)}
}

// Write replaces the file at path with data.
func (w *Writer) Write(path string, data []byte) error {
	unlock := w.Lock(path)
	defer unlock()

	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return ferrors.FileSystemError("failed to write output").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

// Lock acquires the lock for path and returns its release function. Callers
// that touch a path outside Write, such as the stamp step rewriting a
// source, use it to join the same serialization.
func (w *Writer) Lock(path string) func() {
	w.mu.Lock()
	l, ok := w.locks[path]
	if !ok {
		l = &pathLock{}
		w.locks[path] = l
	}
	l.refs++
	w.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		w.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(w.locks, path)
		}
		w.mu.Unlock()
	}
}

// Remove deletes the file at path if it exists.
func (w *Writer) Remove(path string) error {
	unlock := w.Lock(path)
	defer unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return ferrors.FileSystemError("failed to remove output").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
