// Package store persists bot state as human-readable JSON files.
//
// Both Load and Save fail soft: a missing or unreadable file yields the
// caller's default value and a log line, never an error. The files are
// the bot's source of truth and their field layout is a compatibility
// surface, so values are written indented with multi-byte text kept
// as-is.
package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/smith3v/tg-match-reminder/pkg/logger"
)

// Load parses the JSON file at path. When the file does not exist it is
// created with def and def is returned. Any I/O or parse failure also
// returns def.
func Load[T any](path string, def T) T {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			Save(path, def)
			return def
		}
		logger.Error("failed to read data file", "path", path, "error", err)
		return def
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		logger.Error("failed to parse data file, falling back to default", "path", path, "error", err)
		return def
	}
	return value
}

// Save writes value to path as indented JSON, creating parent
// directories as needed. Errors are logged and swallowed.
func Save[T any](path string, value T) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create data directory", "path", path, "error", err)
			return
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		logger.Error("failed to encode data file", "path", path, "error", err)
		return
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		logger.Error("failed to write data file", "path", path, "error", err)
	}
}

// File owns one JSON file and serializes every read-modify-write cycle
// through its mutex, so the command path and the scan path can not
// interleave and drop each other's writes.
type File[T any] struct {
	mu   sync.Mutex
	path string
	def  func() T
}

// NewFile binds a file path to its default-value constructor.
func NewFile[T any](path string, def func() T) *File[T] {
	return &File[T]{path: path, def: def}
}

func (f *File[T]) Path() string {
	return f.path
}

func (f *File[T]) Load() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Load(f.path, f.def())
}

func (f *File[T]) Save(value T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	Save(f.path, value)
}

// Update runs fn under the file lock with the current contents. The
// returned value is persisted only when fn reports a change.
func (f *File[T]) Update(fn func(T) (T, bool)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value := Load(f.path, f.def())
	next, changed := fn(value)
	if changed {
		Save(f.path, next)
	}
}
