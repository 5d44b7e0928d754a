// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fs provides the destinations converted documents are
// written to.
package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
)

// An FS stores named files.
type FS interface {
	// NewWriter returns a Writer for the file name. The file is not
	// visible until the Writer is closed without error.
	NewWriter(ctx context.Context, name string, metadata map[string]string) (Writer, error)
}

// A Writer writes one file. Exactly one of Close or CloseWithError
// must be called.
type Writer interface {
	io.Writer
	// Close commits the file.
	Close() error
	// CloseWithError discards the file. It returns err.
	CloseWithError(err error) error
}

// MemFS is an in-memory FS, safe for concurrent use.
type MemFS struct {
	mu      sync.Mutex
	content map[string]*memFile
}

type memFile struct {
	metadata map[string]string
	content  []byte
}

// NewMemFS constructs a new, empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{content: make(map[string]*memFile)}
}

// NewWriter returns a Writer for a given file name. If the file
// already exists, it is replaced when the Writer is closed.
func (fs *MemFS) NewWriter(_ context.Context, name string, metadata map[string]string) (Writer, error) {
	m := make(map[string]string, len(metadata))
	for k, v := range metadata {
		m[k] = v
	}
	return &memWriter{fs: fs, name: name, metadata: m}, nil
}

// Files returns the names of the committed files, in sorted order.
func (fs *MemFS) Files() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var names []string
	for name := range fs.content {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Content returns the content and metadata of the committed file
// name. ok is false if there is no such file.
func (fs *MemFS) Content(name string) (content []byte, metadata map[string]string, ok bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.content[name]
	if !ok {
		return nil, nil, false
	}
	return f.content, f.metadata, true
}

type memWriter struct {
	bytes.Buffer
	fs       *MemFS
	name     string
	metadata map[string]string
	closed   bool
}

var errClosed = errors.New("fs: write to closed file")

func (w *memWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errClosed
	}
	return w.Buffer.Write(p)
}

func (w *memWriter) Close() error {
	if w.closed {
		return errClosed
	}
	w.closed = true
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	w.fs.content[w.name] = &memFile{metadata: w.metadata, content: append([]byte(nil), w.Bytes()...)}
	return nil
}

func (w *memWriter) CloseWithError(err error) error {
	w.closed = true
	return err
}
