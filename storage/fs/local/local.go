// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package local implements the fs.FS interface using a local directory.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gatherperfdata/perfconv/storage/fs"
)

// impl is an fs.FS backed by a directory.
type impl struct {
	root string
}

// NewFS constructs an FS that writes into the existing directory
// root.
func NewFS(root string) (fs.FS, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	return &impl{root}, nil
}

// NewWriter creates a temporary file in the target directory that is
// renamed to name on Close. Metadata is not stored.
func (l *impl) NewWriter(_ context.Context, name string, _ map[string]string) (fs.Writer, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid file name %q", name)
	}
	f, err := os.CreateTemp(l.root, "."+name+".tmp*")
	if err != nil {
		return nil, err
	}
	return &wrapper{File: f, path: filepath.Join(l.root, name)}, nil
}

type wrapper struct {
	*os.File
	path string
}

// CloseWithError removes the temporary file.
func (w *wrapper) CloseWithError(err error) error {
	w.File.Close()
	os.Remove(w.File.Name())
	return err
}

// Close closes the temporary file and moves it into place.
func (w *wrapper) Close() error {
	if err := w.File.Close(); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	// CreateTemp makes files readable only by the owner.
	if err := os.Chmod(w.File.Name(), 0644); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	if err := os.Rename(w.File.Name(), w.path); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	return nil
}
