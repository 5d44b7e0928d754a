// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExt is the file extension of result documents.
const DefaultExt = ".json"

// A Files reads result documents from the files of one directory.
//
// Only regular files directly in Dir whose names end in Ext are read;
// subdirectories are not descended into. Files are visited in name
// order.
//
// Its API is modeled on bufio.Scanner. A file that cannot be read or
// decoded does not stop the scan: the error is returned by Document
// and Scan moves on to the next file. Only a failure to list Dir
// stops the scan, and is reported by Err.
type Files struct {
	// Dir is the directory to read.
	Dir string

	// Ext is the file name suffix to select. If empty, DefaultExt
	// is used.
	Ext string

	// names is the list of remaining files, or nil if this Files
	// has not started yet.
	names []string

	name   string
	doc    *Document
	docErr error
	err    error
}

// List returns the names of the files in dir that end in ext, in
// sorted order.
func List(dir, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExt
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile reads and decodes the document at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, filepath.Base(path))
}

// Scan advances to the next file and reports whether there was one.
// The caller should use Name and Document to get the file. If Scan
// runs out of files, or if the directory cannot be listed, it returns
// false; the caller should then use Err to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if f.names == nil {
		names, err := List(f.Dir, f.Ext)
		if err != nil {
			f.err = fmt.Errorf("listing %s: %w", f.Dir, err)
			return false
		}
		f.names = append([]string{}, names...)
	}
	if len(f.names) == 0 {
		f.name, f.doc, f.docErr = "", nil, nil
		return false
	}
	f.name, f.names = f.names[0], f.names[1:]
	f.doc, f.docErr = ReadFile(filepath.Join(f.Dir, f.name))
	return true
}

// Name returns the base name of the file just read by Scan.
func (f *Files) Name() string {
	return f.name
}

// Path returns the path of the file just read by Scan.
func (f *Files) Path() string {
	return filepath.Join(f.Dir, f.name)
}

// Document returns the document just read by Scan, or the error that
// prevented reading it.
func (f *Files) Document() (*Document, error) {
	return f.doc, f.docErr
}

// Err returns the error that stopped Scan, if any.
func (f *Files) Err() error {
	return f.err
}
