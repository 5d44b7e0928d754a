// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFS(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}

	w, err := fs.NewWriter(ctx, "a.json", nil)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(w, "{}\n")
	if _, err := os.Stat(filepath.Join(dir, "a.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("a.json exists before Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}\n" {
		t.Errorf("a.json = %q, want %q", data, "{}\n")
	}

	w, err = fs.NewWriter(ctx, "b.json", nil)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(w, "{")
	w.CloseWithError(errors.New("abort"))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want [a.json]", names)
	}
}

func TestLocalFSErrors(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("NewFS(missing) = %v, want not-exist error", err)
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0666); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFS(file); err == nil {
		t.Errorf("NewFS(file) succeeded")
	}

	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"", "..", "a/b.json"} {
		if _, err := fs.NewWriter(context.Background(), name, nil); err == nil {
			t.Errorf("NewWriter(%q) succeeded", name)
		}
	}
}
