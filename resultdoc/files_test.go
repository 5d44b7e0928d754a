// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultdoc

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestFiles(t *testing.T) {
	f := &Files{Dir: "testdata/files"}
	var got []string
	for f.Scan() {
		doc, err := f.Document()
		if err != nil {
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Errorf("%s: got %T error, want *SyntaxError", f.Name(), err)
			}
			got = append(got, f.Name()+" error")
			continue
		}
		got = append(got, f.Name()+" "+doc.SuiteLabel)
	}
	if err := f.Err(); err != nil {
		t.Fatal(err)
	}
	want := []string{"a.json TestComplete", "b.json GatherPerfData", "c.json error"}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	if f.Scan() {
		t.Errorf("Scan after end of files returned true")
	}
}

func TestFilesExt(t *testing.T) {
	names, err := List("testdata/files", ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "notes.txt" {
		t.Errorf("List(.txt) = %v, want [notes.txt]", names)
	}
}

func TestFilesMissingDir(t *testing.T) {
	f := &Files{Dir: "testdata/nonexistent"}
	if f.Scan() {
		t.Fatalf("Scan of missing directory returned true")
	}
	if err := f.Err(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Err() = %v, want not-exist error", err)
	}
}

func TestFilesEmptyDir(t *testing.T) {
	f := &Files{Dir: t.TempDir()}
	if f.Scan() {
		t.Errorf("Scan of empty directory returned true")
	}
	if err := f.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}
