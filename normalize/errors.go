// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package normalize

import "fmt"

// A MalformedDocument reports a structural defect that normalization
// cannot repair, such as a missing test_results list. It is fatal for
// the document it describes.
type MalformedDocument struct {
	// Source identifies the document, typically its file name.
	Source string
	// Field is the location of the defect, like "test_results" or
	// "test_results[0].op_results[3]".
	Field string
	Msg   string
}

func (e *MalformedDocument) Error() string {
	src := e.Source
	if src == "" {
		src = "<document>"
	}
	return fmt.Sprintf("%s: malformed document: %s: %s", src, e.Field, e.Msg)
}

// A Warning reports a problem a rule skipped over. Normalization of
// the document continues after a warning.
type Warning struct {
	Source string
	Rule   RuleID
	Msg    string
}

func (w *Warning) Error() string {
	src := w.Source
	if src == "" {
		src = "<document>"
	}
	return fmt.Sprintf("%s: %s: %s", src, w.Rule, w.Msg)
}
