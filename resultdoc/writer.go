// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Indent is the indentation used by Writer. Converted documents have
// always been written with three spaces, and keeping it avoids
// whitespace-only diffs against older output.
const Indent = "   "

// A Writer writes result documents as JSON.
//
// Output is deterministic: object keys are sorted at every level,
// including keys carried in Extra, and each document is followed by a
// newline.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
}

// NewWriter returns a writer that writes result documents to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes doc to w.
func (w *Writer) Write(doc *Document) error {
	tree, err := doc.tree()
	if err != nil {
		return err
	}
	w.buf.Reset()
	enc := json.NewEncoder(&w.buf)
	enc.SetIndent("", Indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return err
	}
	_, err = w.w.Write(w.buf.Bytes())
	return err
}

// Marshal returns the encoding of doc as written by Writer.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tree converts d to nested maps and slices. encoding/json sorts map
// keys, which gives the stable key order. A modeled key is written if
// it was present in the input or has been given a non-zero value.
func (d *Document) tree() (map[string]interface{}, error) {
	m, err := extraTree(d.Extra)
	if err != nil {
		return nil, err
	}
	if d.hasSuiteLabel || d.SuiteLabel != "" {
		m[KeySuiteLabel] = d.SuiteLabel
	}
	if bt := d.BuildTested; bt != nil {
		b, err := extraTree(bt.Extra)
		if err != nil {
			return nil, err
		}
		if bt.hasRevision || bt.Revision != 0 {
			b[KeyRevision] = bt.Revision
		}
		if bt.hasVersionShort || bt.VersionShort != "" {
			b[KeyVersionShort] = bt.VersionShort
		}
		if bt.hasVersionLong || bt.VersionLong != "" {
			b[KeyVersionLong] = bt.VersionLong
		}
		m[KeyBuildTested] = b
	} else if d.nullBuild {
		m[KeyBuildTested] = nil
	}
	switch {
	case d.TestResults != nil:
		trs := make([]interface{}, 0, len(d.TestResults))
		for _, tr := range d.TestResults {
			t, err := tr.tree()
			if err != nil {
				return nil, err
			}
			trs = append(trs, t)
		}
		m[KeyTestResults] = trs
	case d.nullResults:
		m[KeyTestResults] = nil
	}
	return m, nil
}

func (tr *TestResult) tree() (map[string]interface{}, error) {
	m, err := extraTree(tr.Extra)
	if err != nil {
		return nil, err
	}
	if tr.hasLabel || tr.Label != "" {
		m[KeyLabel] = tr.Label
	}
	switch {
	case tr.OpResults != nil:
		ops := make([]interface{}, 0, len(tr.OpResults))
		for _, op := range tr.OpResults {
			o, err := extraTree(op.Extra)
			if err != nil {
				return nil, err
			}
			if op.hasLabel || op.Label != "" {
				o[KeyLabel] = op.Label
			}
			if op.Duration != nil && op.Value != nil {
				return nil, fmt.Errorf("operation %q has both %s and %s", op.Label, KeyDuration, KeyValue)
			}
			if op.Duration != nil {
				o[KeyDuration] = *op.Duration
			}
			if op.Value != nil {
				o[KeyValue] = *op.Value
			}
			ops = append(ops, o)
		}
		m[KeyOpResults] = ops
	case tr.nullOps:
		m[KeyOpResults] = nil
	}
	return m, nil
}

// extraTree decodes the raw values of extra so that nested objects are
// re-encoded with sorted keys. Numbers are kept as json.Number so they
// are written back exactly as read.
func extraTree(extra map[string]json.RawMessage) (map[string]interface{}, error) {
	m := make(map[string]interface{}, len(extra)+4)
	for k, raw := range extra {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		m[k] = v
	}
	return m, nil
}
