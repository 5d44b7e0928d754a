// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// A SyntaxError reports a document that could not be decoded into the
// result document shape.
type SyntaxError struct {
	FileName string
	// Path is the JSON location of the problem, such as
	// "test_results[2].op_results[0].duration". It is empty for
	// errors in the JSON text itself.
	Path string
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.FileName, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.FileName, e.Path, e.Msg)
}

// Read decodes a single document from r. fileName is used in error
// messages; it is purely diagnostic.
func Read(r io.Reader, fileName string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, fileName)
}

// Unmarshal decodes a single document from data.
//
// Unmarshal checks only the shape of the fields this package models:
// labels must be strings, numbers must be integers, and an operation
// may not carry both a duration and a value. Missing keys are not
// decoding errors. A missing or null test_results leaves
// Document.TestResults nil, and a test or operation result without a
// label has an empty Label and matches no rule.
func Unmarshal(data []byte, fileName string) (*Document, error) {
	d := &decoder{fileName: fileName}
	doc, err := d.document(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

type decoder struct {
	fileName string
}

func (d *decoder) errorf(path, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{d.fileName, path, fmt.Sprintf(format, args...)}
}

// object decodes data as a JSON object. A JSON null yields ok == false.
func (d *decoder) object(data []byte, path string) (m map[string]json.RawMessage, ok bool, err error) {
	if isNull(data) {
		return nil, false, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		if path == "" {
			return nil, false, d.errorf(path, "%v", err)
		}
		return nil, false, d.errorf(path, "not an object")
	}
	return m, true, nil
}

func (d *decoder) document(data []byte) (*Document, error) {
	m, ok, err := d.object(data, "")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, d.errorf("", "document is null")
	}

	doc := new(Document)
	if raw, ok := take(m, KeySuiteLabel); ok {
		if doc.SuiteLabel, err = d.str(raw, KeySuiteLabel); err != nil {
			return nil, err
		}
		doc.hasSuiteLabel = true
	}
	if raw, ok := take(m, KeyBuildTested); ok {
		if doc.BuildTested, err = d.build(raw); err != nil {
			return nil, err
		}
		doc.nullBuild = doc.BuildTested == nil
	}
	raw, ok := take(m, KeyTestResults)
	doc.nullResults = ok && isNull(raw)
	if ok && !isNull(raw) {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, d.errorf(KeyTestResults, "not a list")
		}
		doc.TestResults = make([]*TestResult, 0, len(elems))
		for i, elem := range elems {
			tr, err := d.testResult(elem, fmt.Sprintf("%s[%d]", KeyTestResults, i))
			if err != nil {
				return nil, err
			}
			doc.TestResults = append(doc.TestResults, tr)
		}
	}
	doc.Extra = extra(m)
	return doc, nil
}

func (d *decoder) build(data []byte) (*BuildInfo, error) {
	m, ok, err := d.object(data, KeyBuildTested)
	if err != nil || !ok {
		return nil, err
	}
	b := new(BuildInfo)
	if raw, ok := take(m, KeyRevision); ok {
		if b.Revision, err = d.integer(raw, KeyBuildTested+"."+KeyRevision); err != nil {
			return nil, err
		}
		b.hasRevision = true
	}
	if raw, ok := take(m, KeyVersionShort); ok {
		if b.VersionShort, err = d.str(raw, KeyBuildTested+"."+KeyVersionShort); err != nil {
			return nil, err
		}
		b.hasVersionShort = true
	}
	if raw, ok := take(m, KeyVersionLong); ok {
		if b.VersionLong, err = d.str(raw, KeyBuildTested+"."+KeyVersionLong); err != nil {
			return nil, err
		}
		b.hasVersionLong = true
	}
	b.Extra = extra(m)
	return b, nil
}

func (d *decoder) testResult(data []byte, path string) (*TestResult, error) {
	m, ok, err := d.object(data, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, d.errorf(path, "test result is null")
	}
	tr := new(TestResult)
	if raw, ok := take(m, KeyLabel); ok {
		if tr.Label, err = d.str(raw, path+"."+KeyLabel); err != nil {
			return nil, err
		}
		tr.hasLabel = true
	}
	raw, ok := take(m, KeyOpResults)
	tr.nullOps = ok && isNull(raw)
	if ok && !isNull(raw) {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, d.errorf(path+"."+KeyOpResults, "not a list")
		}
		tr.OpResults = make([]*OpResult, 0, len(elems))
		for i, elem := range elems {
			op, err := d.opResult(elem, fmt.Sprintf("%s.%s[%d]", path, KeyOpResults, i))
			if err != nil {
				return nil, err
			}
			tr.OpResults = append(tr.OpResults, op)
		}
	}
	tr.Extra = extra(m)
	return tr, nil
}

func (d *decoder) opResult(data []byte, path string) (*OpResult, error) {
	m, ok, err := d.object(data, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, d.errorf(path, "operation result is null")
	}
	op := new(OpResult)
	if raw, ok := take(m, KeyLabel); ok {
		if op.Label, err = d.str(raw, path+"."+KeyLabel); err != nil {
			return nil, err
		}
		op.hasLabel = true
	}
	if raw, ok := take(m, KeyDuration); ok {
		n, err := d.integer(raw, path+"."+KeyDuration)
		if err != nil {
			return nil, err
		}
		op.Duration = &n
	}
	if raw, ok := take(m, KeyValue); ok {
		n, err := d.integer(raw, path+"."+KeyValue)
		if err != nil {
			return nil, err
		}
		op.Value = &n
	}
	if op.Duration != nil && op.Value != nil {
		return nil, d.errorf(path, "has both %s and %s", KeyDuration, KeyValue)
	}
	op.Extra = extra(m)
	return op, nil
}

func (d *decoder) str(data []byte, path string) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", d.errorf(path, "not a string")
	}
	return s, nil
}

func (d *decoder) integer(data []byte, path string) (int64, error) {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return 0, d.errorf(path, "not a number")
	}
	if n, err := strconv.ParseInt(string(num), 10, 64); err == nil {
		return n, nil
	}
	// Some producers wrote whole numbers as floats.
	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil || f != float64(int64(f)) {
		return 0, d.errorf(path, "%s is not an integer", num)
	}
	return int64(f), nil
}

// take removes key from m and returns its raw value.
func take(m map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := m[key]
	if ok {
		delete(m, key)
	}
	return raw, ok
}

func extra(m map[string]json.RawMessage) map[string]json.RawMessage {
	if len(m) == 0 {
		return nil
	}
	return m
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
