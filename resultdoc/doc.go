// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultdoc provides the data model, reader, and writer for
// performance-test result documents.
//
// A result document is a JSON object describing one run of a test
// suite:
//
//	{
//	   "build_tested": {"revision": 4821, "version_long": "2.3.1", "version_short": "2.3.1"},
//	   "suite_label": "GatherPerfData",
//	   "test_results": [
//	      {"label": "DPT1", "op_results": [{"label": "Check2", "duration": 50}]}
//	   ]
//	}
//
// The types in this package name the fields that normalization
// rewrites. Every other key is carried through unchanged in the Extra
// maps, so decoding and re-encoding a document only changes what the
// caller changed.
package resultdoc

import "encoding/json"

// JSON keys of the fields this package models.
const (
	KeySuiteLabel   = "suite_label"
	KeyBuildTested  = "build_tested"
	KeyRevision     = "revision"
	KeyVersionShort = "version_short"
	KeyVersionLong  = "version_long"
	KeyTestResults  = "test_results"
	KeyOpResults    = "op_results"
	KeyLabel        = "label"
	KeyDuration     = "duration"
	KeyValue        = "value"
)

// A Document is one test run.
type Document struct {
	SuiteLabel string

	// BuildTested is nil if the document has no build_tested
	// object.
	BuildTested *BuildInfo

	// TestResults is nil if test_results was absent or null. An
	// empty list decodes to a non-nil, empty slice.
	TestResults []*TestResult

	// Extra holds the keys not modeled above.
	Extra map[string]json.RawMessage

	// Presence of the modeled keys in the decoded input, so that
	// absent and null keys are written back the way they were read.
	hasSuiteLabel bool
	nullBuild     bool
	nullResults   bool
}

// BuildInfo identifies the build a document was measured on.
type BuildInfo struct {
	Revision     int64
	VersionShort string
	VersionLong  string

	Extra map[string]json.RawMessage

	hasRevision     bool
	hasVersionShort bool
	hasVersionLong  bool
}

// A TestResult is one test case and its operation measurements.
type TestResult struct {
	Label string

	// OpResults may be empty if the test case failed. It is nil if
	// op_results was absent or null.
	OpResults []*OpResult

	Extra map[string]json.RawMessage

	hasLabel bool
	nullOps  bool
}

// An OpResult is a single operation measurement. At most one of
// Duration and Value is set.
type OpResult struct {
	Label string

	// Duration is the operation time in milliseconds.
	Duration *int64
	// Value is a measurement whose unit is implied by Label.
	Value *int64

	Extra map[string]json.RawMessage

	hasLabel bool
}

// Number returns the numeric field of op, preferring Duration.
// ok is false if op has neither field.
func (op *OpResult) Number() (n int64, ok bool) {
	switch {
	case op.Duration != nil:
		return *op.Duration, true
	case op.Value != nil:
		return *op.Value, true
	}
	return 0, false
}

// SetNumber overwrites whichever numeric field op already uses. If op
// has neither, SetNumber sets Value.
func (op *OpResult) SetNumber(n int64) {
	if op.Duration != nil {
		*op.Duration = n
		return
	}
	op.Value = &n
}

// Int64 returns a pointer to a copy of n. It is a convenience for
// building OpResults.
func Int64(n int64) *int64 {
	return &n
}

// Test returns the first test result labeled label, or nil.
func (d *Document) Test(label string) *TestResult {
	for _, tr := range d.TestResults {
		if tr.Label == label {
			return tr
		}
	}
	return nil
}

// Op returns the first operation in tr labeled label, or nil.
func (tr *TestResult) Op(label string) *OpResult {
	for _, op := range tr.OpResults {
		if op.Label == label {
			return op
		}
	}
	return nil
}

// Clone makes a deep copy of d that shares no mutable state with d.
func (d *Document) Clone() *Document {
	d2 := *d
	d2.Extra = cloneExtra(d.Extra)
	if d.BuildTested != nil {
		b := *d.BuildTested
		b.Extra = cloneExtra(b.Extra)
		d2.BuildTested = &b
	}
	if d.TestResults != nil {
		d2.TestResults = make([]*TestResult, len(d.TestResults))
		for i, tr := range d.TestResults {
			tr2 := *tr
			tr2.Extra = cloneExtra(tr.Extra)
			if tr.OpResults != nil {
				tr2.OpResults = make([]*OpResult, len(tr.OpResults))
				for j, op := range tr.OpResults {
					op2 := *op
					op2.Extra = cloneExtra(op.Extra)
					if op.Duration != nil {
						op2.Duration = Int64(*op.Duration)
					}
					if op.Value != nil {
						op2.Value = Int64(*op.Value)
					}
					tr2.OpResults[j] = &op2
				}
			}
			d2.TestResults[i] = &tr2
		}
	}
	return &d2
}

func cloneExtra(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	m2 := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		m2[k] = append(json.RawMessage(nil), v...)
	}
	return m2
}
