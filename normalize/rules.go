// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gatherperfdata/perfconv/resultdoc"
)

// The rules in this file each rewrite one aspect of a document in
// place. They can be used directly, but most callers should go through
// Engine, which runs them in the required order.
//
// Structural defects are returned as *MalformedDocument with an empty
// Source; Engine fills it in.

// RecomputeAverage recomputes the average record of family in every
// test result whose label satisfies match.
//
// The average is the truncated integer mean of the duration (or, if
// absent, the value) of each operation in family that is not a warm-up
// sample. It is written to the existing operation labeled
// family.AverageLabel(), into whichever numeric field that record
// already uses. A test result with no averaged operations is left
// alone, as is one with no average record.
//
// RecomputeAverage returns the labels of test results that had
// operations to average but no average record to hold the result.
func RecomputeAverage(doc *resultdoc.Document, match func(testLabel string) bool, family Family) (missing []string, err error) {
	for i, tr := range doc.TestResults {
		if !match(tr.Label) {
			continue
		}
		var sum, count int64
		for j, op := range tr.OpResults {
			if !family.Averaged(op.Label) {
				continue
			}
			n, ok := op.Number()
			if !ok {
				return missing, &MalformedDocument{
					Field: fmt.Sprintf("%s[%d].%s[%d]", resultdoc.KeyTestResults, i, resultdoc.KeyOpResults, j),
					Msg:   fmt.Sprintf("operation %q has neither %s nor %s", op.Label, resultdoc.KeyDuration, resultdoc.KeyValue),
				}
			}
			sum += n
			count++
		}
		if count == 0 {
			// The test failed before running any of these
			// operations.
			continue
		}
		avg := tr.Op(family.AverageLabel())
		if avg == nil {
			missing = append(missing, tr.Label)
			continue
		}
		avg.SetNumber(sum / count)
	}
	return missing, nil
}

// RenameOperationLabel renames operations in the test results whose
// labels are in tests. An operation is renamed only if its label is
// exactly a key of renames. It returns the number of operations
// renamed.
func RenameOperationLabel(doc *resultdoc.Document, tests map[string]bool, renames map[string]string) int {
	n := 0
	for _, tr := range doc.TestResults {
		if !tests[tr.Label] {
			continue
		}
		for _, op := range tr.OpResults {
			if to, ok := renames[op.Label]; ok && to != op.Label {
				op.Label = to
				n++
			}
		}
	}
	return n
}

// buildNumRE extracts a revision and a version from a source file name
// like "nightly_r4821_build_v2.3.1.json".
var buildNumRE = regexp.MustCompile(`r([0-9]+).*?v([0-9.]+)`)

// ParseBuildNumber extracts the revision and version encoded in a
// source identifier. Trailing dots are dropped from the version, so
// the file extension separator is not taken as part of it.
func ParseBuildNumber(source string) (revision int64, version string, ok bool) {
	m := buildNumRE.FindStringSubmatch(source)
	if m == nil {
		return 0, "", false
	}
	rev, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, "", false
	}
	version = strings.TrimRight(m[2], ".")
	if version == "" {
		return 0, "", false
	}
	return rev, version, true
}

// BackfillBuildNumber fills in a missing revision or short version in
// doc's build_tested from source, usually the document's file name.
// It does nothing if the revision is positive and the short version
// is set. Both the short and long versions are set to the parsed
// version, because source names carry only one.
//
// If source does not encode a build number, BackfillBuildNumber
// returns a *Warning and leaves doc unchanged.
func BackfillBuildNumber(doc *resultdoc.Document, source string) error {
	b := doc.BuildTested
	if b == nil {
		return &MalformedDocument{Field: resultdoc.KeyBuildTested, Msg: "missing"}
	}
	if b.Revision > 0 && b.VersionShort != "" {
		return nil
	}
	rev, ver, ok := ParseBuildNumber(source)
	if !ok {
		return &Warning{Source: source, Rule: BuildNumber, Msg: "could not fix build number"}
	}
	b.Revision = rev
	b.VersionShort = ver
	b.VersionLong = ver
	return nil
}

// RenameSuiteLabel sets doc's suite label to to if it is currently
// from. It reports whether it changed doc.
func RenameSuiteLabel(doc *resultdoc.Document, from, to string) bool {
	if doc.SuiteLabel != from || from == to {
		return false
	}
	doc.SuiteLabel = to
	return true
}

// FixOpStructure checks the operation layout of doc. Old producers
// wrote a different duration/file size layout, but no document in
// that layout is known to survive, so this only verifies that the
// first test result carries an op_results list.
func FixOpStructure(doc *resultdoc.Document) error {
	if len(doc.TestResults) == 0 {
		return nil
	}
	if doc.TestResults[0].OpResults == nil {
		return &MalformedDocument{
			Field: fmt.Sprintf("%s[0].%s", resultdoc.KeyTestResults, resultdoc.KeyOpResults),
			Msg:   "missing",
		}
	}
	return nil
}
