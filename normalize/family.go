// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package normalize

import "strings"

// AveragePrefix is prepended to a family name to form the label of
// the family's average record.
const AveragePrefix = "Average"

// A Family is a group of operations that share a label prefix and are
// averaged into one average record. For example, "Check2", "Check3",
// and "CheckAll" are members of the "Check" family, and their average
// is stored in "AverageCheck".
//
// Legacy producers numbered repeated samples of an operation starting
// at 1, and the first sample was a warm-up run. Any member whose label
// ends in "1" is excluded from the average. This is a plain suffix
// test: "Check11" and "Check21" are excluded too.
type Family string

// Matches reports whether label belongs to family f.
func (f Family) Matches(label string) bool {
	return strings.HasPrefix(label, string(f))
}

// IsWarmup reports whether label is a warm-up sample that must not be
// averaged.
func (f Family) IsWarmup(label string) bool {
	return strings.HasSuffix(label, "1")
}

// Averaged reports whether label contributes to f's average.
func (f Family) Averaged(label string) bool {
	return f.Matches(label) && !f.IsWarmup(label)
}

// AverageLabel returns the label of f's average record.
func (f Family) AverageLabel() string {
	return AveragePrefix + string(f)
}
