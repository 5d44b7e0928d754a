// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultstat summarizes operation measurements across a batch
// of result documents.
package resultstat

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/aclements/go-moremath/stats"
	"github.com/gatherperfdata/perfconv/internal/texttab"
	"github.com/gatherperfdata/perfconv/resultdoc"
)

// A Key identifies an operation within a test.
type Key struct {
	Test, Op string
}

// A Summary describes the distribution of one operation's
// measurements.
type Summary struct {
	Key
	N            int
	Mean, Median float64
	Min, Max     float64
	StdDev       float64
}

// A Collector accumulates measurements from documents. It is safe for
// concurrent use.
type Collector struct {
	mu     sync.Mutex
	values map[Key][]float64
}

// Add records every measured operation in doc. Operations without a
// duration or value are skipped.
func (c *Collector) Add(doc *resultdoc.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[Key][]float64)
	}
	for _, tr := range doc.TestResults {
		for _, op := range tr.OpResults {
			n, ok := op.Number()
			if !ok {
				continue
			}
			k := Key{tr.Label, op.Label}
			c.values[k] = append(c.values[k], float64(n))
		}
	}
}

// Summaries returns a summary of each operation, sorted by test and
// then operation label.
func (c *Collector) Summaries() []Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Summary, 0, len(c.values))
	for k, xs := range c.values {
		xs = append([]float64(nil), xs...)
		sort.Float64s(xs)
		s := stats.Sample{Xs: xs, Sorted: true}
		sum := Summary{Key: k, N: len(xs), Mean: s.Mean(), Median: s.Quantile(0.5)}
		sum.Min, sum.Max = s.Bounds()
		if len(xs) > 1 {
			sum.StdDev = s.StdDev()
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Test != out[j].Test {
			return out[i].Test < out[j].Test
		}
		return out[i].Op < out[j].Op
	})
	return out
}

// Format writes the summaries as a text table. Measurements are
// integers, so min and max are printed without a fraction.
func (c *Collector) Format(w io.Writer) error {
	var t texttab.Table
	for col := 2; col <= 7; col++ {
		t.SetAlign(col, texttab.Right)
	}
	t.Row().Cell("test").Cell("op").Cell("n").Cell("mean").Cell("median").Cell("min").Cell("max").Cell("stddev")
	for _, s := range c.Summaries() {
		t.Row().Cell(s.Test).Cell(s.Op).Cell(fmt.Sprint(s.N)).
			Cell(fmt.Sprintf("%.1f", s.Mean)).Cell(fmt.Sprintf("%.1f", s.Median)).
			Cell(fmt.Sprintf("%.0f", s.Min)).Cell(fmt.Sprintf("%.0f", s.Max)).
			Cell(fmt.Sprintf("%.1f", s.StdDev))
	}
	return t.Format(w)
}
