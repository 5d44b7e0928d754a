// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultstat

import (
	"math"
	"strings"
	"testing"

	"github.com/gatherperfdata/perfconv/resultdoc"
)

func doc(t *testing.T, js string) *resultdoc.Document {
	t.Helper()
	d, err := resultdoc.Unmarshal([]byte(js), "t.json")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Add(doc(t, `{"test_results":[{"label":"DPT1","op_results":[{"label":"Check2","duration":30},{"label":"Size","value":5},{"label":"Odd"}]}]}`))
	c.Add(doc(t, `{"test_results":[{"label":"DPT1","op_results":[{"label":"Check2","duration":10}]},{"label":"BBT3","op_results":[]}]}`))
	c.Add(doc(t, `{"test_results":[{"label":"DPT1","op_results":[{"label":"Check2","duration":20}]}]}`))

	got := c.Summaries()
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2: %+v", len(got), got)
	}
	check := got[0]
	if check.Key != (Key{"DPT1", "Check2"}) {
		t.Fatalf("first summary is %v, want DPT1/Check2", check.Key)
	}
	if check.N != 3 || check.Mean != 20 || check.Median != 20 || check.Min != 10 || check.Max != 30 {
		t.Errorf("Check2 summary = %+v", check)
	}
	if math.Abs(check.StdDev-10) > 1e-9 {
		t.Errorf("Check2 stddev = %v, want 10", check.StdDev)
	}
	size := got[1]
	if size.Key != (Key{"DPT1", "Size"}) || size.N != 1 || size.Mean != 5 || size.StdDev != 0 {
		t.Errorf("Size summary = %+v", size)
	}

	var buf strings.Builder
	if err := c.Format(&buf); err != nil {
		t.Fatal(err)
	}
	want := "" +
		"test  op      n  mean  median  min  max  stddev\n" +
		"DPT1  Check2  3  20.0    20.0   10   30    10.0\n" +
		"DPT1  Size    1   5.0     5.0    5    5     0.0\n"
	if buf.String() != want {
		t.Errorf("Format:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatLargeValues(t *testing.T) {
	var c Collector
	c.Add(doc(t, `{"test_results":[{"label":"BBT3","op_results":[{"label":"Build2","duration":12345}]}]}`))
	c.Add(doc(t, `{"test_results":[{"label":"BBT3","op_results":[{"label":"Build2","duration":1234567}]}]}`))
	var buf strings.Builder
	if err := c.Format(&buf); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if strings.Contains(got, "e+") {
		t.Errorf("Format used exponent notation:\n%s", got)
	}
	for _, want := range []string{"12345", "1234567", "623456.0"} {
		if !strings.Contains(got, want) {
			t.Errorf("Format output missing %s:\n%s", want, got)
		}
	}
}

func TestCollectorEmpty(t *testing.T) {
	var c Collector
	if got := c.Summaries(); len(got) != 0 {
		t.Errorf("Summaries() = %v, want none", got)
	}
}
