// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultdoc

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestWriterFormat(t *testing.T) {
	const in = `{"test_results":[{"op_results":[{"duration":5,"label":"Op"},{"label":"Size","value":7}],"label":"T"},{"label":"Empty","op_results":[]}],
		"suite_label":"S","build_tested":{"version_short":"a","revision":1,"version_long":"b"}}`
	const want = `{
   "build_tested": {
      "revision": 1,
      "version_long": "b",
      "version_short": "a"
   },
   "suite_label": "S",
   "test_results": [
      {
         "label": "T",
         "op_results": [
            {
               "duration": 5,
               "label": "Op"
            },
            {
               "label": "Size",
               "value": 7
            }
         ]
      },
      {
         "label": "Empty",
         "op_results": []
      }
   ]
}
`
	doc, err := Unmarshal([]byte(in), "in.json")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Errorf("Marshal:\n%s\nwant:\n%s", got, want)
	}
}

func TestExtraPreserved(t *testing.T) {
	const in = `{"zeta":{"y":2.50,"b":true,"a":"<x&y>"},"test_results":[{"label":"T","note":null,
		"op_results":[{"label":"Op","duration":5,"unit":"ms","tags":["b","a"]}]}],"alpha":12345678901234567890}`
	const want = `{
   "alpha": 12345678901234567890,
   "test_results": [
      {
         "label": "T",
         "note": null,
         "op_results": [
            {
               "duration": 5,
               "label": "Op",
               "tags": [
                  "b",
                  "a"
               ],
               "unit": "ms"
            }
         ]
      }
   ],
   "zeta": {
      "a": "<x&y>",
      "b": true,
      "y": 2.50
   }
}
`
	doc, err := Unmarshal([]byte(in), "in.json")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Errorf("Marshal:\n%s\nwant:\n%s", got, want)
	}

	// A second round trip is stable.
	doc2, err := Unmarshal(got, "out.json")
	if err != nil {
		t.Fatal(err)
	}
	got2, err := Marshal(doc2)
	if err != nil {
		t.Fatal(err)
	}
	if string(got2) != string(got) {
		t.Errorf("second round trip differs:\n%s", got2)
	}
}

// TestRoundTrip checks that decoding and re-encoding a document keeps
// absent and null keys as they were.
func TestRoundTrip(t *testing.T) {
	for _, in := range []string{
		`{}`,
		`{"build_tested":null,"test_results":[]}`,
		`{"build_tested":{"platform":"x"},"test_results":[]}`,
		`{"build_tested":{"revision":0,"version_short":""}}`,
		`{"suite_label":"S","test_results":null}`,
		`{"suite_label":"","test_results":[{"label":"X","op_results":null}]}`,
		`{"test_results":[{"label":"X"},{"label":"Y","op_results":[]}]}`,
		`{"test_results":[{"note":1,"op_results":[{"duration":3},{"label":"","value":4}]}]}`,
	} {
		doc, err := Unmarshal([]byte(in), "f.json")
		if err != nil {
			t.Errorf("Unmarshal(%s): %v", in, err)
			continue
		}
		out, err := Marshal(doc)
		if err != nil {
			t.Errorf("Marshal(%s): %v", in, err)
			continue
		}
		var want, got interface{}
		if err := json.Unmarshal([]byte(in), &want); err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(out, &got); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip of %s gave:\n%s", in, out)
		}
	}
}

func TestUnmarshalNoLabel(t *testing.T) {
	doc, err := Unmarshal([]byte(`{"test_results":[{"op_results":[{"duration":3}]}]}`), "f.json")
	if err != nil {
		t.Fatal(err)
	}
	tr := doc.TestResults[0]
	if tr.Label != "" || tr.OpResults[0].Label != "" {
		t.Errorf("labels = %q, %q, want empty", tr.Label, tr.OpResults[0].Label)
	}
	if doc.Test("") != tr {
		t.Errorf("Test(\"\") did not find the unlabeled test result")
	}
}

func TestWriteSetFields(t *testing.T) {
	doc, err := Unmarshal([]byte(`{"build_tested":{"platform":"x"},"test_results":[]}`), "f.json")
	if err != nil {
		t.Fatal(err)
	}
	doc.BuildTested.Revision = 12
	doc.BuildTested.VersionShort = "1.2"
	out, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	for _, want := range []string{`"revision": 12`, `"version_short": "1.2"`, `"platform": "x"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
	if strings.Contains(got, "version_long") {
		t.Errorf("output has version_long, which was never set:\n%s", got)
	}
}

func TestUnmarshal(t *testing.T) {
	doc, err := Unmarshal([]byte(`{"test_results":[{"label":"A","op_results":[{"label":"x","duration":3.0},{"label":"y","value":-2},{"label":"z"}]}]}`), "f.json")
	if err != nil {
		t.Fatal(err)
	}
	if doc.BuildTested != nil {
		t.Errorf("BuildTested = %+v, want nil", doc.BuildTested)
	}
	ops := doc.TestResults[0].OpResults
	if n, ok := ops[0].Number(); !ok || n != 3 || ops[0].Value != nil {
		t.Errorf("x = %d, %v, want duration 3", n, ok)
	}
	if n, ok := ops[1].Number(); !ok || n != -2 || ops[1].Duration != nil {
		t.Errorf("y = %d, %v, want value -2", n, ok)
	}
	if _, ok := ops[2].Number(); ok {
		t.Errorf("z has a number")
	}

	for _, test := range []struct {
		js, nilResults string
	}{
		{`{}`, "absent"},
		{`{"test_results":null}`, "null"},
	} {
		doc, err := Unmarshal([]byte(test.js), "f.json")
		if err != nil {
			t.Fatal(err)
		}
		if doc.TestResults != nil {
			t.Errorf("%s test_results decoded as %v, want nil", test.nilResults, doc.TestResults)
		}
	}
	doc, err = Unmarshal([]byte(`{"test_results":[]}`), "f.json")
	if err != nil {
		t.Fatal(err)
	}
	if doc.TestResults == nil {
		t.Errorf("empty test_results decoded as nil")
	}
}

func TestUnmarshalErrors(t *testing.T) {
	for _, test := range []struct {
		js, want string
	}{
		{`[1]`, "f.json: json: cannot unmarshal array"},
		{`null`, "f.json: document is null"},
		{`{"test_results":{}}`, "f.json: test_results: not a list"},
		{`{"suite_label":3}`, "f.json: suite_label: not a string"},
		{`{"build_tested":{"revision":"twelve"}}`, "f.json: build_tested.revision: not a number"},
		{`{"build_tested":{"revision":1.5}}`, "f.json: build_tested.revision: 1.5 is not an integer"},
		{`{"test_results":[{"label":7}]}`, "f.json: test_results[0].label: not a string"},
		{`{"test_results":[{"label":"A","op_results":[{"label":"x","duration":1,"value":2}]}]}`, "f.json: test_results[0].op_results[0]: has both duration and value"},
		{`{"test_results":[{"label":"A","op_results":[{"label":"x","value":"fast"}]}]}`, "f.json: test_results[0].op_results[0].value: not a number"},
		{`{"test_results":[`, "f.json: unexpected end of JSON input"},
	} {
		_, err := Unmarshal([]byte(test.js), "f.json")
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Unmarshal(%s) = %v, want *SyntaxError", test.js, err)
			continue
		}
		if !strings.HasPrefix(err.Error(), test.want) {
			t.Errorf("Unmarshal(%s) = %q, want prefix %q", test.js, err, test.want)
		}
	}
}

func TestOpNumber(t *testing.T) {
	op := &OpResult{Label: "AverageX", Duration: Int64(1)}
	op.SetNumber(9)
	if *op.Duration != 9 || op.Value != nil {
		t.Errorf("SetNumber on duration record = %+v", op)
	}
	op = &OpResult{Label: "AverageX"}
	op.SetNumber(4)
	if op.Value == nil || *op.Value != 4 || op.Duration != nil {
		t.Errorf("SetNumber on empty record = %+v", op)
	}
}

func TestClone(t *testing.T) {
	doc, err := Unmarshal([]byte(`{"suite_label":"S","build_tested":{"revision":1},"x":[1],
		"test_results":[{"label":"T","op_results":[{"label":"Op","duration":5}]}]}`), "f.json")
	if err != nil {
		t.Fatal(err)
	}
	before, _ := Marshal(doc)
	c := doc.Clone()
	c.SuiteLabel = "changed"
	c.BuildTested.Revision = 2
	*c.TestResults[0].OpResults[0].Duration = 6
	c.TestResults[0].OpResults[0].Label = "Other"
	c.Extra["x"][1] = '9'
	if after, _ := Marshal(doc); string(after) != string(before) {
		t.Errorf("modifying clone changed original:\n%s", after)
	}
}
