// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package normalize rewrites legacy performance-test result documents
// into the current schema.
//
// Normalization is a fixed sequence of independent rules, each of
// which can be enabled or disabled. Enabled rules always run in the
// canonical order given by the RuleID constants, whatever order they
// were requested in:
//
//  1. BuildNumber fills in missing build metadata from the file name.
//  2. SuiteLabel renames the old suite label.
//  3. OpStructure checks the operation layout.
//  4. Averages recomputes the average records of operation families.
//  5. OpLabels renames stale operation labels.
//
// Operation renames must be visible to aggregation, so when both
// Averages and OpLabels are enabled, the renames are applied before
// averages are recomputed. Renaming is idempotent, so this gives the
// same document as running step 5 alone afterwards.
//
// Normalization mutates documents in place and keeps no state between
// documents, so independent documents may be normalized concurrently.
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gatherperfdata/perfconv/resultdoc"
)

// A RuleID identifies a normalization rule. RuleIDs are ordered
// canonically.
type RuleID int

const (
	BuildNumber RuleID = iota
	SuiteLabel
	OpStructure
	Averages
	OpLabels

	numRules
)

var ruleNames = [numRules]string{
	BuildNumber: "buildnum",
	SuiteLabel:  "suitelabel",
	OpStructure: "opstructure",
	Averages:    "averages",
	OpLabels:    "oplabels",
}

func (id RuleID) String() string {
	if id < 0 || id >= numRules {
		return fmt.Sprintf("RuleID(%d)", int(id))
	}
	return ruleNames[id]
}

// ParseRuleID returns the rule named name.
func ParseRuleID(name string) (RuleID, error) {
	for id, n := range ruleNames {
		if n == name {
			return RuleID(id), nil
		}
	}
	return 0, fmt.Errorf("unknown rule %q (want one of %s)", name, strings.Join(ruleNames[:], ", "))
}

// A RuleSet is a set of enabled rules.
type RuleSet uint32

// AllRules enables every rule.
const AllRules = RuleSet(1<<numRules - 1)

// Rules returns the set containing ids.
func Rules(ids ...RuleID) RuleSet {
	var s RuleSet
	for _, id := range ids {
		s = s.Add(id)
	}
	return s
}

// ParseRuleSet parses a comma-separated list of rule names. The name
// "all" enables every rule; an empty list enables none.
func ParseRuleSet(list string) (RuleSet, error) {
	var s RuleSet
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		switch name {
		case "":
			continue
		case "all":
			s |= AllRules
			continue
		}
		id, err := ParseRuleID(name)
		if err != nil {
			return 0, err
		}
		s = s.Add(id)
	}
	return s, nil
}

// Has reports whether id is in s.
func (s RuleSet) Has(id RuleID) bool {
	return id >= 0 && id < numRules && s&(1<<id) != 0
}

// Add returns s with id added.
func (s RuleSet) Add(id RuleID) RuleSet {
	if id < 0 || id >= numRules {
		return s
	}
	return s | 1<<id
}

// IDs returns the rules in s in canonical order.
func (s RuleSet) IDs() []RuleID {
	var ids []RuleID
	for id := RuleID(0); id < numRules; id++ {
		if s.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s RuleSet) String() string {
	var names []string
	for _, id := range s.IDs() {
		names = append(names, id.String())
	}
	return strings.Join(names, ",")
}

// An Engine normalizes documents.
//
// The zero Engine uses DefaultConfig and discards warnings.
type Engine struct {
	// Config supplies the label mappings used by the rules. If nil,
	// DefaultConfig is used.
	Config *Config

	// Warn, if non-nil, is called with a *Warning for each
	// problem a rule skipped over.
	Warn func(error)
}

// Normalize applies the rules in enabled to doc, in canonical order.
// source identifies the document in errors and warnings and is the
// input to the BuildNumber rule.
//
// Normalize returns a *MalformedDocument if doc has no test_results or
// if a rule finds a defect it cannot repair. Rules that ran before the
// defect was found are not undone.
func (e *Engine) Normalize(doc *resultdoc.Document, source string, enabled RuleSet) error {
	if doc.TestResults == nil {
		return &MalformedDocument{Source: source, Field: resultdoc.KeyTestResults, Msg: "missing"}
	}
	cfg := e.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for _, id := range enabled.IDs() {
		if err := e.apply(cfg, id, doc, source, enabled); err != nil {
			var md *MalformedDocument
			if errors.As(err, &md) && md.Source == "" {
				md.Source = source
			}
			return err
		}
	}
	return nil
}

func (e *Engine) apply(cfg *Config, id RuleID, doc *resultdoc.Document, source string, enabled RuleSet) error {
	switch id {
	case BuildNumber:
		err := BackfillBuildNumber(doc, source)
		var w *Warning
		if errors.As(err, &w) {
			e.warn(w)
			return nil
		}
		return err

	case SuiteLabel:
		if cfg.SuiteLabel.From != "" {
			RenameSuiteLabel(doc, cfg.SuiteLabel.From, cfg.SuiteLabel.To)
		}

	case OpStructure:
		return FixOpStructure(doc)

	case Averages:
		if enabled.Has(OpLabels) {
			renameOps(cfg, doc)
		}
		for _, g := range cfg.Averages {
			tests := stringSet(g.Tests)
			match := func(label string) bool { return tests[label] }
			for _, f := range g.Families {
				missing, err := RecomputeAverage(doc, match, f)
				if err != nil {
					return err
				}
				for _, t := range missing {
					e.warn(&Warning{Source: source, Rule: Averages, Msg: fmt.Sprintf("test %s has no %s record", t, f.AverageLabel())})
				}
			}
		}

	case OpLabels:
		renameOps(cfg, doc)

	default:
		return fmt.Errorf("unknown rule %v", id)
	}
	return nil
}

func (e *Engine) warn(w *Warning) {
	if e.Warn != nil {
		e.Warn(w)
	}
}

func renameOps(cfg *Config, doc *resultdoc.Document) {
	for _, g := range cfg.OpLabels {
		RenameOperationLabel(doc, stringSet(g.Tests), g.Renames)
	}
}

func stringSet(list []string) map[string]bool {
	m := make(map[string]bool, len(list))
	for _, s := range list {
		m[s] = true
	}
	return m
}

// Normalize normalizes doc with a zero Engine.
func Normalize(doc *resultdoc.Document, source string, enabled RuleSet) error {
	var e Engine
	return e.Normalize(doc, source, enabled)
}
