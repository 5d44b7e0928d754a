// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package normalize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// A Config holds the label mappings used by the rules.
//
// Configs are usually loaded from YAML:
//
//	rules: [averages, oplabels]
//	suite_label: {from: TestComplete, to: GatherPerfData}
//	averages:
//	  - tests: [DPT1, DPT2]
//	    families: [Check, Design]
//	op_labels:
//	  - tests: [SWFormworkTest]
//	    renames: {LayoutPaint: FramePaint}
type Config struct {
	// Rules names the rules enabled when the caller does not
	// choose. See ParseRuleID.
	Rules []string `yaml:"rules"`

	SuiteLabel SuiteRename    `yaml:"suite_label"`
	Averages   []AverageGroup `yaml:"averages"`
	OpLabels   []RenameGroup  `yaml:"op_labels"`
}

// SuiteRename renames the suite label From to To.
type SuiteRename struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// An AverageGroup recomputes the averages of Families in each test
// labeled one of Tests.
type AverageGroup struct {
	Tests    []string `yaml:"tests"`
	Families []Family `yaml:"families"`
}

// A RenameGroup renames operations in each test labeled one of Tests.
// Renames maps old operation labels to new ones.
type RenameGroup struct {
	Tests   []string          `yaml:"tests"`
	Renames map[string]string `yaml:"renames"`
}

// CurrentSuiteLabel is the suite label written by current producers.
const CurrentSuiteLabel = "GatherPerfData"

// DefaultConfig returns the mappings used for legacy documents. Only
// Averages and OpLabels are enabled by default.
func DefaultConfig() *Config {
	return &Config{
		Rules:      []string{Averages.String(), OpLabels.String()},
		SuiteLabel: SuiteRename{From: "TestComplete", To: CurrentSuiteLabel},
		Averages: []AverageGroup{
			{Tests: []string{"DPT1", "DPT2"}, Families: []Family{"Check", "Design"}},
			{Tests: []string{"BBT3"}, Families: []Family{"Build"}},
		},
		OpLabels: []RenameGroup{
			{
				Tests: []string{"SWFormworkTest", "UKFBMTTest"},
				Renames: map[string]string{
					"LayoutPaint": "FramePaint",
					"Refresh":     "FrameRefresh",
				},
			},
		},
	}
}

// LoadConfig reads and validates the YAML configuration in file.
func LoadConfig(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return cfg, nil
}

// ParseConfig parses and validates a YAML configuration. Unknown keys
// are an error.
func ParseConfig(data []byte) (*Config, error) {
	cfg := new(Config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg for mistakes that would make a rule misbehave.
// It does not modify cfg.
func (cfg *Config) Validate() error {
	if _, err := cfg.RuleSet(); err != nil {
		return err
	}
	if (cfg.SuiteLabel.From == "") != (cfg.SuiteLabel.To == "") {
		return fmt.Errorf("suite_label: from and to must both be set")
	}
	for i, g := range cfg.Averages {
		if len(g.Tests) == 0 {
			return fmt.Errorf("averages[%d]: no tests", i)
		}
		if len(g.Families) == 0 {
			return fmt.Errorf("averages[%d]: no families", i)
		}
		for _, f := range g.Families {
			if f == "" {
				return fmt.Errorf("averages[%d]: empty family name", i)
			}
			// The average record would count toward its own mean.
			if f.Matches(f.AverageLabel()) {
				return fmt.Errorf("averages[%d]: family %q contains its own average record %q", i, f, f.AverageLabel())
			}
		}
	}
	sources := make(map[string]bool)
	for _, g := range cfg.OpLabels {
		for from := range g.Renames {
			sources[from] = true
		}
	}
	for i, g := range cfg.OpLabels {
		if len(g.Tests) == 0 {
			return fmt.Errorf("op_labels[%d]: no tests", i)
		}
		if len(g.Renames) == 0 {
			return fmt.Errorf("op_labels[%d]: no renames", i)
		}
		// A rename whose result is renamed again would change
		// the document on every pass.
		for from, to := range g.Renames {
			if from == "" || to == "" {
				return fmt.Errorf("op_labels[%d]: empty label in rename %q -> %q", i, from, to)
			}
			if sources[to] && to != from {
				return fmt.Errorf("op_labels[%d]: %q is renamed to %q, which is renamed again", i, from, to)
			}
		}
	}
	return nil
}

// RuleSet returns the rules named by cfg.Rules.
func (cfg *Config) RuleSet() (RuleSet, error) {
	var s RuleSet
	for _, name := range cfg.Rules {
		if name == "all" {
			s |= AllRules
			continue
		}
		id, err := ParseRuleID(name)
		if err != nil {
			return 0, fmt.Errorf("rules: %w", err)
		}
		s = s.Add(id)
	}
	return s, nil
}
