package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GateTerms holds the keyword sets the semantic gate checks candidate
// matches against. The built-in sets cover the AN-ACC cost report domain;
// a gate terms file can extend them but never removes a built-in term.
type GateTerms struct {
	StaffingTerms []string `yaml:"staffing_terms"`
	BedDayTerms   []string `yaml:"bed_day_terms"`
}

var defaultGateTerms = GateTerms{
	StaffingTerms: []string{"nurse", "care worker", "care minutes", "personal care", "staff", "management", "allied health"},
	BedDayTerms:   []string{"bedday", "occupiedbeddays", "availablebeddays"},
}

var gateTerms = defaultGateTerms

// LoadGateTerms parses a term-extension file and returns the built-in sets
// merged with the extra terms.
func LoadGateTerms(path string) (GateTerms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GateTerms{}, fmt.Errorf("read gate terms: %w", err)
	}
	var extra GateTerms
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return GateTerms{}, fmt.Errorf("parse gate terms yaml: %w", err)
	}
	merged := GateTerms{
		StaffingTerms: mergeTerms(defaultGateTerms.StaffingTerms, extra.StaffingTerms),
		BedDayTerms:   mergeTerms(defaultGateTerms.BedDayTerms, extra.BedDayTerms),
	}
	return merged, nil
}

// ApplyGateTerms installs the merged term sets for the rest of the run.
func ApplyGateTerms(terms GateTerms) {
	gateTerms = terms
}

func mergeTerms(builtin, extra []string) []string {
	merged := append([]string(nil), builtin...)
	seen := make(map[string]bool, len(builtin))
	for _, term := range builtin {
		seen[strings.ToLower(term)] = true
	}
	for _, term := range extra {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		merged = append(merged, term)
	}
	return merged
}

// IsSemanticMatch decides whether a candidate lookup key is plausible for a
// placeholder. Pure keyword rules, case-insensitive, combined by AND: a
// staffing placeholder must not map to a bed-day key, a "bed day"
// placeholder must map to a bed-day key, and a "rate" placeholder must map
// to a key containing "rate".
func IsSemanticMatch(placeholder, key string) bool {
	p := strings.ToLower(placeholder)
	k := strings.ToLower(key)

	if containsAny(p, gateTerms.StaffingTerms) && containsAny(k, gateTerms.BedDayTerms) {
		return false
	}
	if strings.Contains(p, "bed day") && !containsAny(k, gateTerms.BedDayTerms) {
		return false
	}
	if strings.Contains(p, "rate") && !strings.Contains(k, "rate") {
		return false
	}
	return true
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
