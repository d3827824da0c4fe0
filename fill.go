package main

import (
	"log"
	"strings"
)

// FillDocument resolves every placeholder in the document against the lookup
// table, one at a time: ask the proposer, validate with the semantic gate,
// fall back to fuzzy matching when the gate rejects, then write the value
// into the adjacent cell. Every placeholder ends in exactly one of three
// outcomes: written, mapping-recorded-without-value, or suspicious.
func FillDocument(doc Document, proposer Proposer, lookup map[string]float64) (FillResult, error) {
	summary := LookupSummary(lookup)
	keys := lookupKeys(lookup)

	placeholders, err := doc.Placeholders()
	if err != nil {
		return FillResult{}, err
	}

	var result FillResult
	for _, p := range placeholders {
		result.Metrics.Total++

		matched, err := proposer.Propose(p.Text, summary)
		if err != nil {
			log.Printf("fill propose failed placeholder=%q: %v", p.Text, err)
			result.Metrics.Suspicious++
			continue
		}
		matched = strings.TrimSpace(matched)

		if !IsSemanticMatch(p.Text, matched) {
			fallbackKey, ok := FallbackMatch(p.Text, keys)
			if !ok || !IsSemanticMatch(p.Text, fallbackKey) {
				log.Printf("fill rejected placeholder=%q proposal=%q: no valid fallback", p.Text, matched)
				result.Metrics.Suspicious++
				continue
			}
			log.Printf("fill fallback placeholder=%q rejected=%q matched=%q", p.Text, matched, fallbackKey)
			matched = fallbackKey
		}

		result.Mappings = append(result.Mappings, Mapping{Placeholder: p.Text, Key: matched})

		value, ok := lookup[matched]
		if !ok {
			log.Printf("fill no value for key=%q placeholder=%q", matched, p.Text)
			continue
		}
		if err := doc.WriteValue(p, value); err != nil {
			log.Printf("fill write failed placeholder=%q: %v", p.Text, err)
			result.Metrics.Suspicious++
			continue
		}
		result.Metrics.Success++
	}

	return result, nil
}
