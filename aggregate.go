package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// sourceTable is one loaded CSV: a header row plus data rows, column-aligned.
type sourceTable struct {
	Path    string
	Headers []string
	Rows    [][]string
}

// categoryPair names a "group by this column, sum that column" convention.
type categoryPair struct {
	Category string
	Amount   string
}

// The two naming conventions recognized in source files.
var categoryPairs = []categoryPair{
	{Category: "Role", Amount: "Cost_AUD"},
	{Category: "Field", Amount: "Value"},
}

func LoadSourceTable(path string) (sourceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return sourceTable{}, fmt.Errorf("opening source table: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return sourceTable{}, fmt.Errorf("parsing source table %s: %w", path, err)
	}
	if len(records) == 0 {
		return sourceTable{}, fmt.Errorf("source table %s is empty", path)
	}
	return sourceTable{Path: path, Headers: records[0], Rows: records[1:]}, nil
}

// BuildLookup merges all source tables into one key → numeric-value mapping.
// Tables with a recognized category+amount column pair contribute per-category
// sums that overwrite the running map on key collision. All other numeric
// columns contribute their full-column totals, which accumulate across
// sources under the column name. Any unreadable source aborts the whole run.
func BuildLookup(paths []string) (map[string]float64, error) {
	combined := make(map[string]float64)
	for _, path := range paths {
		table, err := LoadSourceTable(path)
		if err != nil {
			return nil, err
		}
		aggregateTable(table, combined)
	}
	return combined, nil
}

func aggregateTable(table sourceTable, combined map[string]float64) {
	if pair, ok := findCategoryPair(table); ok {
		for key, sum := range sumByCategory(table, pair) {
			combined[key] = sum
		}
		return
	}
	for i, header := range table.Headers {
		if !isNumericColumn(table, i) {
			continue
		}
		combined[header] += columnSum(table, i)
	}
}

func findCategoryPair(table sourceTable) (categoryPair, bool) {
	for _, pair := range categoryPairs {
		catIdx := columnIndex(table.Headers, pair.Category)
		amtIdx := columnIndex(table.Headers, pair.Amount)
		if catIdx >= 0 && amtIdx >= 0 && isNumericColumn(table, amtIdx) {
			return pair, true
		}
	}
	return categoryPair{}, false
}

func sumByCategory(table sourceTable, pair categoryPair) map[string]float64 {
	catIdx := columnIndex(table.Headers, pair.Category)
	amtIdx := columnIndex(table.Headers, pair.Amount)

	sums := make(map[string]float64)
	for _, row := range table.Rows {
		if catIdx >= len(row) || amtIdx >= len(row) {
			continue
		}
		amount := strings.TrimSpace(row[amtIdx])
		if amount == "" {
			continue
		}
		value, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			continue
		}
		sums[row[catIdx]] += value
	}
	return sums
}

// isNumericColumn reports whether every non-empty cell in the column parses
// as a number and at least one cell is non-empty.
func isNumericColumn(table sourceTable, idx int) bool {
	nonEmpty := 0
	for _, row := range table.Rows {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
		nonEmpty++
	}
	return nonEmpty > 0
}

func columnSum(table sourceTable, idx int) float64 {
	var sum float64
	for _, row := range table.Rows {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			continue
		}
		sum += value
	}
	return sum
}

func columnIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// LookupSummary renders the lookup table as newline-joined "key: value"
// lines, sorted by key so prompts are stable between runs.
func LookupSummary(lookup map[string]float64) string {
	var lines []string
	for _, key := range lookupKeys(lookup) {
		lines = append(lines, fmt.Sprintf("%s: %s", key, strconv.FormatFloat(lookup[key], 'f', -1, 64)))
	}
	return strings.Join(lines, "\n")
}

func lookupKeys(lookup map[string]float64) []string {
	keys := make([]string, 0, len(lookup))
	for key := range lookup {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
