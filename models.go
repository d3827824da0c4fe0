package main

// Placeholder is a template cell awaiting a resolved value. Row and Col are
// 1-based workbook coordinates of the placeholder cell itself; the resolved
// value is written one column to the right (see valueCellName).
type Placeholder struct {
	Text string
	Row  int
	Col  int
}

// Mapping is an accepted placeholder → lookup-key pair, kept for the run
// report and the run history.
type Mapping struct {
	Placeholder string
	Key         string
}

// RunMetrics counts placeholder outcomes for one fill run.
type RunMetrics struct {
	Total      int // placeholders seen
	Success    int // values written
	Suspicious int // no valid match from either the AI or the fallback path
}

// Accuracy is the share of placeholders that received a value, in percent.
func (m RunMetrics) Accuracy() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Success) / float64(m.Total) * 100
}

// DataCorrectness discounts successful writes by the suspicious count, in
// percent of successes.
func (m RunMetrics) DataCorrectness() float64 {
	if m.Success == 0 {
		return 0
	}
	return float64(m.Success-m.Suspicious) / float64(m.Success) * 100
}

// FillResult is the outcome of one fill run.
type FillResult struct {
	Mappings []Mapping
	Metrics  RunMetrics
}
