package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FormatRunReport builds the human-readable run summary: the accepted
// mapping list plus the two run metrics.
func FormatRunReport(result FillResult) string {
	var out strings.Builder

	out.WriteString("Final Mappings:\n")
	if len(result.Mappings) == 0 {
		out.WriteString("(none)\n")
	}
	for _, m := range result.Mappings {
		out.WriteString(fmt.Sprintf("→ %s → %s\n", m.Placeholder, m.Key))
	}

	out.WriteString(fmt.Sprintf("\nMatching Accuracy: %.2f%%\n", result.Metrics.Accuracy()))
	out.WriteString(fmt.Sprintf("Data Correctness: %.2f%%\n", result.Metrics.DataCorrectness()))
	return out.String()
}

func WriteReportFile(content, outputDir string, runDate time.Time, facilityName string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s.md", sanitizeFilename(facilityName), runDate.Format("20060102"))
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", " ", "_")
	return replacer.Replace(s)
}
