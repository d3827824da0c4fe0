package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Document is the template surface the orchestrator fills. Workbook is the
// real implementation; tests supply an in-memory fake.
type Document interface {
	Placeholders() ([]Placeholder, error)
	WriteValue(p Placeholder, value float64) error
}

// Workbook wraps the first sheet of an xlsx template.
type Workbook struct {
	file  *excelize.File
	sheet string
}

func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}
	sheet := f.GetSheetName(0)
	if sheet == "" {
		f.Close()
		return nil, fmt.Errorf("template %s has no sheets", path)
	}
	return &Workbook{file: f, sheet: sheet}, nil
}

// Placeholders scans every cell of the sheet for values whose trimmed text
// starts with the marker glyph.
func (w *Workbook) Placeholders() ([]Placeholder, error) {
	rows, err := w.file.GetRows(w.sheet)
	if err != nil {
		return nil, fmt.Errorf("reading template rows: %w", err)
	}

	var placeholders []Placeholder
	for r, row := range rows {
		for c, cell := range row {
			text := strings.TrimSpace(cell)
			if strings.HasPrefix(text, placeholderMarker) {
				placeholders = append(placeholders, Placeholder{Text: text, Row: r + 1, Col: c + 1})
			}
		}
	}
	return placeholders, nil
}

// WriteValue writes the value, rounded to 2 decimal places, into the cell
// adjacent to the placeholder.
func (w *Workbook) WriteValue(p Placeholder, value float64) error {
	cell, err := valueCellName(p)
	if err != nil {
		return err
	}
	return w.file.SetCellValue(w.sheet, cell, math.Round(value*100)/100)
}

func (w *Workbook) SaveAs(path string) error {
	return w.file.SaveAs(path)
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// valueCellName is the coordinate transform from a placeholder cell to its
// output cell: same row, one column to the right.
func valueCellName(p Placeholder) (string, error) {
	return excelize.CoordinatesToCellName(p.Col+1, p.Row)
}
