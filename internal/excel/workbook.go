// Package excel builds the report workbook in memory. Sheets are appended
// in catalog order as queries complete; nothing touches disk until Save.
package excel

import (
	"fmt"
	"strings"

	"github.com/IBM/SVCheck/internal/exitcode"
	"github.com/IBM/SVCheck/internal/svapi"
	"github.com/xuri/excelize/v2"
)

// Sheet names may be at most 31 characters and must not contain these
const (
	maxSheetNameLen    = 31
	forbiddenNameChars = `:\/?*[]`
)

const columnWidth = 25

// Styling mirrors the report's house look: bold header on blue, centered
// cells, alternating green stripes.
const (
	headerFillColor = "0066CC"
	evenRowColor    = "66CC00"
	oddRowColor     = "B3FF66"
)

// Workbook accumulates one sheet per completed query
type Workbook struct {
	file   *excelize.File
	sheets map[string]string // sanitized name -> original name
	order  []string

	headerStyle int
	evenStyle   int
	oddStyle    int
}

// NewWorkbook creates an empty workbook
func NewWorkbook() (*Workbook, error) {
	file := excelize.NewFile()
	w := &Workbook{
		file:   file,
		sheets: make(map[string]string),
	}
	if err := w.createStyles(); err != nil {
		return nil, fmt.Errorf("failed to create styles: %v: %w", err, exitcode.ErrExcelWrite)
	}
	return w, nil
}

// AddSheet appends one sheet. Columns are the union of record keys in
// first-seen order; a record missing a column gets an empty cell. A
// sanitized name that collides with an existing sheet is an error, never a
// silent overwrite.
func (w *Workbook) AddSheet(name string, records []svapi.Record) error {
	sheet := SanitizeSheetName(name)
	if previous, ok := w.sheets[sheet]; ok {
		return fmt.Errorf("sheet name %q for %q collides with %q: %w",
			sheet, name, previous, exitcode.ErrExcelWrite)
	}

	if len(w.order) == 0 {
		// excelize always starts with one default sheet; claim it
		if err := w.file.SetSheetName(w.file.GetSheetName(0), sheet); err != nil {
			return fmt.Errorf("failed to name sheet %q: %v: %w", sheet, err, exitcode.ErrExcelWrite)
		}
	} else {
		if _, err := w.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %v: %w", sheet, err, exitcode.ErrExcelWrite)
		}
	}
	w.sheets[sheet] = name
	w.order = append(w.order, sheet)

	columns := unionColumns(records)
	if len(columns) == 0 {
		// Zero records with no keys: the sheet stays blank but exists
		return nil
	}

	header := make([]interface{}, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	if err := w.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %v: %w", sheet, err, exitcode.ErrExcelWrite)
	}

	for i, record := range records {
		row := make([]interface{}, len(columns))
		for j, column := range columns {
			if value, ok := record.Fields[column]; ok {
				row[j] = value
			} else {
				row[j] = ""
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d of %q: %v: %w", i+2, sheet, err, exitcode.ErrExcelWrite)
		}
		if err := w.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %v: %w", i+2, sheet, err, exitcode.ErrExcelWrite)
		}
	}

	if err := w.styleSheet(sheet, len(columns), len(records)); err != nil {
		return fmt.Errorf("failed to style %q: %v: %w", sheet, err, exitcode.ErrExcelWrite)
	}
	return nil
}

// SheetNames returns the sheet names in the order they were added
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.order))
	copy(names, w.order)
	return names
}

// Save writes the workbook to path, once
func (w *Workbook) Save(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("cannot write %s: %v: %w", path, err, exitcode.ErrExcelWrite)
	}
	return nil
}

// SanitizeSheetName makes a catalog name legal as an xlsx sheet name
func SanitizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if !strings.ContainsRune(forbiddenNameChars, r) {
			b.WriteRune(r)
		}
	}
	sanitized := strings.Trim(b.String(), "'")
	if len(sanitized) > maxSheetNameLen {
		sanitized = sanitized[:maxSheetNameLen]
	}
	if sanitized == "" {
		sanitized = "Sheet"
	}
	return sanitized
}

// unionColumns computes the ordered column set across all records
func unionColumns(records []svapi.Record) []string {
	var columns []string
	seen := make(map[string]bool)
	for _, record := range records {
		for _, key := range record.Keys {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	return columns
}

func (w *Workbook) createStyles() error {
	var err error
	w.headerStyle, err = w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Family: "Calibri",
			Size:   12,
			Bold:   true,
			Color:  "000000",
		},
		Fill:      patternFill(headerFillColor),
		Alignment: centered(),
	})
	if err != nil {
		return err
	}
	w.evenStyle, err = w.file.NewStyle(&excelize.Style{
		Fill:      patternFill(evenRowColor),
		Alignment: centered(),
	})
	if err != nil {
		return err
	}
	w.oddStyle, err = w.file.NewStyle(&excelize.Style{
		Fill:      patternFill(oddRowColor),
		Alignment: centered(),
	})
	return err
}

// styleSheet applies column widths, the header style and the row stripes
func (w *Workbook) styleSheet(sheet string, columns, rows int) error {
	lastColumn, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}
	if err := w.file.SetColWidth(sheet, "A", lastColumn, columnWidth); err != nil {
		return err
	}
	if err := w.file.SetCellStyle(sheet, "A1", lastColumn+"1", w.headerStyle); err != nil {
		return err
	}
	for row := 2; row <= rows+1; row++ {
		style := w.oddStyle
		if row%2 == 0 {
			style = w.evenStyle
		}
		first, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(columns, row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellStyle(sheet, first, last, style); err != nil {
			return err
		}
	}
	return nil
}

func patternFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func centered() *excelize.Alignment {
	return &excelize.Alignment{Horizontal: "center", Vertical: "center"}
}
