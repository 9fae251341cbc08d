// Package spreadsheet owns every xlsx touchpoint: reading uploaded
// workbooks, generating per-kind import templates and serializing report
// pages for download. Nothing here mutates an uploaded file.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/freight-tools/loadsheet/pkg/models/domain"
)

// ReadRows extracts the cell grid of the first sheet of an uploaded
// workbook: one header row plus data rows. Cells are returned raw, so date
// cells surface their underlying serial values instead of display strings.
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.NewStructuralError("unreadable workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, domain.NewStructuralError("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	rows = trimTrailingEmptyRows(rows)
	if len(rows) == 0 {
		return nil, domain.NewStructuralError("workbook has no header row")
	}
	return rows, nil
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 && rowEmpty(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
