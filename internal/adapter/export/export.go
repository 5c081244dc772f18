// Package export writes dataset tables as downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
)

const sheet = "Sheet1"

// WriteCSV writes t with a header row. Missing cells are written as empty fields.
func WriteCSV(w io.Writer, t *domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := 0; i < t.Len(); i++ {
		if err := cw.Write(record(t, i)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes t to a single-sheet workbook. Numeric cells are stored as
// numbers so spreadsheets can aggregate them.
func WriteXLSX(w io.Writer, t *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	cols := t.Columns()
	for j, col := range cols {
		if err := setCell(f, j, 1, col); err != nil {
			return err
		}
	}
	for i := 0; i < t.Len(); i++ {
		for j, col := range cols {
			var v any
			if n, ok := t.Float(i, col); ok {
				v = n
			} else if s, ok := t.String(i, col); ok {
				v = s
			} else {
				continue
			}
			if err := setCell(f, j, i+2, v); err != nil {
				return err
			}
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}

func record(t *domain.Table, i int) []string {
	cols := t.Columns()
	out := make([]string, len(cols))
	for j, col := range cols {
		out[j], _ = t.String(i, col)
	}
	return out
}
