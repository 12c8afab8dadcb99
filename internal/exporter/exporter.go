// Package exporter writes result sets to spreadsheet files. The engine
// supplies the ordered rows and columns; formatting lives here.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
)

const sheetName = "Sessions"

// WriteXLSX writes the result set as an Excel workbook with a bold header
// row and columns sized to their content.
func WriteXLSX(rs *model.ResultSet, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	widths := make([]int, len(model.Columns))
	for col, header := range model.Columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, bold); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
		widths[col] = len(header)
	}

	for i, s := range rs.Sessions {
		for col, val := range model.Row(s) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
			if len(val) > widths[col] {
				widths[col] = len(val)
			}
		}
	}

	for col, w := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		// Reason texts can be paragraphs; keep columns readable.
		if w > 80 {
			w = 80
		}
		if err := f.SetColWidth(sheetName, name, name, float64(w)+2); err != nil {
			return fmt.Errorf("size column %s: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// WriteCSV writes the result set as a CSV file with a header row.
func WriteCSV(rs *model.ResultSet, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(model.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range rs.Sessions {
		if err := w.Write(model.Row(s)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return out.Close()
}
