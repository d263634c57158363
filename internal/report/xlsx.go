package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the worksheet holding the hardware table.
	SheetName = "Hardware"

	widthPadding = 2
	maxColWidth  = 80
)

// ConvertCSVToXLSX converts a report CSV to an XLSX file next to it and returns its path.
// Every cell is stored as a string, so serial numbers keep their leading zeros.
func ConvertCSVToXLSX(csvPath string, delimiter rune) (string, error) {
	records, err := ReadCSV(csvPath, delimiter)
	if err != nil {
		return "", err
	}

	xlsxPath := strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".xlsx"
	if err = WriteXLSX(xlsxPath, records); err != nil {
		return "", err
	}

	return xlsxPath, nil
}

// WriteXLSX stores records in the Hardware sheet of a new workbook, sizing every column to
// its longest value.
func WriteXLSX(path string, records [][]string) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	widths := make([]int, 0)
	for rowIdx, record := range records {
		for colIdx, value := range record {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if utf8.RuneCountInString(value) > excelize.TotalCellChars {
				return fmt.Errorf("cell %s holds %d characters, the sheet limit is %d",
					cell, utf8.RuneCountInString(value), excelize.TotalCellChars)
			}
			if err = book.SetCellStr(SheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}

			for len(widths) <= colIdx {
				widths = append(widths, 0)
			}
			widths[colIdx] = max(widths[colIdx], utf8.RuneCountInString(value))
		}
	}

	for colIdx, width := range widths {
		col, err := excelize.ColumnNumberToName(colIdx + 1)
		if err != nil {
			return fmt.Errorf("failed to name column: %w", err)
		}
		if err = book.SetColWidth(SheetName, col, col, ColumnWidth(width)); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// ColumnWidth is the width of a column whose longest value has n characters.
func ColumnWidth(n int) float64 {
	return float64(min(n+widthPadding, maxColWidth))
}

// ReadXLSX returns the rows of the Hardware sheet, every row padded to the header width.
func ReadXLSX(path string) ([][]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer book.Close()

	rows, err := book.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", SheetName, err)
	}

	if len(rows) == 0 {
		return rows, nil
	}
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	return rows, nil
}
