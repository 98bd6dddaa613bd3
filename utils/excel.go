package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// EnsureDirectoryExists ensures the specified directory exists before file saving
func EnsureDirectoryExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	return nil
}

// Sheet is a single worksheet to be written: a header row followed by data rows.
type Sheet struct {
	Name    string
	Headers []string
	// Required marks header columns that get the highlighted style.
	Required map[string]bool
	Rows     [][]interface{}
	RTL      bool
}

// BuildWorkbook renders sheets into a new workbook. The first sheet is active.
func BuildWorkbook(sheets ...Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("error creating sheet %s: %w", sheet.Name, err)
		}

		if sheet.RTL {
			rtl := true
			if err := f.SetSheetView(sheet.Name, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
				return nil, err
			}
		}

		for col, header := range sheet.Headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
				return nil, fmt.Errorf("error setting header %s: %w", header, err)
			}
			style := headerStyle
			if sheet.Required[header] {
				style = requiredStyle
			}
			if err := f.SetCellStyle(sheet.Name, cell, cell, style); err != nil {
				return nil, err
			}
			colName, _ := excelize.ColumnNumberToName(col + 1)
			if err := f.SetColWidth(sheet.Name, colName, colName, 22); err != nil {
				return nil, err
			}
		}

		for r, row := range sheet.Rows {
			for col, value := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
					return nil, fmt.Errorf("error setting value at %s: %w", cell, err)
				}
			}
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// GenerateExcel writes the sheets to dir under a timestamped name derived from
// taskName and returns the path of the saved file.
func GenerateExcel(dir, taskName string, sheets ...Sheet) (string, error) {
	if err := EnsureDirectoryExists(dir); err != nil {
		return "", err
	}

	f, err := BuildWorkbook(sheets...)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("%s_%s.xlsx", CleanStringForFilename(taskName), time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving Excel file: %w", err)
	}
	return path, nil
}
