package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var errLegacyExcel = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx")

// SpreadsheetReader turns an uploaded file into raw rows keyed by header text.
type SpreadsheetReader struct{}

func NewSpreadsheetReader() *SpreadsheetReader { return &SpreadsheetReader{} }

// Read parses every data row of r. Blank rows are dropped.
func (s *SpreadsheetReader) Read(r io.Reader, format ImportFormat) ([]RawRow, error) {
	var (
		rows []RawRow
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = s.readCSV(r)
	case FormatXLSX:
		rows, err = s.readXLSX(r)
	case FormatXLS:
		err = errLegacyExcel
	default:
		return nil, ErrUnsupportedFileType
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	return rows, nil
}

// readCSV reads a header row and then data rows. Numeric fields become number cells.
func (s *SpreadsheetReader) readCSV(r io.Reader) ([]RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers = cleanHeaders(headers)

	var rows []RawRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", line, err)
		}
		if isBlankRecord(record) {
			continue
		}

		row := make(RawRow, len(headers))
		for i, value := range record {
			if i < len(headers) && headers[i] != "" {
				row[headers[i]] = InferCell(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// readXLSX reads the first sheet. Cells are taken as displayed, except cells
// whose number format is a date format, which become date cells.
func (s *SpreadsheetReader) readXLSX(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}
	sheetName := sheets[0]

	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) == 0 {
		return nil, nil
	}

	headers := cleanHeaders(excelRows[0])
	dateStyles := map[int]bool{}

	var rows []RawRow
	for rowIdx, excelRow := range excelRows[1:] {
		if isBlankRecord(excelRow) {
			continue
		}
		row := make(RawRow, len(headers))
		for i, value := range excelRow {
			if i >= len(headers) || headers[i] == "" || value == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(i+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			row[headers[i]] = s.xlsxCell(f, sheetName, cellName, value, dateStyles)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *SpreadsheetReader) xlsxCell(f *excelize.File, sheet, cellName, display string, dateStyles map[int]bool) Cell {
	styleID, err := f.GetCellStyle(sheet, cellName)
	if err != nil || styleID == 0 {
		return TextCell(display)
	}
	isDate, seen := dateStyles[styleID]
	if !seen {
		isDate = isDateStyle(f, styleID)
		dateStyles[styleID] = isDate
	}
	if !isDate {
		return TextCell(display)
	}

	raw, err := f.GetCellValue(sheet, cellName, excelize.Options{RawCellValue: true})
	if err != nil {
		return TextCell(display)
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return TextCell(display)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return TextCell(display)
	}
	return DateCell(t)
}

// isDateStyle reports whether a cell style formats numbers as dates.
func isDateStyle(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateNumFmt(*style.CustomNumFmt)
	}
	return isBuiltInDateNumFmt(style.NumFmt)
}

func isBuiltInDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateNumFmt looks for day, month-with-year or year tokens outside quoted
// literals and bracketed sections of a custom number format.
func isDateNumFmt(format string) bool {
	var (
		inQuote   bool
		inBracket bool
	)
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'd' || r == 'y':
			return true
		}
	}
	return false
}

func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
