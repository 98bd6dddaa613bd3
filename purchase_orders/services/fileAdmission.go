package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxImportFileSize is the largest accepted upload, 10 MiB.
const MaxImportFileSize = 10 * 1024 * 1024

// ImportFormat is the spreadsheet flavour of an upload.
type ImportFormat string

const (
	FormatCSV  ImportFormat = "csv"
	FormatXLSX ImportFormat = "xlsx"
	FormatXLS  ImportFormat = "xls"
)

var (
	ErrUnsupportedFileType = errors.New("يرجى اختيار ملف CSV أو Excel")
	ErrFileTooLarge        = errors.New("حجم الملف يجب أن يكون أقل من 10 ميجابايت")
	ErrEmptyFile           = errors.New("الملف فارغ أو لا يحتوي على بيانات صالحة")
)

// ParseError reports a file that could not be read as a spreadsheet at all.
type ParseError struct {
	Format ImportFormat
	Err    error
}

func (e *ParseError) Error() string {
	if e.Format == FormatCSV {
		return "خطأ في قراءة ملف CSV"
	}
	return "خطأ في قراءة ملف Excel"
}

func (e *ParseError) Unwrap() error { return e.Err }

// Detail includes the underlying reader error, for logs.
func (e *ParseError) Detail() string {
	return fmt.Sprintf("%s: %v", e.Error(), e.Err)
}

// DetectFormat maps a file name to its import format by extension.
func DetectFormat(fileName string) (ImportFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ImportFormat(ext) {
	case FormatCSV, FormatXLSX, FormatXLS:
		return ImportFormat(ext), nil
	}
	return "", ErrUnsupportedFileType
}

// AdmitFile checks type and size before anything is parsed.
func AdmitFile(fileName string, size int64) (ImportFormat, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return "", err
	}
	if size > MaxImportFileSize {
		return "", ErrFileTooLarge
	}
	return format, nil
}
