package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	data := "\ufeffclient, company ,amount\n" +
		"CO-1,Acme,100\n" +
		",,\n" +
		"\n" +
		"CO-2,\"Beta, Ltd\",12.5 SAR,extra\n"

	rows, err := NewSpreadsheetReader().Read(strings.NewReader(data), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if c := rows[0]["client"]; !c.IsText() || c.Text != "CO-1" {
		t.Errorf("client = %+v", c)
	}
	if c := rows[0]["amount"]; !c.IsNumber() || c.Number != 100 {
		t.Errorf("amount = %+v", c)
	}
	if c := rows[1]["company"]; c.Text != "Beta, Ltd" {
		t.Errorf("company = %+v", c)
	}
	if c := rows[1]["amount"]; !c.IsText() {
		t.Errorf("mixed amount should stay text, got %+v", c)
	}
	if len(rows[1]) != 3 {
		t.Errorf("extra field kept: %v", rows[1])
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	rows, err := NewSpreadsheetReader().Read(strings.NewReader("a,b\n"), FormatCSV)
	if err != nil || len(rows) != 0 {
		t.Errorf("rows = %v, err = %v", rows, err)
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"client", "company", "amount", "date"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]interface{}{"CO-1", "Acme", 120.5, 45306}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow(sheet, "A4", &[]interface{}{"CO-2", "Beta"}); err != nil {
		t.Fatal(err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle(sheet, "D2", "D2", dateStyle); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	rows, err := NewSpreadsheetReader().Read(bytes.NewReader(buf.Bytes()), FormatXLSX)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if c := rows[0]["amount"]; c.Trimmed() != "120.5" {
		t.Errorf("amount = %+v", c)
	}
	d := rows[0]["date"]
	if !d.IsDate() || !d.Date.Equal(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %+v", d)
	}
	if _, ok := rows[1]["amount"]; ok {
		t.Errorf("missing cell should be absent, got %v", rows[1])
	}
}

func TestReadRejectsUnreadableFiles(t *testing.T) {
	r := NewSpreadsheetReader()

	_, err := r.Read(strings.NewReader("not a zip"), FormatXLSX)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Format != FormatXLSX {
		t.Fatalf("xlsx err = %v", err)
	}
	if perr.Error() != "خطأ في قراءة ملف Excel" {
		t.Errorf("message = %q", perr.Error())
	}

	_, err = r.Read(strings.NewReader(""), FormatXLS)
	if !errors.As(err, &perr) || perr.Format != FormatXLS {
		t.Errorf("xls err = %v", err)
	}

	_, err = r.Read(strings.NewReader("a\n\"unterminated\n"), FormatCSV)
	if err != nil && !errors.As(err, &perr) {
		t.Errorf("csv err = %v", err)
	}
}

func TestAdmitFile(t *testing.T) {
	cases := []struct {
		name string
		size int64
		want ImportFormat
		err  error
	}{
		{"orders.xlsx", 10, FormatXLSX, nil},
		{"ORDERS.CSV", 10, FormatCSV, nil},
		{"legacy.xls", 10, FormatXLS, nil},
		{"orders.pdf", 10, "", ErrUnsupportedFileType},
		{"orders", 10, "", ErrUnsupportedFileType},
		{"big.xlsx", MaxImportFileSize + 1, "", ErrFileTooLarge},
		{"edge.csv", MaxImportFileSize, FormatCSV, nil},
	}
	for _, tc := range cases {
		got, err := AdmitFile(tc.name, tc.size)
		if !errors.Is(err, tc.err) || got != tc.want {
			t.Errorf("AdmitFile(%q, %d) = %q, %v", tc.name, tc.size, got, err)
		}
	}
}

func TestInferCell(t *testing.T) {
	if c := InferCell(""); !c.IsEmpty() {
		t.Errorf("empty = %+v", c)
	}
	if c := InferCell(" 42 "); !c.IsNumber() || c.Number != 42 {
		t.Errorf("number = %+v", c)
	}
	if c := InferCell("1e999"); !c.IsText() {
		t.Errorf("overflow = %+v", c)
	}
	if c := InferCell("00123"); !c.IsNumber() {
		t.Errorf("leading zeros = %+v", c)
	}
}

func TestCellCoercion(t *testing.T) {
	if f := TextCell("120.5 SAR").FloatOr(0); f != 120.5 {
		t.Errorf("FloatOr = %v", f)
	}
	if f := TextCell("SAR 120").FloatOr(-1); f != -1 {
		t.Errorf("FloatOr default = %v", f)
	}
	if n := NumberCell(29.9).IntOr(30); n != 29 {
		t.Errorf("IntOr = %d", n)
	}
	if n := NumberCell(0).IntOr(30); n != 30 {
		t.Errorf("IntOr zero = %d", n)
	}
	if NumberCell(0).Truthy() || TextCell("").Truthy() || EmptyCell().Truthy() {
		t.Error("falsy cells reported truthy")
	}
	if s := NumberCell(150).String(); s != "150" {
		t.Errorf("String = %q", s)
	}
}
