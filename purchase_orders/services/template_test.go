package services

import (
	"bytes"
	"testing"
)

func TestTemplateReadsBackAsValidImport(t *testing.T) {
	m := DefaultColumnMapping()
	var buf bytes.Buffer
	if err := WriteTemplate(&buf, m); err != nil {
		t.Fatal(err)
	}

	raws, err := NewSpreadsheetReader().Read(bytes.NewReader(buf.Bytes()), FormatXLSX)
	if err != nil {
		t.Fatal(err)
	}
	if len(raws) != 1 {
		t.Fatalf("got %d rows, want the single sample row", len(raws))
	}
	for _, h := range m.Headers() {
		if _, ok := raws[0][h]; !ok {
			t.Errorf("sample row has no %q column", h)
		}
	}

	rows := m.AdaptAll(raws)
	if errs := NewRowValidator(m, testDates()).Validate(rows); len(errs) != 0 {
		t.Fatalf("sample row does not validate: %v", Messages(errs))
	}
	rec := NewRowNormalizer(m, testDates()).ToPreview(rows[0])
	if !rec.IsPaid || !rec.IsDelivered || rec.PaymentDueDate == nil || rec.PaymentDueDate.String() != "2024-02-14" {
		t.Errorf("sample preview = %+v", rec)
	}
}
