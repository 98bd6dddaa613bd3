package services

import (
	"strings"
	"testing"
)

func TestValidateReportsOnlyFailingRows(t *testing.T) {
	m := DefaultColumnMapping()
	raws := orderRaws(m, 5)
	raws[1][m.Header(FieldCompanyName)] = TextCell("   ")
	raws[3][m.Header(FieldBuyingAmount)] = NumberCell(-5)

	errs := NewRowValidator(m, testDates()).Validate(m.AdaptAll(raws))
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), Messages(errs))
	}
	if errs[0].Row != 3 || errs[0].Field != FieldCompanyName || !strings.HasPrefix(errs[0].Message, "الصف 3:") {
		t.Errorf("first error = %+v", errs[0])
	}
	if errs[1].Row != 5 || errs[1].Field != FieldBuyingAmount || !strings.HasPrefix(errs[1].Message, "الصف 5:") {
		t.Errorf("second error = %+v", errs[1])
	}
}

func TestValidateAccumulatesRules(t *testing.T) {
	m := DefaultColumnMapping()
	raw := RawRow{
		m.Header(FieldBuyingAmount):    TextCell("abc"),
		m.Header(FieldEtktDate):        TextCell("31-02-2024"),
		m.Header(FieldOrderDate):       TextCell("someday"),
		m.Header(FieldPaymentDuration): NumberCell(-2),
		m.Header(FieldPaid):            TextCell("yes"),
		m.Header(FieldDelivered):       TextCell(m.Tokens().Yes + " "),
	}

	errs := NewRowValidator(m, testDates()).ValidateRow(m.Adapt(0, raw))
	want := []Field{
		FieldCompanyName,
		FieldBuyingAmount,
		FieldSellingAmount,
		FieldEtktDate,
		FieldOrderDate,
		FieldPaymentDuration,
		FieldPaid,
		FieldDelivered,
	}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), Messages(errs))
	}
	for i, f := range want {
		if errs[i].Field != f {
			t.Errorf("error %d field = %s, want %s", i, errs[i].Field, f)
		}
		if errs[i].Row != 2 {
			t.Errorf("error %d row = %d, want 2", i, errs[i].Row)
		}
	}
}

func TestValidateAcceptsOptionalFields(t *testing.T) {
	m := DefaultColumnMapping()
	raw := orderRaw(m, 0)
	raw[m.Header(FieldPaid)] = TextCell(m.Tokens().No)
	raw[m.Header(FieldDelivered)] = TextCell(m.Tokens().Yes)
	raw[m.Header(FieldPaymentDuration)] = TextCell("45 days")
	raw[m.Header(FieldEtktDate)] = NumberCell(45306)
	raw[m.Header(FieldOrderDate)] = TextCell("2024/1/15")
	raw[m.Header(FieldSellingAmount)] = TextCell("150.75 SAR")

	if errs := NewRowValidator(m, testDates()).ValidateRow(m.Adapt(0, raw)); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", Messages(errs))
	}
}

func TestSummaryJoinsMessages(t *testing.T) {
	errs := []ValidationError{{Message: "a"}, {Message: "b"}}
	if got := ErrorSummary(errs); got != "a\nb" {
		t.Errorf("Summary = %q", got)
	}
}

func TestValidateRejectsZeroCompany(t *testing.T) {
	m := DefaultColumnMapping()
	raws := orderRaws(m, 2)
	raws[0][m.Header(FieldCompanyName)] = NumberCell(0)

	errs := NewRowValidator(m, testDates()).Validate(m.AdaptAll(raws))
	if len(errs) != 1 || errs[0].Row != 2 || errs[0].Field != FieldCompanyName {
		t.Fatalf("errors = %+v", errs)
	}
}
