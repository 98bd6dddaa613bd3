package services

import (
	"fmt"
	"strings"
)

const dateFormatHint = "(استخدم تنسيق DD-MM-YYYY أو YYYY-MM-DD)"

// ValidationError is one rule violation on one spreadsheet row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string { return e.Message }

// RowValidator checks imported rows against the business rules for purchase orders.
type RowValidator struct {
	mapping ColumnMapping
	dates   *DateNormalizer
}

func NewRowValidator(mapping ColumnMapping, dates *DateNormalizer) *RowValidator {
	return &RowValidator{mapping: mapping, dates: dates}
}

// Validate returns every violation found, ordered by row and then by rule.
func (v *RowValidator) Validate(rows []ImportRow) []ValidationError {
	var errs []ValidationError
	for _, row := range rows {
		errs = append(errs, v.ValidateRow(row)...)
	}
	return errs
}

// ValidateRow applies all rules to a single row.
func (v *RowValidator) ValidateRow(row ImportRow) []ValidationError {
	var errs []ValidationError
	add := func(f Field, msg string) {
		errs = append(errs, ValidationError{
			Row:     row.Number,
			Field:   f,
			Message: fmt.Sprintf("الصف %d: %s", row.Number, msg),
		})
	}

	if row.Get(FieldCompanyName).IsMissing() {
		add(FieldCompanyName, "اسم الشركة مطلوب")
	}

	if !isPositiveAmount(row.Get(FieldBuyingAmount)) {
		add(FieldBuyingAmount, "سعر الشراء يجب أن يكون رقماً موجباً")
	}
	if !isPositiveAmount(row.Get(FieldSellingAmount)) {
		add(FieldSellingAmount, "سعر البيع يجب أن يكون رقماً موجباً")
	}

	if c := row.Get(FieldEtktDate); c.Truthy() {
		if _, ok := v.dates.Parse(c); !ok {
			add(FieldEtktDate, "تاريخ اصدار الفاتورة غير صحيح "+dateFormatHint)
		}
	}
	if c := row.Get(FieldOrderDate); c.Truthy() {
		if _, ok := v.dates.Parse(c); !ok {
			add(FieldOrderDate, "تاريخ انشاء امر التوريد غير صحيح "+dateFormatHint)
		}
	}

	if c := row.Get(FieldPaymentDuration); c.Truthy() {
		if n, ok := c.Int(); !ok || n < 0 {
			add(FieldPaymentDuration, "مدة الدفع يجب أن تكون رقماً موجباً")
		}
	}

	tokens := v.mapping.Tokens()
	for _, f := range []Field{FieldPaid, FieldDelivered} {
		c := row.Get(f)
		if !c.Truthy() {
			continue
		}
		if s := c.String(); s != tokens.Yes && s != tokens.No {
			add(f, fmt.Sprintf("حقل %q يجب أن يكون %q أو %q", v.mapping.Header(f), tokens.Yes, tokens.No))
		}
	}

	return errs
}

// Messages flattens errors into their display text.
func Messages(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

// ErrorSummary joins the messages of errs, one per line.
func ErrorSummary(errs []ValidationError) string {
	return strings.Join(Messages(errs), "\n")
}

func isPositiveAmount(c Cell) bool {
	if !c.Truthy() {
		return false
	}
	f, ok := c.Float()
	return ok && f > 0
}
