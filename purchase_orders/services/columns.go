package services

import "strings"

// Field is a canonical purchase order import column.
type Field string

const (
	FieldClientOrderNumber Field = "client_order_number"
	FieldCompanyName       Field = "company_name"
	FieldDescription       Field = "order_description"
	FieldBuyingAmount      Field = "buying_amount"
	FieldSellingAmount     Field = "selling_amount"
	FieldEtktNumber        Field = "etkt_number"
	FieldEtktDate          Field = "etkt_date"
	FieldGrnNumber         Field = "grn_number"
	FieldPaid              Field = "paid"
	FieldDelivered         Field = "delivered"
	FieldPaymentDuration   Field = "payment_duration"
	FieldOrderDate         Field = "order_date"
	FieldNotes             Field = "notes"
	FieldNotes2            Field = "notes2"
)

// Fields lists every canonical field in template column order.
var Fields = []Field{
	FieldClientOrderNumber,
	FieldCompanyName,
	FieldDescription,
	FieldBuyingAmount,
	FieldSellingAmount,
	FieldEtktNumber,
	FieldEtktDate,
	FieldGrnNumber,
	FieldPaid,
	FieldDelivered,
	FieldPaymentDuration,
	FieldOrderDate,
	FieldNotes,
	FieldNotes2,
}

// Tokens are the locale literals used in flag columns and as display defaults.
type Tokens struct {
	Yes         string
	No          string
	Unspecified string
}

// RawRow is a parsed spreadsheet row keyed by header text.
type RawRow map[string]Cell

// ImportRow is a RawRow resolved against a ColumnMapping.
type ImportRow struct {
	// Number is the 1-based spreadsheet row, counting the header as row 1.
	Number int
	Cells  map[Field]Cell
}

// Get returns the cell for f, or an empty cell.
func (r ImportRow) Get(f Field) Cell {
	if c, ok := r.Cells[f]; ok {
		return c
	}
	return EmptyCell()
}

// ColumnMapping binds canonical fields to the localized header names of an
// import file. It is read-only after construction.
type ColumnMapping struct {
	headers map[Field]string
	tokens  Tokens
}

func NewColumnMapping(headers map[Field]string, tokens Tokens) ColumnMapping {
	h := make(map[Field]string, len(headers))
	for f, name := range headers {
		h[f] = strings.TrimSpace(name)
	}
	return ColumnMapping{headers: h, tokens: tokens}
}

// DefaultColumnMapping is the Arabic template used by the back office.
func DefaultColumnMapping() ColumnMapping {
	return NewColumnMapping(map[Field]string{
		FieldClientOrderNumber: "رقم امر توريد العميل",
		FieldCompanyName:       "اسم الشركة",
		FieldDescription:       "وصف الطلبية",
		FieldBuyingAmount:      "سعر الشراء بدون الضريبة",
		FieldSellingAmount:     "سعر البيع بدون الضريبة",
		FieldEtktNumber:        "رقم الفاتورة الالكترونية",
		FieldEtktDate:          "تاريخ اصدار الفاتورة الالكترونية",
		FieldGrnNumber:         "رقم GRN",
		FieldPaid:              "تم الدفع",
		FieldDelivered:         "تم التوصيل",
		FieldPaymentDuration:   "مدة الدفع ب اليوم",
		FieldOrderDate:         "تاريخ انشاء امر التوريد",
		FieldNotes:             "ملاحظات",
		FieldNotes2:            "ملاحظات اخري",
	}, Tokens{Yes: "نعم", No: "لا", Unspecified: "غير محدد"})
}

func (m ColumnMapping) Header(f Field) string { return m.headers[f] }
func (m ColumnMapping) Tokens() Tokens        { return m.tokens }

// Headers returns the header row in template column order.
func (m ColumnMapping) Headers() []string {
	out := make([]string, 0, len(Fields))
	for _, f := range Fields {
		out = append(out, m.headers[f])
	}
	return out
}

// Adapt resolves a raw row found at the given zero-based data index.
func (m ColumnMapping) Adapt(index int, raw RawRow) ImportRow {
	row := ImportRow{Number: index + 2, Cells: make(map[Field]Cell, len(m.headers))}
	for f, name := range m.headers {
		if c, ok := raw[name]; ok {
			row.Cells[f] = c
		}
	}
	return row
}

// AdaptAll resolves every raw row in order.
func (m ColumnMapping) AdaptAll(raws []RawRow) []ImportRow {
	rows := make([]ImportRow, len(raws))
	for i, raw := range raws {
		rows[i] = m.Adapt(i, raw)
	}
	return rows
}
