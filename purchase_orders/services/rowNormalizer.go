package services

import (
	"purchase-orders-backend/utils"

	"github.com/google/uuid"
)

// PreviewLimit caps how many rows are shown for review before commit.
const PreviewLimit = 100

// PreviewRecord is the display-only shape of an import row. It is never persisted.
type PreviewRecord struct {
	ID                string            `json:"id"`
	Row               int               `json:"row"`
	Buyer             string            `json:"buyer"`
	ClientOrderNumber string            `json:"client_order_number"`
	EtktNumber        string            `json:"etkt_number"`
	BuyingAmount      float64           `json:"buying_amount"`
	SellingAmount     float64           `json:"selling_amount"`
	IsPaid            bool              `json:"is_paid"`
	IsDelivered       bool              `json:"is_delivered"`
	HasGrn            bool              `json:"has_grn"`
	GrnNumber         string            `json:"grn_number"`
	OrderDescription  string            `json:"order_description"`
	OrderDate         string            `json:"order_date"`
	EtktDate          *string           `json:"etkt_date"`
	PaymentDuration   *int              `json:"payment_duration"`
	PaymentDueDate    *utils.DateOnly   `json:"payment_due_date"`
	Notes             string            `json:"notes"`
	Notes2            string            `json:"notes2"`
	Raw               map[string]string `json:"raw,omitempty"`
}

// RowNormalizer maps import rows to preview records. It only applies defaults and never fails.
type RowNormalizer struct {
	mapping ColumnMapping
	dates   *DateNormalizer
	newID   func() string
}

func NewRowNormalizer(mapping ColumnMapping, dates *DateNormalizer) *RowNormalizer {
	return &RowNormalizer{mapping: mapping, dates: dates, newID: func() string { return uuid.NewString() }}
}

// ToPreview derives the preview record for one row.
func (n *RowNormalizer) ToPreview(row ImportRow) PreviewRecord {
	tokens := n.mapping.Tokens()
	grn := row.Get(FieldGrnNumber)

	rec := PreviewRecord{
		ID:                n.newID(),
		Row:               row.Number,
		Buyer:             row.Get(FieldCompanyName).StringOr(tokens.Unspecified),
		ClientOrderNumber: row.Get(FieldClientOrderNumber).StringOr(tokens.Unspecified),
		EtktNumber:        row.Get(FieldEtktNumber).StringOr(tokens.Unspecified),
		BuyingAmount:      row.Get(FieldBuyingAmount).FloatOr(0),
		SellingAmount:     row.Get(FieldSellingAmount).FloatOr(0),
		IsPaid:            row.Get(FieldPaid).String() == tokens.Yes,
		IsDelivered:       row.Get(FieldDelivered).String() == tokens.Yes,
		HasGrn:            grn.Truthy(),
		GrnNumber:         grn.StringOr(""),
		OrderDescription:  row.Get(FieldDescription).String(),
		Notes:             row.Get(FieldNotes).StringOr(""),
		Notes2:            row.Get(FieldNotes2).StringOr(""),
		Raw:               n.raw(row),
	}

	if t, ok := n.dates.Parse(row.Get(FieldOrderDate)); ok {
		rec.OrderDate = n.dates.Format(t)
	} else {
		rec.OrderDate = n.dates.Format(n.dates.Today())
	}

	etkt, hasEtkt := n.dates.Parse(row.Get(FieldEtktDate))
	if hasEtkt {
		s := n.dates.Format(etkt)
		rec.EtktDate = &s
	}

	days, hasDays := row.Get(FieldPaymentDuration).Int()
	if hasDays && days != 0 {
		d := days
		rec.PaymentDuration = &d
	}
	if hasEtkt && hasDays && days != 0 {
		due := utils.DateOnly(DueDate(etkt, days))
		rec.PaymentDueDate = &due
	}

	return rec
}

// PreviewRows derives preview records for at most PreviewLimit rows.
func (n *RowNormalizer) PreviewRows(rows []ImportRow) []PreviewRecord {
	capped := CapPreview(rows)
	out := make([]PreviewRecord, len(capped))
	for i, row := range capped {
		out[i] = n.ToPreview(row)
	}
	return out
}

// CapPreview returns the first PreviewLimit rows.
func CapPreview(rows []ImportRow) []ImportRow {
	if len(rows) > PreviewLimit {
		return rows[:PreviewLimit]
	}
	return rows
}

func (n *RowNormalizer) raw(row ImportRow) map[string]string {
	out := make(map[string]string, len(row.Cells))
	for f, c := range row.Cells {
		out[n.mapping.Header(f)] = c.String()
	}
	return out
}
