package services

import (
	"time"

	"purchase-orders-backend/db/models"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentUnknown PaymentStatus = "unknown"
	PaymentOverdue PaymentStatus = "overdue"
	PaymentDueSoon PaymentStatus = "due-soon"
)

// DueSoonDays is how close to its due date an unpaid order counts as due soon.
const DueSoonDays = 3

// HighMarginPercent separates high margin orders from low margin ones.
const HighMarginPercent = 25

// Amount range bounds on the selling amount.
var (
	SmallAmountLimit = decimal.NewFromInt(10000)
	LargeAmountLimit = decimal.NewFromInt(50000)
)

// PaymentStatusOf classifies an order relative to today.
func PaymentStatusOf(order models.PurchaseOrder, today time.Time) PaymentStatus {
	if order.IsPaid {
		return PaymentPaid
	}
	if order.EtktDate == "" {
		return PaymentPending
	}
	if order.PaymentDueDate == nil {
		return PaymentUnknown
	}
	days := DaysBetween(DateOnly(today), DateOnly(time.Time(*order.PaymentDueDate)))
	switch {
	case days < 0:
		return PaymentOverdue
	case days <= DueSoonDays:
		return PaymentDueSoon
	default:
		return PaymentPending
	}
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ProfitMargin is profit as a percentage of the buying amount. It is zero when
// either amount is zero.
func ProfitMargin(selling, buying decimal.Decimal) decimal.Decimal {
	if selling.IsZero() || buying.IsZero() {
		return decimal.Zero
	}
	return selling.Sub(buying).Div(buying).Mul(decimal.NewFromInt(100))
}

// Summary aggregates a filtered set of purchase orders.
type Summary struct {
	TotalOrders        int             `json:"total_orders"`
	TotalBuyingAmount  decimal.Decimal `json:"total_buying_amount"`
	TotalSellingAmount decimal.Decimal `json:"total_selling_amount"`
	TotalProfit        decimal.Decimal `json:"total_profit"`
	AverageMargin      decimal.Decimal `json:"average_margin"`
	PaidOrders         int             `json:"paid_orders"`
	DeliveredOrders    int             `json:"delivered_orders"`
	OverdueOrders      int             `json:"overdue_orders"`
	DueSoonOrders      int             `json:"due_soon_orders"`
	UnknownOrders      int             `json:"unknown_orders"`
	WithGrnOrders      int             `json:"with_grn_orders"`
}

// Summarize computes totals and status counts over orders.
func Summarize(orders []models.PurchaseOrder, today time.Time) Summary {
	s := Summary{
		TotalOrders:        len(orders),
		TotalBuyingAmount:  decimal.Zero,
		TotalSellingAmount: decimal.Zero,
		TotalProfit:        decimal.Zero,
		AverageMargin:      decimal.Zero,
	}
	marginSum := decimal.Zero
	for _, o := range orders {
		s.TotalBuyingAmount = s.TotalBuyingAmount.Add(o.BuyingAmount)
		s.TotalSellingAmount = s.TotalSellingAmount.Add(o.SellingAmount)
		marginSum = marginSum.Add(ProfitMargin(o.SellingAmount, o.BuyingAmount))
		if o.IsDelivered {
			s.DeliveredOrders++
		}
		if o.HasGrn {
			s.WithGrnOrders++
		}
		switch PaymentStatusOf(o, today) {
		case PaymentPaid:
			s.PaidOrders++
		case PaymentOverdue:
			s.OverdueOrders++
		case PaymentDueSoon:
			s.DueSoonOrders++
		case PaymentUnknown:
			s.UnknownOrders++
		}
	}
	s.TotalProfit = s.TotalSellingAmount.Sub(s.TotalBuyingAmount)
	if len(orders) > 0 {
		s.AverageMargin = marginSum.Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
	}
	return s
}

// ResolveDateRange turns a named range into inclusive YYYY-MM-DD bounds. ok is
// false for "all", unknown names and incomplete custom ranges.
func ResolveDateRange(name, from, to string, today time.Time) (start, end string, ok bool) {
	today = DateOnly(today)
	day := func(t time.Time) string { return t.Format(dateLayout) }

	switch name {
	case "today":
		return day(today), day(today), true
	case "yesterday":
		y := today.AddDate(0, 0, -1)
		return day(y), day(y), true
	case "last-week":
		return day(today.AddDate(0, 0, -7)), day(today), true
	case "last-month":
		return day(today.AddDate(0, -1, 0)), day(today), true
	case "last-3-months":
		return day(today.AddDate(0, -3, 0)), day(today), true
	case "custom":
		if from == "" || to == "" {
			return "", "", false
		}
		return from, to, true
	}
	return "", "", false
}
