package services

import (
	"testing"
	"time"

	"purchase-orders-backend/db/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func dueOn(y int, m time.Month, d int) *datatypes.Date {
	due := datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &due
}

func TestPaymentStatusOf(t *testing.T) {
	today := time.Date(2024, time.March, 1, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		order models.PurchaseOrder
		want  PaymentStatus
	}{
		{"paid", models.PurchaseOrder{IsPaid: true, EtktDate: "2024-01-01", PaymentDueDate: dueOn(2024, 1, 31)}, PaymentPaid},
		{"no invoice", models.PurchaseOrder{}, PaymentPending},
		{"no due date", models.PurchaseOrder{EtktDate: "2024-01-01"}, PaymentUnknown},
		{"overdue", models.PurchaseOrder{EtktDate: "2024-01-01", PaymentDueDate: dueOn(2024, 2, 29)}, PaymentOverdue},
		{"due today", models.PurchaseOrder{EtktDate: "2024-01-01", PaymentDueDate: dueOn(2024, 3, 1)}, PaymentDueSoon},
		{"due in three days", models.PurchaseOrder{EtktDate: "2024-01-01", PaymentDueDate: dueOn(2024, 3, 4)}, PaymentDueSoon},
		{"due later", models.PurchaseOrder{EtktDate: "2024-01-01", PaymentDueDate: dueOn(2024, 3, 5)}, PaymentPending},
	}
	for _, tc := range cases {
		if got := PaymentStatusOf(tc.order, today); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestProfitMargin(t *testing.T) {
	got := ProfitMargin(decimal.NewFromInt(150), decimal.NewFromInt(120))
	if !got.Equal(decimal.NewFromInt(25)) {
		t.Errorf("margin = %s, want 25", got)
	}
	if !ProfitMargin(decimal.NewFromInt(150), decimal.Zero).IsZero() {
		t.Error("zero buying amount should give zero margin")
	}
}

func TestSummarize(t *testing.T) {
	today := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.PurchaseOrder{
		{BuyingAmount: decimal.NewFromInt(100), SellingAmount: decimal.NewFromInt(150), IsPaid: true, IsDelivered: true, HasGrn: true},
		{BuyingAmount: decimal.NewFromInt(200), SellingAmount: decimal.NewFromInt(220), EtktDate: "2024-01-01", PaymentDueDate: dueOn(2024, 2, 1)},
		{BuyingAmount: decimal.NewFromInt(50), SellingAmount: decimal.NewFromInt(50), EtktDate: "2024-01-01"},
	}

	s := Summarize(orders, today)
	if s.TotalOrders != 3 || s.PaidOrders != 1 || s.DeliveredOrders != 1 || s.WithGrnOrders != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.OverdueOrders != 1 || s.UnknownOrders != 1 || s.DueSoonOrders != 0 {
		t.Errorf("payment counts = %+v", s)
	}
	if !s.TotalProfit.Equal(decimal.NewFromInt(70)) {
		t.Errorf("profit = %s", s.TotalProfit)
	}
	// (50 + 10 + 0) / 3
	if !s.AverageMargin.Equal(decimal.NewFromInt(20)) {
		t.Errorf("average margin = %s", s.AverageMargin)
	}

	if empty := Summarize(nil, today); empty.TotalOrders != 0 || !empty.AverageMargin.IsZero() {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestResolveDateRange(t *testing.T) {
	today := time.Date(2024, time.March, 31, 18, 0, 0, 0, time.UTC)
	cases := []struct {
		name, from, to string
		start, end     string
		ok             bool
	}{
		{"today", "", "", "2024-03-31", "2024-03-31", true},
		{"yesterday", "", "", "2024-03-30", "2024-03-30", true},
		{"last-week", "", "", "2024-03-24", "2024-03-31", true},
		{"last-3-months", "", "", "2023-12-31", "2024-03-31", true},
		{"custom", "2024-01-01", "2024-01-31", "2024-01-01", "2024-01-31", true},
		{"custom", "2024-01-01", "", "", "", false},
		{"all", "", "", "", "", false},
	}
	for _, tc := range cases {
		start, end, ok := ResolveDateRange(tc.name, tc.from, tc.to, today)
		if start != tc.start || end != tc.end || ok != tc.ok {
			t.Errorf("%s: got %s..%s %v", tc.name, start, end, ok)
		}
	}
}
