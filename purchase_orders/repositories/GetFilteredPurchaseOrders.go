package repositories

import (
	"strconv"
	"time"

	"purchase-orders-backend/db/models"
	"purchase-orders-backend/purchase_orders/services"

	"gorm.io/gorm"
)

// purchaseOrderQueryBuilder builds queries for purchase order filtering
type purchaseOrderQueryBuilder struct {
	query   *gorm.DB
	filters map[string]string
	today   time.Time
}

func newPurchaseOrderQueryBuilder(db *gorm.DB, filters map[string]string) *purchaseOrderQueryBuilder {
	return &purchaseOrderQueryBuilder{
		query:   db.Model(&models.PurchaseOrder{}),
		filters: filters,
		today:   time.Now(),
	}
}

func (qb *purchaseOrderQueryBuilder) applyFilters() *purchaseOrderQueryBuilder {
	return qb.applySearch().
		applyPaymentStatus().
		applyDeliveryStatus().
		applyBuyer().
		applyDateRange().
		applyProfitRange().
		applyAmountRange().
		applyGrn().
		applyImportRun()
}

func (qb *purchaseOrderQueryBuilder) applySearch() *purchaseOrderQueryBuilder {
	term, ok := qb.filters["search"]
	if !ok {
		return qb
	}
	like := "%" + term + "%"
	qb.query = qb.query.Where(
		"id ILIKE ? OR purchase_order_number ILIKE ? OR client_order_number ILIKE ? OR etkt_number ILIKE ? OR grn_number ILIKE ? OR notes ILIKE ? OR buyer IN (?)",
		like, like, like, like, like, like,
		qb.query.Session(&gorm.Session{NewDB: true}).Model(&models.Customer{}).Select("id").Where("name ILIKE ?", like),
	)
	return qb
}

func (qb *purchaseOrderQueryBuilder) applyPaymentStatus() *purchaseOrderQueryBuilder {
	today := services.DateOnly(qb.today)
	soon := today.AddDate(0, 0, services.DueSoonDays)

	switch services.PaymentStatus(qb.filters["payment_status"]) {
	case services.PaymentPaid:
		qb.query = qb.query.Where("is_paid = ?", true)
	case "unpaid":
		qb.query = qb.query.Where("is_paid = ?", false)
	case services.PaymentOverdue:
		qb.query = qb.query.Where("is_paid = ? AND etkt_date <> '' AND payment_due_date < ?", false, today)
	case services.PaymentDueSoon:
		qb.query = qb.query.Where("is_paid = ? AND etkt_date <> '' AND payment_due_date BETWEEN ? AND ?", false, today, soon)
	case services.PaymentUnknown:
		qb.query = qb.query.Where("is_paid = ? AND etkt_date <> '' AND payment_due_date IS NULL", false)
	case services.PaymentPending:
		qb.query = qb.query.Where("is_paid = ? AND (etkt_date = '' OR payment_due_date > ?)", false, soon)
	}
	return qb
}

func (qb *purchaseOrderQueryBuilder) applyDeliveryStatus() *purchaseOrderQueryBuilder {
	switch qb.filters["delivery_status"] {
	case "delivered":
		qb.query = qb.query.Where("is_delivered = ?", true)
	case "pending":
		qb.query = qb.query.Where("is_delivered = ?", false)
	}
	return qb
}

func (qb *purchaseOrderQueryBuilder) applyBuyer() *purchaseOrderQueryBuilder {
	if buyer, ok := qb.filters["buyer"]; ok {
		qb.query = qb.query.Where("buyer = ?", buyer)
	}
	return qb
}

func (qb *purchaseOrderQueryBuilder) applyDateRange() *purchaseOrderQueryBuilder {
	column := "order_date"
	if qb.filters["date_field"] == "etkt_date" {
		column = "etkt_date"
	}

	start, end, ok := services.ResolveDateRange(qb.filters["date_range"], qb.filters["date_from"], qb.filters["date_to"], qb.today)
	if !ok {
		return qb
	}
	qb.query = qb.query.Where(column+" <> '' AND "+column+" BETWEEN ? AND ?", start, end)
	return qb
}

func (qb *purchaseOrderQueryBuilder) applyProfitRange() *purchaseOrderQueryBuilder {
	const margin = "((selling_amount - buying_amount) / NULLIF(buying_amount, 0) * 100)"
	switch qb.filters["profit_range"] {
	case "profitable":
		qb.query = qb.query.Where("selling_amount - buying_amount > 0")
	case "loss":
		qb.query = qb.query.Where("selling_amount - buying_amount <= 0")
	case "high-margin":
		qb.query = qb.query.Where("selling_amount <> 0 AND "+margin+" >= ?", services.HighMarginPercent)
	case "low-margin":
		qb.query = qb.query.Where("selling_amount <> 0 AND "+margin+" > 0 AND "+margin+" < ?", services.HighMarginPercent)
	}
	return qb
}

func (qb *purchaseOrderQueryBuilder) applyAmountRange() *purchaseOrderQueryBuilder {
	switch qb.filters["amount_range"] {
	case "small":
		qb.query = qb.query.Where("selling_amount < ?", services.SmallAmountLimit)
	case "medium":
		qb.query = qb.query.Where("selling_amount >= ? AND selling_amount < ?", services.SmallAmountLimit, services.LargeAmountLimit)
	case "large":
		qb.query = qb.query.Where("selling_amount >= ?", services.LargeAmountLimit)
	case "custom":
		if lo, err := strconv.ParseFloat(qb.filters["amount_min"], 64); err == nil {
			qb.query = qb.query.Where("selling_amount >= ?", lo)
		}
		if hi, err := strconv.ParseFloat(qb.filters["amount_max"], 64); err == nil && hi > 0 {
			qb.query = qb.query.Where("selling_amount <= ?", hi)
		}
	}
	return qb
}

func (qb *purchaseOrderQueryBuilder) applyGrn() *purchaseOrderQueryBuilder {
	switch qb.filters["has_grn"] {
	case "yes":
		qb.query = qb.query.Where("has_grn = ?", true)
	case "no":
		qb.query = qb.query.Where("has_grn = ?", false)
	}
	return qb
}

func (qb *purchaseOrderQueryBuilder) applyImportRun() *purchaseOrderQueryBuilder {
	if runID, ok := qb.filters["import_run_id"]; ok {
		qb.query = qb.query.Where("import_run_id = ?", runID)
	}
	return qb
}

func (qb *purchaseOrderQueryBuilder) applyLatestOrder() *purchaseOrderQueryBuilder {
	qb.query = qb.query.Order("order_date DESC").Order("created_at DESC")
	return qb
}

func (qb *purchaseOrderQueryBuilder) Limit(limit int) *purchaseOrderQueryBuilder {
	qb.query = qb.query.Limit(limit)
	return qb
}

func (qb *purchaseOrderQueryBuilder) Offset(offset int) *purchaseOrderQueryBuilder {
	qb.query = qb.query.Offset(offset)
	return qb
}
