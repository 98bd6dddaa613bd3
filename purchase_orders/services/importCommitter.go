package services

import (
	"context"
	"fmt"
	"strconv"

	"purchase-orders-backend/config"
	"purchase-orders-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// DefaultPaymentDuration is stored when a committed row gives no payment duration.
const DefaultPaymentDuration = 30

// PurchaseOrderStore persists purchase orders with create-only semantics.
type PurchaseOrderStore interface {
	CreatePurchaseOrder(ctx context.Context, order *models.PurchaseOrder) error
}

// OrderIndexer makes a committed order searchable.
type OrderIndexer interface {
	IndexPurchaseOrder(order *models.PurchaseOrder, buyerName string) error
}

// OrderPublisher announces a committed order to other systems.
type OrderPublisher interface {
	PublishOrderImported(ctx context.Context, order *models.PurchaseOrder, buyerName string) error
}

// RowRecorder counts row outcomes.
type RowRecorder interface {
	RowCommitted()
	RowFailed()
	RowSkipped()
}

// CommitHooks run after a row has been persisted. They are optional and their
// failures are logged without affecting the row outcome.
type CommitHooks struct {
	Indexer   OrderIndexer
	Publisher OrderPublisher
	Recorder  RowRecorder
}

// CommitOptions annotate every order written by one commit.
type CommitOptions struct {
	CreatedBy   string
	ImportRunID *uuid.UUID
}

// ImportOutcome summarises one commit. Total counts every parsed row, including skipped ones.
type ImportOutcome struct {
	Total        int      `json:"total"`
	Success      int      `json:"success"`
	Errors       int      `json:"errors"`
	Skipped      int      `json:"skipped"`
	ErrorDetails []string `json:"error_details"`
	// CustomersCreated is the number of new customers the run created.
	CustomersCreated int `json:"customers_created"`
}

// ImportCommitter writes one purchase order per usable row.
type ImportCommitter struct {
	mapping   ColumnMapping
	dates     *DateNormalizer
	customers CustomerStore
	orders    PurchaseOrderStore
	hooks     CommitHooks
	newID     func() string
}

func NewImportCommitter(mapping ColumnMapping, dates *DateNormalizer, customers CustomerStore, orders PurchaseOrderStore, hooks CommitHooks) *ImportCommitter {
	return &ImportCommitter{
		mapping:   mapping,
		dates:     dates,
		customers: customers,
		orders:    orders,
		hooks:     hooks,
		newID:     func() string { return uuid.NewString() },
	}
}

// Commit processes rows strictly in order. A failing row is recorded and the
// loop moves on; rows already written are never rolled back.
func (c *ImportCommitter) Commit(ctx context.Context, raws []RawRow, opts CommitOptions) ImportOutcome {
	outcome := ImportOutcome{Total: len(raws), ErrorDetails: []string{}}
	resolver := NewCustomerResolver(c.customers)

	for i, raw := range raws {
		row := c.mapping.Adapt(i, raw)
		company := row.Get(FieldCompanyName)
		if company.IsMissing() {
			outcome.Skipped++
			c.recordSkipped()
			continue
		}

		order, err := c.commitRow(ctx, resolver, row, opts)
		if err != nil {
			outcome.Errors++
			outcome.ErrorDetails = append(outcome.ErrorDetails, fmt.Sprintf("الصف %d: %v", row.Number, err))
			c.recordFailed()
			config.Logger.Warn("Purchase order import row failed",
				zap.Int("row", row.Number),
				zap.Error(err),
			)
			continue
		}

		outcome.Success++
		c.recordCommitted()
		c.afterCommit(ctx, order, company.Trimmed())
	}

	outcome.CustomersCreated = resolver.Created()
	config.Logger.Info("Purchase order import committed",
		zap.Int("total", outcome.Total),
		zap.Int("success", outcome.Success),
		zap.Int("errors", outcome.Errors),
		zap.Int("skipped", outcome.Skipped),
	)
	return outcome
}

func (c *ImportCommitter) commitRow(ctx context.Context, resolver *CustomerResolver, row ImportRow, opts CommitOptions) (*models.PurchaseOrder, error) {
	buyerID, err := resolver.Resolve(ctx, row.Get(FieldCompanyName).String())
	if err != nil {
		return nil, err
	}

	order := c.BuildOrder(row, buyerID, opts)
	if err := c.orders.CreatePurchaseOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// BuildOrder maps a row to the persisted purchase order. Defaults here are
// looser than the preview's: missing text becomes "" and a missing payment
// duration becomes DefaultPaymentDuration.
func (c *ImportCommitter) BuildOrder(row ImportRow, buyerID string, opts CommitOptions) *models.PurchaseOrder {
	tokens := c.mapping.Tokens()
	grn := row.Get(FieldGrnNumber)
	now := c.dates.Now()

	order := &models.PurchaseOrder{
		ID:                  c.newID(),
		PurchaseOrderNumber: PurchaseOrderNumber(now.UnixMilli()),
		ClientOrderNumber:   row.Get(FieldClientOrderNumber).StringOr(""),
		EtktNumber:          row.Get(FieldEtktNumber).StringOr(""),
		EtktDate:            c.dates.FormatCell(row.Get(FieldEtktDate)),
		Buyer:               buyerID,
		BuyingAmount:        decimal.NewFromFloat(row.Get(FieldBuyingAmount).FloatOr(0)),
		SellingAmount:       decimal.NewFromFloat(row.Get(FieldSellingAmount).FloatOr(0)),
		OrderDescription:    row.Get(FieldDescription).String(),
		OrderDate:           c.dates.FormatCell(row.Get(FieldOrderDate)),
		HasGrn:              grn.Truthy(),
		GrnNumber:           grn.StringOr(""),
		IsPaid:              row.Get(FieldPaid).String() == tokens.Yes,
		IsDelivered:         row.Get(FieldDelivered).String() == tokens.Yes,
		PaymentDuration:     row.Get(FieldPaymentDuration).IntOr(DefaultPaymentDuration),
		Notes:               row.Get(FieldNotes).StringOr(""),
		Notes2:              row.Get(FieldNotes2).StringOr(""),
		Comments:            datatypes.JSON(`[]`),
		CustomDocuments:     datatypes.JSON(`[]`),
		Items:               datatypes.JSON(`[]`),
		AddedVia:            models.AddedViaBulkImport,
		ImportRunID:         opts.ImportRunID,
		CreatedBy:           opts.CreatedBy,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if order.OrderDate == "" {
		order.OrderDate = c.dates.Format(c.dates.Today())
	}

	// The due date uses the duration as written, without the default.
	if etkt, ok := c.dates.Parse(row.Get(FieldEtktDate)); ok {
		if days, ok := row.Get(FieldPaymentDuration).Int(); ok && days != 0 {
			due := datatypes.Date(DueDate(etkt, days))
			order.PaymentDueDate = &due
		}
	}
	return order
}

// PurchaseOrderNumber renders "PO-" followed by the last eight digits of ms.
func PurchaseOrderNumber(ms int64) string {
	s := strconv.FormatInt(ms, 10)
	if len(s) > 8 {
		s = s[len(s)-8:]
	}
	return "PO-" + s
}

func (c *ImportCommitter) afterCommit(ctx context.Context, order *models.PurchaseOrder, buyerName string) {
	if c.hooks.Indexer != nil {
		if err := c.hooks.Indexer.IndexPurchaseOrder(order, buyerName); err != nil {
			config.Logger.Error("Failed to index imported purchase order",
				zap.String("purchase_order_id", order.ID),
				zap.Error(err),
			)
		}
	}
	if c.hooks.Publisher != nil {
		if err := c.hooks.Publisher.PublishOrderImported(ctx, order, buyerName); err != nil {
			config.Logger.Error("Failed to publish imported purchase order",
				zap.String("purchase_order_id", order.ID),
				zap.Error(err),
			)
		}
	}
}

func (c *ImportCommitter) recordCommitted() {
	if c.hooks.Recorder != nil {
		c.hooks.Recorder.RowCommitted()
	}
}

func (c *ImportCommitter) recordFailed() {
	if c.hooks.Recorder != nil {
		c.hooks.Recorder.RowFailed()
	}
}

func (c *ImportCommitter) recordSkipped() {
	if c.hooks.Recorder != nil {
		c.hooks.Recorder.RowSkipped()
	}
}
