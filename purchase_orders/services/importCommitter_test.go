package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"purchase-orders-backend/db/models"

	"github.com/google/uuid"
)

type countingRecorder struct{ committed, failed, skipped int }

func (c *countingRecorder) RowCommitted() { c.committed++ }
func (c *countingRecorder) RowFailed()    { c.failed++ }
func (c *countingRecorder) RowSkipped()   { c.skipped++ }

type recordingIndexer struct {
	buyers []string
	err    error
}

func (i *recordingIndexer) IndexPurchaseOrder(order *models.PurchaseOrder, buyerName string) error {
	i.buyers = append(i.buyers, buyerName)
	return i.err
}

func TestCommitContinuesPastFailedRow(t *testing.T) {
	m := DefaultColumnMapping()
	customers := &memCustomerStore{}
	orders := &memOrderStore{failOn: "CO-4"}
	recorder := &countingRecorder{}
	indexer := &recordingIndexer{err: errors.New("index closed")}

	c := NewImportCommitter(m, testDates(), customers, orders, CommitHooks{Indexer: indexer, Recorder: recorder})
	outcome := c.Commit(context.Background(), orderRaws(m, 10), CommitOptions{CreatedBy: "ops@example.com"})

	if outcome.Total != 10 || outcome.Success != 9 || outcome.Errors != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if len(outcome.ErrorDetails) != 1 || !strings.HasPrefix(outcome.ErrorDetails[0], "الصف 6:") {
		t.Errorf("ErrorDetails = %v", outcome.ErrorDetails)
	}
	if orders.attempts != 10 || len(orders.orders) != 9 {
		t.Errorf("attempts = %d, stored = %d", orders.attempts, len(orders.orders))
	}
	if customers.creates != 1 || outcome.CustomersCreated != 1 {
		t.Errorf("customers created = %d / %d", customers.creates, outcome.CustomersCreated)
	}
	if recorder.committed != 9 || recorder.failed != 1 {
		t.Errorf("recorder = %+v", recorder)
	}
	if len(indexer.buyers) != 9 {
		t.Errorf("indexed %d orders, want 9", len(indexer.buyers))
	}
}

func TestCommitSkipsRowsWithoutCompany(t *testing.T) {
	m := DefaultColumnMapping()
	raws := orderRaws(m, 3)
	delete(raws[1], m.Header(FieldCompanyName))
	orders := &memOrderStore{}
	recorder := &countingRecorder{}

	outcome := NewImportCommitter(m, testDates(), &memCustomerStore{}, orders, CommitHooks{Recorder: recorder}).
		Commit(context.Background(), raws, CommitOptions{})

	if outcome.Total != 3 || outcome.Success != 2 || outcome.Skipped != 1 || outcome.Errors != 0 {
		t.Errorf("outcome = %+v", outcome)
	}
	if orders.attempts != 2 || recorder.skipped != 1 {
		t.Errorf("attempts = %d, skipped = %d", orders.attempts, recorder.skipped)
	}
}

func TestBuildOrderDefaults(t *testing.T) {
	m := DefaultColumnMapping()
	runID := uuid.New()
	c := NewImportCommitter(m, testDates(), nil, nil, CommitHooks{})

	raw := orderRaw(m, 1)
	raw[m.Header(FieldEtktDate)] = TextCell("15-01-2024")
	raw[m.Header(FieldPaid)] = TextCell(m.Tokens().Yes)
	order := c.BuildOrder(m.Adapt(0, raw), "Cus-1", CommitOptions{CreatedBy: "ops@example.com", ImportRunID: &runID})

	if order.Buyer != "Cus-1" || order.ClientOrderNumber != "CO-1" {
		t.Errorf("buyer %q client order %q", order.Buyer, order.ClientOrderNumber)
	}
	if order.OrderDate != "2024-03-01" || order.EtktDate != "2024-01-15" {
		t.Errorf("dates %q %q", order.OrderDate, order.EtktDate)
	}
	if order.PaymentDuration != DefaultPaymentDuration || order.PaymentDueDate != nil {
		t.Errorf("duration %d due %v", order.PaymentDuration, order.PaymentDueDate)
	}
	if !order.IsPaid || order.IsDelivered || order.HasGrn {
		t.Errorf("flags paid=%v delivered=%v grn=%v", order.IsPaid, order.IsDelivered, order.HasGrn)
	}
	if order.AddedVia != models.AddedViaBulkImport || order.ImportRunID == nil || *order.ImportRunID != runID {
		t.Errorf("added via %s run %v", order.AddedVia, order.ImportRunID)
	}
	if order.BuyingAmount.String() != "100" || order.SellingAmount.String() != "125" {
		t.Errorf("amounts %s %s", order.BuyingAmount, order.SellingAmount)
	}
	if order.PurchaseOrderNumber != PurchaseOrderNumber(fixedNow.UnixMilli()) || !strings.HasPrefix(order.PurchaseOrderNumber, "PO-") {
		t.Errorf("number %q", order.PurchaseOrderNumber)
	}
}

func TestPurchaseOrderNumberKeepsLastEightDigits(t *testing.T) {
	if got := PurchaseOrderNumber(1709285400123); got != "PO-85400123" {
		t.Errorf("got %s", got)
	}
	if got := PurchaseOrderNumber(42); got != "PO-42" {
		t.Errorf("got %s", got)
	}
}

func TestCommitSkipsZeroCompany(t *testing.T) {
	m := DefaultColumnMapping()
	raws := orderRaws(m, 2)
	raws[0][m.Header(FieldCompanyName)] = NumberCell(0)
	customers := &memCustomerStore{}
	orders := &memOrderStore{}

	outcome := NewImportCommitter(m, testDates(), customers, orders, CommitHooks{}).
		Commit(context.Background(), raws, CommitOptions{})

	if outcome.Success != 1 || outcome.Skipped != 1 || outcome.Errors != 0 {
		t.Errorf("outcome = %+v", outcome)
	}
	if customers.creates != 1 || customers.customers[0].Name != "Acme" {
		t.Errorf("customers = %+v", customers.customers)
	}
}

func TestBuildOrderKeepsSubCentAmounts(t *testing.T) {
	m := DefaultColumnMapping()
	raw := orderRaw(m, 1)
	raw[m.Header(FieldBuyingAmount)] = NumberCell(0.004)
	raw[m.Header(FieldSellingAmount)] = TextCell("12.3456")

	row := m.Adapt(0, raw)
	if errs := NewRowValidator(m, testDates()).ValidateRow(row); len(errs) != 0 {
		t.Fatalf("errors = %v", Messages(errs))
	}
	order := NewImportCommitter(m, testDates(), nil, nil, CommitHooks{}).BuildOrder(row, "Cus-1", CommitOptions{})
	if order.BuyingAmount.String() != "0.004" || order.SellingAmount.String() != "12.3456" {
		t.Errorf("amounts %s %s", order.BuyingAmount, order.SellingAmount)
	}
}
