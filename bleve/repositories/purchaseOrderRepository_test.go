package repositories

import (
	"context"
	"testing"

	bleveindex "purchase-orders-backend/bleve/services"
	"purchase-orders-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newMemRepository(t *testing.T) *BleveRepository {
	t.Helper()
	indexer := bleveindex.NewIndexingService(zap.NewNop(), "")
	t.Cleanup(func() { indexer.Close() })
	return NewBleveRepository(indexer)
}

func TestSearchPurchaseOrders(t *testing.T) {
	repo := newMemRepository(t)
	runID := uuid.New()

	imported := &models.PurchaseOrder{
		ID:                  "po-1",
		PurchaseOrderNumber: "PO-00000001",
		ClientOrderNumber:   "CLIENT-001",
		EtktNumber:          "ETKT-12345",
		Buyer:               "Cus-1",
		IsPaid:              true,
		AddedVia:            models.AddedViaBulkImport,
		ImportRunID:         &runID,
	}
	manual := &models.PurchaseOrder{
		ID:                "po-2",
		ClientOrderNumber: "CLIENT-002",
		Buyer:             "Cus-2",
		AddedVia:          models.AddedViaManual,
	}
	if err := repo.IndexPurchaseOrder(imported, "Acme Trading"); err != nil {
		t.Fatal(err)
	}
	if err := repo.IndexExistingPurchaseOrders([]models.PurchaseOrder{*manual}, map[string]string{"Cus-2": "Beta Supplies"}); err != nil {
		t.Fatal(err)
	}

	res, err := repo.SearchPurchaseOrders(PurchaseOrderSearch{Query: "acme"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Hits[0].ID != "po-1" {
		t.Errorf("acme hits = %d", res.Total)
	}

	res, err = repo.SearchPurchaseOrders(PurchaseOrderSearch{ImportRunID: runID.String()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Hits[0].ID != "po-1" {
		t.Errorf("run hits = %d", res.Total)
	}

	unpaid := false
	res, err = repo.SearchPurchaseOrders(PurchaseOrderSearch{Paid: &unpaid, AddedVia: string(models.AddedViaManual)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 || res.Hits[0].ID != "po-2" {
		t.Errorf("unpaid manual hits = %d", res.Total)
	}
	if res.Hits[0].Fields["buyer_name"] != "Beta Supplies" {
		t.Errorf("fields = %v", res.Hits[0].Fields)
	}

	if err := repo.DeletePurchaseOrder("po-1"); err != nil {
		t.Fatal(err)
	}
	res, err = repo.SearchPurchaseOrders(PurchaseOrderSearch{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("after delete total = %d", res.Total)
	}

	if err := repo.DeleteAllIndices(context.Background()); err != nil {
		t.Fatal(err)
	}
	res, err = repo.SearchPurchaseOrders(PurchaseOrderSearch{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 0 {
		t.Errorf("after reset total = %d", res.Total)
	}
}
