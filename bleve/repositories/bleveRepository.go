package repositories

import (
	"context"
	bleveindex "purchase-orders-backend/bleve/services"
	"purchase-orders-backend/db/models"

	"github.com/blevesearch/bleve/v2"
)

type BleveRepository struct {
	indexer bleveindex.IndexingServiceInterface
}

type BleveRepositoryInterface interface {
	DeleteAllIndices(ctx context.Context) error

	IndexPurchaseOrder(order *models.PurchaseOrder, buyerName string) error
	IndexExistingPurchaseOrders(orders []models.PurchaseOrder, buyerNames map[string]string) error
	DeletePurchaseOrder(id string) error
	SearchPurchaseOrders(search PurchaseOrderSearch) (*bleve.SearchResult, error)
}

// NewBleveRepository registers the purchase order mapping on indexer.
func NewBleveRepository(indexer *bleveindex.IndexingService) *BleveRepository {
	indexer.RegisterMapping(PurchaseOrdersIndex, purchaseOrderMapping())
	return &BleveRepository{indexer: indexer}
}

func (r *BleveRepository) DeleteAllIndices(ctx context.Context) error {
	return r.indexer.DeleteAllIndices()
}
