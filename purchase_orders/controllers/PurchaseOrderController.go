package controllers

import (
	"context"
	"time"

	"purchase-orders-backend/purchase_orders/repositories"
	"purchase-orders-backend/purchase_orders/services"
)

// QueryCache caches JSON-serialisable query results.
type QueryCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// ImportObserver records preview and commit outcomes.
type ImportObserver interface {
	PreviewObserved(result string)
	CommitObserved(status string, elapsed time.Duration)
}

type PurchaseOrderController struct {
	Repo     repositories.PurchaseOrderRepository
	Imports  *services.ImportService
	Dates    *services.DateNormalizer
	Cache    QueryCache
	Observer ImportObserver
}
