package bootstrap

import (
	"context"

	bleveRepositories "purchase-orders-backend/bleve/repositories"
	"purchase-orders-backend/config"
	purchase_orders_repositories "purchase-orders-backend/purchase_orders/repositories"

	"go.uber.org/zap"
)

// IndexBleveData drops every search index and rebuilds the purchase order
// index from the database.
func IndexBleveData(
	ctx context.Context,
	orderRepo purchase_orders_repositories.PurchaseOrderRepository,
	bleveRepo bleveRepositories.BleveRepositoryInterface,
) error {
	if err := bleveRepo.DeleteAllIndices(ctx); err != nil {
		return err
	}

	orders, _, err := orderRepo.GetFilteredPurchaseOrders(ctx, nil, false, 0, 0)
	if err != nil {
		config.Logger.Error("Error fetching purchase orders for Bleve indexing", zap.Error(err))
		return err
	}
	if err := bleveRepo.IndexExistingPurchaseOrders(orders, nil); err != nil {
		config.Logger.Error("Failed to index purchase orders into Bleve", zap.Error(err))
		return err
	}

	config.Logger.Info("Bleve indexes rebuilt", zap.Int("purchase_orders", len(orders)))
	return nil
}
