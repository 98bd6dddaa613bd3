package repositories

import (
	"context"
	"errors"
	"fmt"

	"purchase-orders-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPurchaseOrderNotFound = errors.New("purchase order not found")

type PurchaseOrderRepository interface {
	CreatePurchaseOrder(ctx context.Context, order *models.PurchaseOrder) error
	GetPurchaseOrderByID(ctx context.Context, id string) (*models.PurchaseOrder, error)
	GetFilteredPurchaseOrders(ctx context.Context, filters map[string]string, paginationEnabled bool, limit, offset int) ([]models.PurchaseOrder, int64, error)
	LogImportRun(ctx context.Context, run *models.BulkImportRun) error
	UpdateImportRunReport(ctx context.Context, id uuid.UUID, reportPath string) error
	GetImportRun(ctx context.Context, id uuid.UUID) (*models.BulkImportRun, error)
	GetImportRuns(ctx context.Context, limit, offset int) ([]models.BulkImportRun, int64, error)
	LogEmail(ctx context.Context, email *models.EmailLog) error
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{
		db: db,
	}
}

// CreatePurchaseOrder inserts order. An existing row with the same id makes it fail.
func (r *purchaseOrderRepository) CreatePurchaseOrder(ctx context.Context, order *models.PurchaseOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create purchase order: %w", err)
	}
	return nil
}

func (r *purchaseOrderRepository) GetPurchaseOrderByID(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Customer").First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetFilteredPurchaseOrders returns filtered purchase orders, newest first.
func (r *purchaseOrderRepository) GetFilteredPurchaseOrders(ctx context.Context, filters map[string]string, paginationEnabled bool, limit, offset int) ([]models.PurchaseOrder, int64, error) {
	qb := newPurchaseOrderQueryBuilder(r.db.WithContext(ctx), filters).applyFilters().applyLatestOrder()
	countQB := newPurchaseOrderQueryBuilder(r.db.WithContext(ctx), filters).applyFilters()

	if paginationEnabled {
		qb = qb.Limit(limit).Offset(offset)
	}

	var orders []models.PurchaseOrder
	if err := qb.query.Preload("Customer").Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	var total int64
	if err := countQB.query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *purchaseOrderRepository) LogImportRun(ctx context.Context, run *models.BulkImportRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *purchaseOrderRepository) UpdateImportRunReport(ctx context.Context, id uuid.UUID, reportPath string) error {
	return r.db.WithContext(ctx).Model(&models.BulkImportRun{}).
		Where("id = ?", id).
		Update("report_path", reportPath).Error
}

func (r *purchaseOrderRepository) GetImportRun(ctx context.Context, id uuid.UUID) (*models.BulkImportRun, error) {
	var run models.BulkImportRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *purchaseOrderRepository) GetImportRuns(ctx context.Context, limit, offset int) ([]models.BulkImportRun, int64, error) {
	var runs []models.BulkImportRun
	var total int64

	db := r.db.WithContext(ctx).Model(&models.BulkImportRun{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func (r *purchaseOrderRepository) LogEmail(ctx context.Context, email *models.EmailLog) error {
	if email.ID == uuid.Nil {
		email.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(email).Error
}
