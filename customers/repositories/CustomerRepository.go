package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"purchase-orders-backend/db/models"

	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerRepository interface {
	FindCustomersByName(ctx context.Context, name string) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomerByID(ctx context.Context, id string) (*models.Customer, error)
	GetFilteredCustomers(ctx context.Context, pageSize, offset int, filters map[string]string) ([]models.Customer, int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{
		db: db,
	}
}

// FindCustomersByName returns customers whose name equals name exactly, oldest first.
func (r *customerRepository) FindCustomersByName(ctx context.Context, name string) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC").Order("id ASC").
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("query customers by name: %w", err)
	}
	return customers, nil
}

// CreateCustomer inserts a new customer. It fails rather than overwrite an existing id.
func (r *customerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("create customer %s: %w", customer.ID, err)
	}
	return nil
}

func (r *customerRepository) GetCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// GetFilteredCustomers lists customers with filtering and pagination
func (r *customerRepository) GetFilteredCustomers(ctx context.Context, pageSize, offset int, filters map[string]string) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Customer{})

	for key, value := range filters {
		switch key {
		case "name":
			db = db.Where("name ILIKE ?", "%"+value+"%")
		case "type":
			db = db.Where("type = ?", strings.ToLower(value))
		case "start_date":
			db = db.Where("DATE(created_at) >= ?", value)
		case "end_date":
			db = db.Where("DATE(created_at) <= ?", value)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("name ASC").Limit(pageSize).Offset(offset).Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}
