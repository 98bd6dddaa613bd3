package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"purchase-orders-backend/config"
	"purchase-orders-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var ErrEmptyCustomerName = errors.New("customer name is empty")

// CustomerStore is the slice of the customer repository the resolver needs.
type CustomerStore interface {
	FindCustomersByName(ctx context.Context, name string) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
}

// CustomerResolver maps a free-text company name to a customer id, creating the
// customer when no exact match exists. One resolver serves one import run: it
// remembers every name it has resolved so a name is created at most once per run.
type CustomerResolver struct {
	store CustomerStore
	newID func() string

	mu      sync.Mutex
	cache   map[string]string
	created int
}

func NewCustomerResolver(store CustomerStore) *CustomerResolver {
	return &CustomerResolver{
		store: store,
		newID: func() string { return "Cus-" + uuid.NewString() },
		cache: make(map[string]string),
	}
}

// Resolve returns the id of the customer named name (after trimming).
func (r *CustomerResolver) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyCustomerName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.cache[name]; ok {
		return id, nil
	}

	matches, err := r.store.FindCustomersByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("find customer %q: %w", name, err)
	}
	if len(matches) > 0 {
		r.cache[name] = matches[0].ID
		return matches[0].ID, nil
	}

	customer := NewDefaultCustomer(r.newID(), name)
	if err := r.store.CreateCustomer(ctx, customer); err != nil {
		return "", fmt.Errorf("create customer %q: %w", name, err)
	}
	r.cache[name] = customer.ID
	r.created++

	config.Logger.Info("Created customer during import",
		zap.String("customer_id", customer.ID),
		zap.String("name", name),
	)
	return customer.ID, nil
}

// Created is the number of customers this resolver has created.
func (r *CustomerResolver) Created() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created
}

// NewDefaultCustomer builds a customer with empty contact details.
func NewDefaultCustomer(id, name string) *models.Customer {
	return &models.Customer{
		ID:             id,
		Name:           name,
		Phones:         datatypes.JSON(`[""]`),
		DepartmentPath: datatypes.JSON(`[]`),
		Type:           models.CustomerTypeCustomer,
	}
}
