package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PurchaseOrder is a single purchase order placed by a customer (the buyer).
// EtktDate and OrderDate are stored as YYYY-MM-DD text; EtktDate may be empty.
type PurchaseOrder struct {
	ID                  string          `gorm:"type:varchar(64);primary_key;" json:"id"`
	PurchaseOrderNumber string          `gorm:"type:varchar(32);index" json:"purchase_order_number"`
	ClientOrderNumber   string          `json:"client_order_number"`
	EtktNumber          string          `json:"etkt_number"`
	EtktDate            string          `gorm:"type:varchar(10)" json:"etkt_date"`
	Buyer               string          `gorm:"type:varchar(64);index;not null" json:"buyer"`
	Customer            *Customer       `gorm:"foreignKey:Buyer;references:ID" json:"customer,omitempty"`
	BuyingAmount        decimal.Decimal `gorm:"type:numeric" json:"buying_amount"`
	SellingAmount       decimal.Decimal `gorm:"type:numeric" json:"selling_amount"`
	OrderDescription    string          `gorm:"type:text" json:"order_description"`
	OrderDate           string          `gorm:"type:varchar(10);index" json:"order_date"`
	HasGrn              bool            `json:"has_grn"`
	GrnNumber           string          `json:"grn_number"`
	IsPaid              bool            `gorm:"index" json:"is_paid"`
	IsDelivered         bool            `gorm:"index" json:"is_delivered"`
	PaymentDuration     int             `json:"payment_duration"`
	PaymentDueDate      *datatypes.Date `json:"payment_due_date"`
	Notes               string          `gorm:"type:text" json:"notes"`
	Notes2              string          `gorm:"type:text" json:"notes2"`
	Comments            datatypes.JSON  `json:"comments"`
	CustomDocuments     datatypes.JSON  `json:"custom_documents"`
	Items               datatypes.JSON  `json:"items"`

	AddedVia    AddedViaType `gorm:"type:varchar(20);default:'MANUAL'" json:"added_via"`
	ImportRunID *uuid.UUID   `gorm:"type:uuid;index" json:"import_run_id"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type AddedViaType string

const (
	AddedViaManual     AddedViaType = "MANUAL"
	AddedViaBulkImport AddedViaType = "BULK_IMPORT"
)

// Profit is the selling amount minus the buying amount.
func (p PurchaseOrder) Profit() decimal.Decimal {
	return p.SellingAmount.Sub(p.BuyingAmount)
}
