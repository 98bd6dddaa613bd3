package models

import (
	"time"

	"gorm.io/datatypes"
)

const CustomerTypeCustomer = "customer"

// Customer is the counterparty a purchase order is placed by. Names are not unique.
type Customer struct {
	ID             string         `gorm:"type:varchar(64);primary_key;" json:"id"`
	Name           string         `gorm:"not null;index" json:"name"`
	Phones         datatypes.JSON `json:"phones"`
	Address        string         `json:"address"`
	TaxID          string         `json:"tax_id"`
	Department     string         `json:"department"`
	DepartmentPath datatypes.JSON `json:"department_path"`
	Type           string         `gorm:"type:varchar(20);default:'customer'" json:"type"`
	Notes          string         `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
