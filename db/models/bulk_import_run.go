package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BulkImportStatus string

const (
	BulkImportCompleted          BulkImportStatus = "COMPLETED"
	BulkImportCompletedWithError BulkImportStatus = "COMPLETED_WITH_ERRORS"
	BulkImportFailed             BulkImportStatus = "FAILED"
)

// BulkImportRun records the outcome of one committed purchase order import.
type BulkImportRun struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;" json:"id"`
	FileName     string           `json:"file_name"`
	FileHash     string           `gorm:"index" json:"file_hash"`
	Format       string           `gorm:"type:varchar(10)" json:"format"`
	Total        int              `json:"total"`
	Success      int              `json:"success"`
	Errors       int              `json:"errors"`
	ErrorDetails datatypes.JSON   `json:"error_details"`
	Status       BulkImportStatus `gorm:"type:varchar(30)" json:"status"`
	ReportPath   string           `json:"report_path"`
	CreatedBy    string           `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}
