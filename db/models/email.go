package models

import (
	"time"

	"github.com/google/uuid"
)

type EmailLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	Recipient      string     `json:"recipient"`
	Subject        string     `json:"subject"`
	Message        string     `gorm:"type:text" json:"message"`
	SentAt         time.Time  `json:"sent_at"`
	Delivered      bool       `json:"delivered"`
	AttachmentPath string     `json:"attachment_path"`
	ImportRunID    *uuid.UUID `gorm:"type:uuid;index" json:"import_run_id"`
}
