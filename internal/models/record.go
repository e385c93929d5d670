package models

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentRecordID is the primary key of the single stored document row.
const DocumentRecordID = 1

// DocumentRecord is the SQL persistence form of a Document: one row whose
// body holds the encoded document.
type DocumentRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Body      datatypes.JSON `gorm:"not null" json:"body"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName overrides the default table name.
func (DocumentRecord) TableName() string {
	return "catalog_documents"
}
