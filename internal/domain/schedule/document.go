package schedule

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultDocumentKey names the single schedule row/key/file.
const DefaultDocumentKey = "default"

// Document is the relational home of the schedule when the postgres
// backend is selected. There is exactly one row per key.
type Document struct {
	Key       string         `gorm:"column:doc_key;type:text;primaryKey" json:"key"`
	Body      datatypes.JSON `gorm:"column:body;type:jsonb;not null" json:"body"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Document) TableName() string { return "schedule_document" }
