package models

import (
	"time"
)

// DocumentRecord menyimpan satu dokumen JSON per key (backend SQL).
type DocumentRecord struct {
	Key       string     `gorm:"column:doc_key;primaryKey;type:varchar(191)"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time  `gorm:"not null"`
}

func (DocumentRecord) TableName() string {
	return "documents"
}

// EventRecord satu entry event log, dikelompokkan per stream key.
type EventRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Stream    string    `gorm:"type:varchar(191);not null;index:idx_stream_created"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_stream_created"`
}

func (EventRecord) TableName() string {
	return "order_events"
}
