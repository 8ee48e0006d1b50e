package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	BatchStatusPending = "PENDING"
	BatchStatusSuccess = "SUCCESS"
	BatchStatusFailed  = "FAILED"
)

// UploadBatch groups the files uploaded together in one request. It is created
// in PENDING status before any file is touched and moved once to a terminal
// status after the whole request has been processed.
type UploadBatch struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ConsumerID uuid.UUID `json:"consumer_id" gorm:"type:uuid;not null;index"`
	Status     string    `json:"status" gorm:"type:varchar(32);not null;default:PENDING"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;autoCreateTime"`

	Consumer *Consumer `json:"consumer,omitempty" gorm:"foreignKey:ConsumerID;constraint:OnDelete:CASCADE"`
}
