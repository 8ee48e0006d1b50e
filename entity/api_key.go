package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	APIKeyStatusActive   = "ACTIVE"
	APIKeyStatusInactive = "INACTIVE"
)

// APIKey is a credential presented by a caller acting on behalf of a Consumer.
// Only the SHA-256 digest of the key material is stored; the digest column is
// unique-indexed so validation is a single lookup. One credential is scoped to
// exactly one application name.
type APIKey struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	KeyDigest  string    `json:"-" gorm:"type:char(64);uniqueIndex;not null"`
	ConsumerID uuid.UUID `json:"consumer_id" gorm:"type:uuid;not null;index"`
	AppName    string    `json:"app_name" gorm:"type:varchar(255);not null"`
	Status     string    `json:"status" gorm:"type:varchar(32);not null;default:ACTIVE"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;autoCreateTime"`

	Consumer *Consumer `json:"consumer,omitempty" gorm:"foreignKey:ConsumerID;constraint:OnDelete:CASCADE"`
}
