package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConsumerStatusActive   = "ACTIVE"
	ConsumerStatusInactive = "INACTIVE"
)

// Consumer is the tenant that files ultimately belong to.
type Consumer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Status    string    `json:"status" gorm:"type:varchar(32);not null;default:ACTIVE"`
	Role      string    `json:"role" gorm:"type:varchar(32);not null;default:consumer"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}
