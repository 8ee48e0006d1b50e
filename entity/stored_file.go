package entity

import (
	"time"

	"github.com/google/uuid"
)

// StoredFile is the metadata record for one physically stored file. Ownership
// is transitive through the batch. DeletedAt is a manual soft-delete stamp,
// not gorm's soft-delete type: soft-deleted rows must stay queryable for the
// cleanup sweeper.
type StoredFile struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BatchID      uuid.UUID  `json:"batch_id" gorm:"type:uuid;not null;index"`
	OriginalName string     `json:"original_name" gorm:"type:varchar(512);not null"`
	StoredName   string     `json:"stored_name" gorm:"type:varchar(255);uniqueIndex;not null"`
	StoragePath  string     `json:"storage_path" gorm:"type:varchar(1024);not null"`
	AppName      string     `json:"app_name" gorm:"type:varchar(255);not null;index"`
	ContentType  string     `json:"content_type" gorm:"type:varchar(255)"`
	FileSize     int64      `json:"file_size" gorm:"not null"`
	UploadedAt   time.Time  `json:"uploaded_at" gorm:"not null;autoCreateTime"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Batch *UploadBatch `json:"batch,omitempty" gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}
