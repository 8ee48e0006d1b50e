package repository

import (
	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadBatchRepository struct {
	db *gorm.DB
}

func NewUploadBatchRepository(db *gorm.DB) *UploadBatchRepository {
	return &UploadBatchRepository{db: db}
}

func (r *UploadBatchRepository) Create(batch *entity.UploadBatch) error {
	return r.db.Create(batch).Error
}

func (r *UploadBatchRepository) FindByID(id uuid.UUID) (*entity.UploadBatch, error) {
	var batch entity.UploadBatch
	err := r.db.Where("id = ?", id).First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *UploadBatchRepository) UpdateStatus(id uuid.UUID, status string) error {
	return r.db.Model(&entity.UploadBatch{}).Where("id = ?", id).Update("status", status).Error
}

func (r *UploadBatchRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.UploadBatch{}, "id = ?", id).Error
}
