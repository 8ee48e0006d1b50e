package repository

import (
	"time"

	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoredFileRepository struct {
	db *gorm.DB
}

func NewStoredFileRepository(db *gorm.DB) *StoredFileRepository {
	return &StoredFileRepository{db: db}
}

func (r *StoredFileRepository) Create(file *entity.StoredFile) error {
	return r.db.Create(file).Error
}

func (r *StoredFileRepository) ExistsByStoredName(storedName string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.StoredFile{}).Where("stored_name = ?", storedName).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindActiveByID loads a non-soft-deleted file with its owning batch.
func (r *StoredFileRepository) FindActiveByID(id uuid.UUID) (*entity.StoredFile, error) {
	var file entity.StoredFile
	err := r.db.Preload("Batch").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *StoredFileRepository) FindActiveByStoredName(storedName string) (*entity.StoredFile, error) {
	var file entity.StoredFile
	err := r.db.Preload("Batch").
		Where("stored_name = ? AND deleted_at IS NULL", storedName).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FindActiveByConsumerAndApp lists a consumer's non-soft-deleted files scoped
// to one application name. Ownership runs through the batch.
func (r *StoredFileRepository) FindActiveByConsumerAndApp(consumerID uuid.UUID, appName string) ([]entity.StoredFile, error) {
	var files []entity.StoredFile
	err := r.db.
		Joins("JOIN upload_batches ON upload_batches.id = stored_files.batch_id").
		Where("upload_batches.consumer_id = ? AND stored_files.app_name = ? AND stored_files.deleted_at IS NULL",
			consumerID, appName).
		Order("stored_files.uploaded_at").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *StoredFileRepository) FindByBatchID(batchID uuid.UUID) ([]entity.StoredFile, error) {
	var files []entity.StoredFile
	err := r.db.Where("batch_id = ?", batchID).Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *StoredFileRepository) FindActiveByBatchID(batchID uuid.UUID) ([]entity.StoredFile, error) {
	var files []entity.StoredFile
	err := r.db.Where("batch_id = ? AND deleted_at IS NULL", batchID).Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// SoftDelete stamps the deletion timestamp only when the row is not already
// claimed. The returned row count is the atomic claim: zero means someone else
// got there first.
func (r *StoredFileRepository) SoftDelete(id uuid.UUID, ts time.Time) (int64, error) {
	res := r.db.Model(&entity.StoredFile{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", ts)
	return res.RowsAffected, res.Error
}

func (r *StoredFileRepository) FindSoftDeleted() ([]entity.StoredFile, error) {
	var files []entity.StoredFile
	err := r.db.Where("deleted_at IS NOT NULL").Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *StoredFileRepository) FindSoftDeletedByID(id uuid.UUID) (*entity.StoredFile, error) {
	var file entity.StoredFile
	err := r.db.Where("id = ? AND deleted_at IS NOT NULL", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *StoredFileRepository) DeleteByID(id uuid.UUID) (int64, error) {
	res := r.db.Delete(&entity.StoredFile{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *StoredFileRepository) DeleteByBatchID(batchID uuid.UUID) error {
	return r.db.Delete(&entity.StoredFile{}, "batch_id = ?", batchID).Error
}
