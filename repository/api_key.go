package repository

import (
	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(key *entity.APIKey) error {
	return r.db.Create(key).Error
}

// FindActiveByDigest resolves a credential by its key digest in a single
// indexed lookup, with the owning consumer preloaded.
func (r *APIKeyRepository) FindActiveByDigest(digest string) (*entity.APIKey, error) {
	var key entity.APIKey
	err := r.db.Preload("Consumer").
		Where("key_digest = ? AND status = ?", digest, entity.APIKeyStatusActive).
		First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *APIKeyRepository) FindByConsumerID(consumerID uuid.UUID) ([]entity.APIKey, error) {
	var keys []entity.APIKey
	err := r.db.Where("consumer_id = ?", consumerID).Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}
