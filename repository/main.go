package repository

import (
	"github.com/EldoranCodes/FileStorageApi/infra"
	"gorm.io/gorm"
)

type Repository struct {
	ConsumerRepo   *ConsumerRepository
	APIKeyRepo     *APIKeyRepository
	BatchRepo      *UploadBatchRepository
	StoredFileRepo *StoredFileRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = NewRepository(infra.Postgres.DB)
	return repository
}

// NewRepository builds a repository set over any gorm handle. Tests use this
// directly with an in-memory database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		ConsumerRepo:   NewConsumerRepository(db),
		APIKeyRepo:     NewAPIKeyRepository(db),
		BatchRepo:      NewUploadBatchRepository(db),
		StoredFileRepo: NewStoredFileRepository(db),
	}
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}
