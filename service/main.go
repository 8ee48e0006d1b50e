package service

import (
	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
)

type Service struct {
	APIKey  *APIKeyService
	Upload  *UploadService
	File    *FileService
	Batch   *BatchService
	Cleanup *CleanupService
}

func InitService(infra *infra.Infra, repo *repository.Repository) *Service {
	return &Service{
		APIKey:  NewAPIKeyService(repo.APIKeyRepo, infra.Redis, infra.Logger),
		Upload:  NewUploadService(repo.BatchRepo, repo.StoredFileRepo, infra.Storage, infra.Logger),
		File:    NewFileService(repo.StoredFileRepo, infra.Storage, infra.Logger, infra.Produce.CleanupService),
		Batch:   NewBatchService(repo.BatchRepo, repo.StoredFileRepo, infra.Storage, infra.Logger),
		Cleanup: NewCleanupService(repo.StoredFileRepo, infra.Storage, infra.Logger),
	}
}
