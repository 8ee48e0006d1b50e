package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchFiles struct {
	BatchID uuid.UUID
	Status  string
	Files   []FileMetadata
}

// BatchService answers batch-scoped reads and performs the cascading hard
// delete of a batch.
type BatchService struct {
	batchRepo *repository.UploadBatchRepository
	fileRepo  *repository.StoredFileRepository
	storage   *infra.FileStorage
	logger    *infra.LoggerClient
}

func NewBatchService(
	batchRepo *repository.UploadBatchRepository,
	fileRepo *repository.StoredFileRepository,
	storage *infra.FileStorage,
	logger *infra.LoggerClient,
) *BatchService {
	return &BatchService{
		batchRepo: batchRepo,
		fileRepo:  fileRepo,
		storage:   storage,
		logger:    logger,
	}
}

// GetBatchFiles returns the batch descriptor with its non-soft-deleted
// member files.
func (s *BatchService) GetBatchFiles(ctx context.Context, caller *entity.Consumer, batchID uuid.UUID) (*BatchFiles, error) {
	batch, err := s.ownedBatch(ctx, caller, batchID)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepo.FindActiveByBatchID(batch.ID)
	if err != nil {
		return nil, fmt.Errorf("list batch files: %w", err)
	}

	out := &BatchFiles{BatchID: batch.ID, Status: batch.Status}
	for i := range files {
		out.Files = append(out.Files, *newFileMetadata(&files[i], s.storage.Root()))
	}
	return out, nil
}

// DeleteBatch hard-deletes the whole batch: bytes first per member file, then
// every file row, then the batch row. A disk removal failure is logged and
// folded into the partial-success flag; it never blocks metadata removal.
func (s *BatchService) DeleteBatch(ctx context.Context, caller *entity.Consumer, batchID uuid.UUID) (*DeleteResult, error) {
	batch, err := s.ownedBatch(ctx, caller, batchID)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepo.FindByBatchID(batch.ID)
	if err != nil {
		return nil, fmt.Errorf("list batch files: %w", err)
	}

	allDeleted := true
	for i := range files {
		if err := s.storage.Remove(files[i].StoragePath); err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Batch] Failed to delete bytes at %s: %v",
				files[i].StoragePath, err)
			allDeleted = false
		}
	}

	if err := s.fileRepo.DeleteByBatchID(batch.ID); err != nil {
		return nil, fmt.Errorf("delete batch files: %w", err)
	}
	if err := s.batchRepo.Delete(batch.ID); err != nil {
		return nil, fmt.Errorf("delete batch: %w", err)
	}

	s.logger.InfoWithContextf(ctx, "[Batch] Deleted batch %s with %d files (all bytes removed: %t)",
		batch.ID, len(files), allDeleted)

	if !allDeleted {
		return &DeleteResult{Success: false, Message: "Batch deleted with some file deletion errors"}, nil
	}
	return &DeleteResult{Success: true, Message: "Batch and all files deleted successfully"}, nil
}

func (s *BatchService) ownedBatch(ctx context.Context, caller *entity.Consumer, batchID uuid.UUID) (*entity.UploadBatch, error) {
	if caller == nil {
		return nil, fmt.Errorf("%w: no authenticated owner", ErrUnauthorized)
	}

	batch, err := s.batchRepo.FindByID(batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: batch %s", ErrNotFound, batchID)
		}
		return nil, fmt.Errorf("lookup batch %s: %w", batchID, err)
	}

	if !sameOwner(batch.ConsumerID, caller.ID) {
		return nil, fmt.Errorf("%w: batch %s", ErrForbidden, batchID)
	}

	return batch, nil
}
