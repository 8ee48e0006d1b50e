package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CleanupService purges soft-deleted files: bytes best-effort, metadata row
// authoritatively. Each invocation is stateless and idempotent.
type CleanupService struct {
	fileRepo *repository.StoredFileRepository
	storage  *infra.FileStorage
	logger   *infra.LoggerClient
}

func NewCleanupService(
	fileRepo *repository.StoredFileRepository,
	storage *infra.FileStorage,
	logger *infra.LoggerClient,
) *CleanupService {
	return &CleanupService{
		fileRepo: fileRepo,
		storage:  storage,
		logger:   logger,
	}
}

// Sweep purges every soft-deleted row. Disk removal is delete-if-exists and
// non-fatal; the row is removed regardless of the disk outcome. Returns the
// number of rows fully processed. Re-running after a complete sweep finds
// nothing left to do.
func (s *CleanupService) Sweep(ctx context.Context) (int, error) {
	files, err := s.fileRepo.FindSoftDeleted()
	if err != nil {
		return 0, fmt.Errorf("list soft-deleted files: %w", err)
	}

	removed := 0
	for i := range files {
		file := &files[i]

		if err := s.storage.RemoveIfExists(file.StoragePath); err != nil {
			s.logger.WarningWithContextf(ctx, "[Cleanup] Failed to delete bytes at %s: %v",
				file.StoragePath, err)
		}

		rows, err := s.fileRepo.DeleteByID(file.ID)
		if err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Cleanup] Failed to delete metadata for %s: %v",
				file.ID, err)
			continue
		}
		if rows > 0 {
			removed++
		}
	}

	if removed > 0 {
		s.logger.InfoWithContextf(ctx, "[Cleanup] Sweep removed %d files", removed)
	}
	return removed, nil
}

// PurgeFile removes one file that has already been claimed by a soft delete.
// A row that is absent or not claimed is left alone, so redelivered purge
// messages are harmless.
func (s *CleanupService) PurgeFile(ctx context.Context, fileID uuid.UUID) error {
	file, err := s.fileRepo.FindSoftDeletedByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("lookup soft-deleted file %s: %w", fileID, err)
	}

	if err := s.storage.RemoveIfExists(file.StoragePath); err != nil {
		s.logger.WarningWithContextf(ctx, "[Cleanup] Failed to delete bytes at %s: %v",
			file.StoragePath, err)
	}

	if _, err := s.fileRepo.DeleteByID(file.ID); err != nil {
		return fmt.Errorf("delete metadata for %s: %w", file.ID, err)
	}

	s.logger.InfoWithContextf(ctx, "[Cleanup] Purged file %s", file.ID)
	return nil
}
