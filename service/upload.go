package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const sniffSize = 3072

// UploadFile is one incoming file stream with its client-supplied attributes.
// OriginalName is untrusted input.
type UploadFile struct {
	OriginalName string
	ContentType  string
	Size         int64
	Reader       io.Reader
}

type UploadedFileResult struct {
	FileID          uuid.UUID
	OriginalName    string
	StoredName      string
	Path            string
	UploadTimestamp time.Time
}

type BatchResult struct {
	BatchID uuid.UUID
	Status  string
	Files   []UploadedFileResult
}

// UploadService groups a request's files into a batch, persists their bytes
// under the resolved storage path, and records per-file metadata. One bad
// file never abandons the rest of the batch.
type UploadService struct {
	batchRepo *repository.UploadBatchRepository
	fileRepo  *repository.StoredFileRepository
	storage   *infra.FileStorage
	logger    *infra.LoggerClient
}

func NewUploadService(
	batchRepo *repository.UploadBatchRepository,
	fileRepo *repository.StoredFileRepository,
	storage *infra.FileStorage,
	logger *infra.LoggerClient,
) *UploadService {
	return &UploadService{
		batchRepo: batchRepo,
		fileRepo:  fileRepo,
		storage:   storage,
		logger:    logger,
	}
}

// Upload processes the files sequentially in input order. The batch row is
// created PENDING before any file is touched so a crash mid-upload leaves an
// auditable partial record. The result lists only the files that succeeded;
// failed files are counted toward the FAILED status.
func (s *UploadService) Upload(ctx context.Context, owner *entity.Consumer, appName string, files []UploadFile) (*BatchResult, error) {
	if owner == nil {
		return nil, fmt.Errorf("%w: no authenticated owner", ErrUnauthorized)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", ErrInvalidRequest)
	}

	batch := &entity.UploadBatch{
		ID:         uuid.New(),
		ConsumerID: owner.ID,
		Status:     entity.BatchStatusPending,
	}
	if err := s.batchRepo.Create(batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	result := &BatchResult{BatchID: batch.ID}
	allSucceeded := true

	for _, file := range files {
		stored, err := s.processFile(ctx, owner, appName, batch.ID, file)
		if err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Upload] File '%s' failed in batch %s: %v",
				file.OriginalName, batch.ID, err)
			allSucceeded = false
			continue
		}
		result.Files = append(result.Files, *stored)
	}

	status := entity.BatchStatusSuccess
	if !allSucceeded {
		status = entity.BatchStatusFailed
	}
	if err := s.batchRepo.UpdateStatus(batch.ID, status); err != nil {
		// The batch stays PENDING in the store; report what was actually
		// processed rather than dropping the per-file results.
		s.logger.ErrorWithContextf(ctx, err, "[Upload] Failed to persist terminal status for batch %s: %v",
			batch.ID, err)
	}
	result.Status = status

	s.logger.InfoWithContextf(ctx, "[Upload] Batch %s finished with status %s (%d/%d files stored)",
		batch.ID, status, len(result.Files), len(files))

	return result, nil
}

func (s *UploadService) processFile(ctx context.Context, owner *entity.Consumer, appName string, batchID uuid.UUID, file UploadFile) (*UploadedFileResult, error) {
	if err := validateFilename(file.OriginalName); err != nil {
		return nil, err
	}

	storedName, err := s.generateStoredName(file.OriginalName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dir, err := s.storage.ResolveUploadDir(owner.ID, appName, infra.DateSegment(now))
	if err != nil {
		return nil, fmt.Errorf("%w: create upload directory: %v", ErrStorage, err)
	}
	targetPath := filepath.Join(dir, storedName)

	reader := file.Reader
	contentType := file.ContentType
	if contentType == "" {
		// Sniff the leading bytes, then stitch them back onto the stream.
		sniff := make([]byte, sniffSize)
		n, readErr := io.ReadFull(reader, sniff)
		if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
			return nil, fmt.Errorf("%w: read stream: %v", ErrStorage, readErr)
		}
		sniff = sniff[:n]
		contentType = mimetype.Detect(sniff).String()
		reader = io.MultiReader(bytes.NewReader(sniff), reader)
	}

	size, err := s.storage.Save(targetPath, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: save '%s': %v", ErrStorage, file.OriginalName, err)
	}

	stored := &entity.StoredFile{
		ID:           uuid.New(),
		BatchID:      batchID,
		OriginalName: file.OriginalName,
		StoredName:   storedName,
		StoragePath:  targetPath,
		AppName:      appName,
		ContentType:  contentType,
		FileSize:     size,
		UploadedAt:   now,
	}
	if err := s.fileRepo.Create(stored); err != nil {
		// Bytes are on disk but the row failed; remove the orphan so the
		// file count matches the metadata.
		if rmErr := s.storage.RemoveIfExists(targetPath); rmErr != nil {
			s.logger.WarningWithContextf(ctx, "[Upload] Failed to remove orphaned bytes at %s: %v", targetPath, rmErr)
		}
		return nil, fmt.Errorf("save metadata for '%s': %w", file.OriginalName, err)
	}

	return &UploadedFileResult{
		FileID:          stored.ID,
		OriginalName:    stored.OriginalName,
		StoredName:      stored.StoredName,
		Path:            relativeStoragePath(stored.StoragePath, s.storage.Root()),
		UploadTimestamp: stored.UploadedAt,
	}, nil
}

// generateStoredName builds <token>.<ext> from a fresh random token and
// re-checks uniqueness against the store, regenerating on collision.
func (s *UploadService) generateStoredName(originalName string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))

	for {
		storedName := uuid.New().String()
		if ext != "" {
			storedName = storedName + "." + ext
		}

		exists, err := s.fileRepo.ExistsByStoredName(storedName)
		if err != nil {
			return "", fmt.Errorf("check stored name: %w", err)
		}
		if !exists {
			return storedName, nil
		}
	}
}

// validateFilename rejects blank names, path traversal, path separators, and
// hidden files. Rejection aborts only the offending file.
func validateFilename(originalName string) error {
	if strings.TrimSpace(originalName) == "" {
		return fmt.Errorf("%w: file name is empty", ErrInvalidRequest)
	}
	if strings.Contains(originalName, "..") {
		return fmt.Errorf("%w: file name contains '..'", ErrInvalidRequest)
	}
	if strings.ContainsAny(originalName, `/\`) {
		return fmt.Errorf("%w: file name contains a path separator", ErrInvalidRequest)
	}
	if strings.HasPrefix(originalName, ".") {
		return fmt.Errorf("%w: hidden file names are not allowed", ErrInvalidRequest)
	}
	return nil
}
