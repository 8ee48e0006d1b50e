package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultContentType = "application/octet-stream"

// FileMetadata describes one stored file. Path is relative to the storage
// root; absolute disk paths never leave the service layer.
type FileMetadata struct {
	FileID          uuid.UUID
	OriginalName    string
	StoredName      string
	Path            string
	ContentType     string
	FileSize        int64
	UploadTimestamp time.Time
}

// FileStream is an open byte stream plus the headers a controller needs to
// serve it. The caller owns Reader and must close it.
type FileStream struct {
	Reader       io.ReadCloser
	OriginalName string
	ContentType  string
	Size         int64
}

type DeleteResult struct {
	Success bool
	Message string
}

// cleanupNotifier lets the deletion path ask the sweeper for a prompt purge.
// It may be nil when no message broker is wired (tests).
type cleanupNotifier interface {
	PublishFilePurge(ctx context.Context, fileID uuid.UUID) error
}

// FileService answers reads for single files and performs the soft delete.
// Every operation checks ownership through the file's batch.
type FileService struct {
	fileRepo *repository.StoredFileRepository
	storage  *infra.FileStorage
	logger   *infra.LoggerClient
	notifier cleanupNotifier
}

func NewFileService(
	fileRepo *repository.StoredFileRepository,
	storage *infra.FileStorage,
	logger *infra.LoggerClient,
	notifier cleanupNotifier,
) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
		logger:   logger,
		notifier: notifier,
	}
}

func (s *FileService) GetFileInfo(ctx context.Context, caller *entity.Consumer, fileID uuid.UUID) (*FileMetadata, error) {
	file, err := s.ownedFile(ctx, caller, fileID)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// ListFiles returns the caller's non-soft-deleted files scoped to the
// presenting credential's application name.
func (s *FileService) ListFiles(ctx context.Context, caller *entity.Consumer, appName string) ([]FileMetadata, error) {
	if caller == nil {
		return nil, fmt.Errorf("%w: no authenticated owner", ErrUnauthorized)
	}

	files, err := s.fileRepo.FindActiveByConsumerAndApp(caller.ID, appName)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	out := make([]FileMetadata, 0, len(files))
	for i := range files {
		out = append(out, *s.fileMetadata(&files[i]))
	}
	return out, nil
}

// StreamFile re-resolves the stored path, verifies the bytes are still
// readable, and returns the open stream. The content type falls back to a
// generic binary type when none was recorded.
func (s *FileService) StreamFile(ctx context.Context, caller *entity.Consumer, storedName string) (*FileStream, error) {
	if caller == nil {
		return nil, fmt.Errorf("%w: no authenticated owner", ErrUnauthorized)
	}

	file, err := s.fileRepo.FindActiveByStoredName(storedName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: stored name '%s'", ErrNotFound, storedName)
		}
		return nil, fmt.Errorf("lookup stored name: %w", err)
	}

	if file.Batch == nil || !sameOwner(file.Batch.ConsumerID, caller.ID) {
		return nil, fmt.Errorf("%w: file '%s'", ErrForbidden, storedName)
	}

	exists, err := s.storage.Exists(file.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%w: stat '%s': %v", ErrStorage, file.StoragePath, err)
	}
	if !exists {
		s.logger.WarningWithContextf(ctx, "[File] Metadata exists but bytes are missing at %s", file.StoragePath)
		return nil, fmt.Errorf("%w: bytes for '%s'", ErrNotFound, storedName)
	}

	reader, err := s.storage.Open(file.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open '%s': %v", ErrStorage, file.StoragePath, err)
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	return &FileStream{
		Reader:       reader,
		OriginalName: file.OriginalName,
		ContentType:  contentType,
		Size:         file.FileSize,
	}, nil
}

// DeleteFile soft-deletes: it stamps the deletion timestamp with a
// conditional update, which is the atomic claim that keeps the sweeper and a
// concurrent delete from processing the same file twice. Bytes stay on disk
// until swept.
func (s *FileService) DeleteFile(ctx context.Context, caller *entity.Consumer, fileID uuid.UUID) (*DeleteResult, error) {
	file, err := s.ownedFile(ctx, caller, fileID)
	if err != nil {
		return nil, err
	}

	claimed, err := s.fileRepo.SoftDelete(file.FileID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("soft delete file %s: %w", file.FileID, err)
	}
	if claimed == 0 {
		// Someone else claimed the row between the read and the update.
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileID)
	}

	if s.notifier != nil {
		if err := s.notifier.PublishFilePurge(ctx, file.FileID); err != nil {
			s.logger.WarningWithContextf(ctx, "[File] Failed to publish purge for %s, the scheduled sweep will pick it up: %v",
				file.FileID, err)
		}
	}

	s.logger.InfoWithContextf(ctx, "[File] Soft-deleted file %s ('%s')", file.FileID, file.OriginalName)

	return &DeleteResult{Success: true, Message: "File deleted successfully"}, nil
}

func (s *FileService) ownedFile(ctx context.Context, caller *entity.Consumer, fileID uuid.UUID) (*FileMetadata, error) {
	if caller == nil {
		return nil, fmt.Errorf("%w: no authenticated owner", ErrUnauthorized)
	}

	file, err := s.fileRepo.FindActiveByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: file %s", ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("lookup file %s: %w", fileID, err)
	}

	if file.Batch == nil || !sameOwner(file.Batch.ConsumerID, caller.ID) {
		return nil, fmt.Errorf("%w: file %s", ErrForbidden, fileID)
	}

	return s.fileMetadata(file), nil
}

func (s *FileService) fileMetadata(file *entity.StoredFile) *FileMetadata {
	return newFileMetadata(file, s.storage.Root())
}

func newFileMetadata(file *entity.StoredFile, root string) *FileMetadata {
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	return &FileMetadata{
		FileID:          file.ID,
		OriginalName:    file.OriginalName,
		StoredName:      file.StoredName,
		Path:            relativeStoragePath(file.StoragePath, root),
		ContentType:     contentType,
		FileSize:        file.FileSize,
		UploadTimestamp: file.UploadedAt,
	}
}

func relativeStoragePath(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
