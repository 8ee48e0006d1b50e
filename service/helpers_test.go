package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/EldoranCodes/FileStorageApi/config"
	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/repository"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	repo    *repository.Repository
	storage *infra.FileStorage
	logger  *infra.LoggerClient
	fs      afero.Fs
	db      *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// A uniquely named shared-cache database keeps gorm's pooled
	// connections on the same in-memory store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Consumer{},
		&entity.APIKey{},
		&entity.UploadBatch{},
		&entity.StoredFile{},
	))

	fs := afero.NewMemMapFs()

	return &testEnv{
		repo:    repository.NewRepository(db),
		storage: infra.NewFileStorageWithFs(fs, "/data"),
		logger:  infra.InitLoggerClient(&config.EnvConfig{}),
		fs:      fs,
		db:      db,
	}
}

func (e *testEnv) seedConsumer(t *testing.T, name string) *entity.Consumer {
	t.Helper()
	consumer := &entity.Consumer{
		ID:     uuid.New(),
		Name:   name,
		Status: entity.ConsumerStatusActive,
		Role:   "consumer",
	}
	require.NoError(t, e.repo.ConsumerRepo.Create(consumer))
	return consumer
}

func (e *testEnv) uploadService() *UploadService {
	return NewUploadService(e.repo.BatchRepo, e.repo.StoredFileRepo, e.storage, e.logger)
}

func (e *testEnv) fileService(notifier cleanupNotifier) *FileService {
	return NewFileService(e.repo.StoredFileRepo, e.storage, e.logger, notifier)
}

func (e *testEnv) batchService() *BatchService {
	return NewBatchService(e.repo.BatchRepo, e.repo.StoredFileRepo, e.storage, e.logger)
}

func (e *testEnv) cleanupService() *CleanupService {
	return NewCleanupService(e.repo.StoredFileRepo, e.storage, e.logger)
}

// uploadOne stores a single file and returns its result.
func (e *testEnv) uploadOne(t *testing.T, owner *entity.Consumer, appName, name, content string) UploadedFileResult {
	t.Helper()
	result, err := e.uploadService().Upload(context.Background(), owner, appName, []UploadFile{
		{OriginalName: name, ContentType: "text/plain", Reader: strings.NewReader(content)},
	})
	require.NoError(t, err)
	require.Equal(t, entity.BatchStatusSuccess, result.Status)
	require.Len(t, result.Files, 1)
	return result.Files[0]
}

func (e *testEnv) countStoredFiles(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&entity.StoredFile{}).Count(&count).Error)
	return count
}

func (e *testEnv) storedFileByID(t *testing.T, id uuid.UUID) *entity.StoredFile {
	t.Helper()
	var file entity.StoredFile
	require.NoError(t, e.db.Where("id = ?", id).First(&file).Error)
	return &file
}

func testReader(content string) *strings.Reader {
	return strings.NewReader(content)
}

// fakeNotifier records purge publications.
type fakeNotifier struct {
	published []uuid.UUID
}

func (f *fakeNotifier) PublishFilePurge(_ context.Context, fileID uuid.UUID) error {
	f.published = append(f.published, fileID)
	return nil
}

// absPath rebuilds the absolute storage path from a result's relative path.
func (e *testEnv) absPath(relPath string) string {
	return e.storage.Root() + "/" + relPath
}
