package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilename(t *testing.T) {
	valid := []string{"report.pdf", "photo.JPG", "archive.tar.gz", "no-extension"}
	for _, name := range valid {
		assert.NoError(t, validateFilename(name), name)
	}

	invalid := []string{"", "   ", "a/../b.txt", "..", "dir/file.txt", `dir\file.txt`, ".hidden", ".env"}
	for _, name := range invalid {
		assert.ErrorIs(t, validateFilename(name), ErrInvalidRequest, name)
	}
}

func TestUpload_EmptyFileSet(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "acme")

	_, err := env.uploadService().Upload(context.Background(), owner, "demo-app", nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// Rejected before any side effect.
	var batches int64
	require.NoError(t, env.db.Model(&entity.UploadBatch{}).Count(&batches).Error)
	assert.Zero(t, batches)
}

func TestUpload_MultipleFiles(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "acme")

	result, err := env.uploadService().Upload(context.Background(), owner, "demo-app", []UploadFile{
		{OriginalName: "a.txt", ContentType: "text/plain", Reader: strings.NewReader("alpha")},
		{OriginalName: "b.pdf", ContentType: "application/pdf", Reader: strings.NewReader("beta-bytes")},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BatchStatusSuccess, result.Status)
	require.Len(t, result.Files, 2)

	batch, err := env.repo.BatchRepo.FindByID(result.BatchID)
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusSuccess, batch.Status)
	assert.Equal(t, owner.ID, batch.ConsumerID)

	for i, want := range []string{"alpha", "beta-bytes"} {
		row := env.storedFileByID(t, result.Files[i].FileID)
		assert.Equal(t, int64(len(want)), row.FileSize)

		data, err := afero.ReadFile(env.fs, row.StoragePath)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}

	// Stored names keep the original extension and never collide.
	assert.True(t, strings.HasSuffix(result.Files[0].StoredName, ".txt"))
	assert.True(t, strings.HasSuffix(result.Files[1].StoredName, ".pdf"))
	assert.NotEqual(t, result.Files[0].StoredName, result.Files[1].StoredName)
}

func TestUpload_InvalidFilenameSkipsOnlyThatFile(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "acme")

	result, err := env.uploadService().Upload(context.Background(), owner, "demo-app", []UploadFile{
		{OriginalName: "good.txt", ContentType: "text/plain", Reader: strings.NewReader("fine")},
		{OriginalName: "../evil.txt", ContentType: "text/plain", Reader: strings.NewReader("nope")},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BatchStatusFailed, result.Status)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "good.txt", result.Files[0].OriginalName)
	assert.EqualValues(t, 1, env.countStoredFiles(t))
}

func TestUpload_RejectedFilenameWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "acme")

	for _, name := range []string{"..secret", "a/b.txt", `a\b.txt`, ".hidden", "  "} {
		result, err := env.uploadService().Upload(context.Background(), owner, "demo-app", []UploadFile{
			{OriginalName: name, ContentType: "text/plain", Reader: strings.NewReader("payload")},
		})
		require.NoError(t, err, name)
		assert.Equal(t, entity.BatchStatusFailed, result.Status, name)
		assert.Empty(t, result.Files, name)
	}

	assert.EqualValues(t, 0, env.countStoredFiles(t))

	written := 0
	_ = afero.Walk(env.fs, "/", func(_ string, info os.FileInfo, err error) error {
		if err == nil && info != nil && !info.IsDir() {
			written++
		}
		return nil
	})
	assert.Zero(t, written)
}

// failingCreateFs fails file creation for paths with a marker extension.
type failingCreateFs struct {
	afero.Fs
	failExt string
}

func (f *failingCreateFs) Create(name string) (afero.File, error) {
	if strings.HasSuffix(name, f.failExt) {
		return nil, errors.New("disk full")
	}
	return f.Fs.Create(name)
}

func newFailingStorage(env *testEnv, failExt string) *infra.FileStorage {
	return infra.NewFileStorageWithFs(&failingCreateFs{Fs: env.fs, failExt: failExt}, env.storage.Root())
}

func TestUpload_DiskWriteFailureKeepsPartialBatch(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "acme")

	storage := newFailingStorage(env, ".bin")
	svc := NewUploadService(env.repo.BatchRepo, env.repo.StoredFileRepo, storage, env.logger)

	result, err := svc.Upload(context.Background(), owner, "demo-app", []UploadFile{
		{OriginalName: "first.txt", ContentType: "text/plain", Reader: strings.NewReader("kept")},
		{OriginalName: "second.bin", ContentType: "application/octet-stream", Reader: strings.NewReader("lost")},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BatchStatusFailed, result.Status)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "first.txt", result.Files[0].OriginalName)

	// The failed file left no metadata behind; the stored one lists.
	assert.EqualValues(t, 1, env.countStoredFiles(t))
	files, err := env.repo.StoredFileRepo.FindActiveByConsumerAndApp(owner.ID, "demo-app")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "first.txt", files[0].OriginalName)
}

func TestUpload_SniffsContentTypeWhenMissing(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "acme")

	pngHeader := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 16)
	result, err := env.uploadService().Upload(context.Background(), owner, "demo-app", []UploadFile{
		{OriginalName: "pic.png", Reader: strings.NewReader(pngHeader)},
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	row := env.storedFileByID(t, result.Files[0].FileID)
	assert.Equal(t, "image/png", row.ContentType)
	assert.Equal(t, int64(len(pngHeader)), row.FileSize)
}
