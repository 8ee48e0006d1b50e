package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/EldoranCodes/FileStorageApi/entity"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileInfo(t *testing.T) {
	env := newTestEnv(t)
	ownerA := env.seedConsumer(t, "alice")
	ownerB := env.seedConsumer(t, "bob")

	uploaded := env.uploadOne(t, ownerA, "demo-app", "report.pdf", "pdf-bytes")
	svc := env.fileService(nil)

	info, err := svc.GetFileInfo(context.Background(), ownerA, uploaded.FileID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", info.OriginalName)
	assert.Equal(t, uploaded.StoredName, info.StoredName)
	assert.Equal(t, uploaded.Path, info.Path)

	// Existing id, wrong owner: authorization failure, not not-found.
	_, err = svc.GetFileInfo(context.Background(), ownerB, uploaded.FileID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetFileInfo(context.Background(), ownerA, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiles_ScopedByOwnerAndApp(t *testing.T) {
	env := newTestEnv(t)
	ownerA := env.seedConsumer(t, "alice")
	ownerB := env.seedConsumer(t, "bob")

	env.uploadOne(t, ownerA, "app-one", "a.txt", "one")
	env.uploadOne(t, ownerA, "app-one", "b.txt", "two")
	env.uploadOne(t, ownerA, "app-two", "c.txt", "three")
	env.uploadOne(t, ownerB, "app-one", "d.txt", "four")

	svc := env.fileService(nil)

	files, err := svc.ListFiles(context.Background(), ownerA, "app-one")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = svc.ListFiles(context.Background(), ownerA, "app-two")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = svc.ListFiles(context.Background(), ownerB, "app-one")
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "d.txt", files[0].OriginalName)
}

func TestStreamFile_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "alice")
	other := env.seedConsumer(t, "bob")

	content := "stream me back exactly"
	uploaded := env.uploadOne(t, owner, "demo-app", "data.txt", content)

	svc := env.fileService(nil)

	stream, err := svc.StreamFile(context.Background(), owner, uploaded.StoredName)
	require.NoError(t, err)
	defer stream.Reader.Close()

	data, err := io.ReadAll(stream.Reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Equal(t, "text/plain", stream.ContentType)
	assert.Equal(t, "data.txt", stream.OriginalName)
	assert.Equal(t, int64(len(content)), stream.Size)

	_, err = svc.StreamFile(context.Background(), other, uploaded.StoredName)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.StreamFile(context.Background(), owner, "no-such-name.bin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStreamFile_DefaultsContentType(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "alice")

	batch := &entity.UploadBatch{ID: uuid.New(), ConsumerID: owner.ID, Status: entity.BatchStatusSuccess}
	require.NoError(t, env.repo.BatchRepo.Create(batch))

	path := env.storage.Root() + "/" + owner.ID.String() + "/raw.bin"
	_, err := env.storage.Save(path, strings.NewReader("12345678"))
	require.NoError(t, err)

	require.NoError(t, env.repo.StoredFileRepo.Create(&entity.StoredFile{
		ID:           uuid.New(),
		BatchID:      batch.ID,
		OriginalName: "raw.bin",
		StoredName:   "raw-stored.bin",
		StoragePath:  path,
		AppName:      "demo-app",
		FileSize:     8,
	}))

	stream, err := env.fileService(nil).StreamFile(context.Background(), owner, "raw-stored.bin")
	require.NoError(t, err)
	defer stream.Reader.Close()
	assert.Equal(t, "application/octet-stream", stream.ContentType)
}

func TestStreamFile_MissingBytes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "alice")

	uploaded := env.uploadOne(t, owner, "demo-app", "gone.txt", "bytes")
	require.NoError(t, env.fs.Remove(env.absPath(uploaded.Path)))

	_, err := env.fileService(nil).StreamFile(context.Background(), owner, uploaded.StoredName)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFile_SoftDelete(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedConsumer(t, "alice")
	other := env.seedConsumer(t, "bob")

	uploaded := env.uploadOne(t, owner, "demo-app", "doomed.txt", "bytes")

	notifier := &fakeNotifier{}
	svc := env.fileService(notifier)

	_, err := svc.DeleteFile(context.Background(), other, uploaded.FileID)
	assert.ErrorIs(t, err, ErrForbidden)

	result, err := svc.DeleteFile(context.Background(), owner, uploaded.FileID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []uuid.UUID{uploaded.FileID}, notifier.published)

	// Gone from listing and streaming immediately.
	files, err := svc.ListFiles(context.Background(), owner, "demo-app")
	require.NoError(t, err)
	assert.Empty(t, files)
	_, err = svc.StreamFile(context.Background(), owner, uploaded.StoredName)
	assert.ErrorIs(t, err, ErrNotFound)

	// Bytes stay on disk until the sweep; the row carries the claim stamp.
	exists, err := afero.Exists(env.fs, env.absPath(uploaded.Path))
	require.NoError(t, err)
	assert.True(t, exists)
	row := env.storedFileByID(t, uploaded.FileID)
	assert.NotNil(t, row.DeletedAt)

	// The claim is single-shot.
	_, err = svc.DeleteFile(context.Background(), owner, uploaded.FileID)
	assert.ErrorIs(t, err, ErrNotFound)
}
