package infra

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/EldoranCodes/FileStorageApi/config"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// dateLayout renders MM-DD-YYYY directory segments.
const dateLayout = "01-02-2006"

// FileStorage resolves on-disk paths and moves bytes for the upload flow.
// Layout: <root>/<consumerID>/<appName>/<MM-DD-YYYY>/<storedName>, where blank
// grouping segments are skipped.
type FileStorage struct {
	fs   afero.Fs
	root string
}

func InitFileStorage(cfg *config.EnvConfig) *FileStorage {
	root, err := filepath.Abs(cfg.Storage.RootDir)
	if err != nil {
		log.Fatalf("File storage root resolution failed: %v", err)
	}

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(root, 0o755); err != nil {
		log.Fatalf("File storage root creation failed: %v", err)
	}

	log.Println("File storage root:", root)

	return &FileStorage{fs: fs, root: root}
}

// NewFileStorageWithFs builds a storage client over any afero filesystem.
// Tests use an in-memory filesystem.
func NewFileStorageWithFs(fs afero.Fs, root string) *FileStorage {
	return &FileStorage{fs: fs, root: root}
}

func (s *FileStorage) Root() string {
	return s.root
}

// DateSegment formats the calendar-date grouping segment for an upload time.
func DateSegment(t time.Time) string {
	return t.Format(dateLayout)
}

// ResolveUploadDir joins the root with the consumer id and the non-blank
// grouping segments, creating all intermediate directories. Directory creation
// is idempotent, so concurrent resolution of the same path is safe.
func (s *FileStorage) ResolveUploadDir(consumerID uuid.UUID, segments ...string) (string, error) {
	dir := filepath.Join(s.root, consumerID.String())
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		dir = filepath.Join(dir, segment)
	}

	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Save copies the stream to path, overwriting any same-named target. Stored
// names are unique so overwriting is a safety net, not expected behavior.
func (s *FileStorage) Save(path string, r io.Reader) (int64, error) {
	f, err := s.fs.Create(path)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, err
	}
	return n, nil
}

func (s *FileStorage) Open(path string) (afero.File, error) {
	return s.fs.Open(path)
}

func (s *FileStorage) Exists(path string) (bool, error) {
	_, err := s.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove deletes the file and reports an error when it is absent. Batch
// deletion uses this to surface files that went missing from disk.
func (s *FileStorage) Remove(path string) error {
	return s.fs.Remove(path)
}

// RemoveIfExists deletes the file and treats a missing target as success.
// The sweeper relies on this for idempotent re-runs.
func (s *FileStorage) RemoveIfExists(path string) error {
	err := s.fs.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
