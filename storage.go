package docflow

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// MaxUploadSize is the upload limit, 10MB
const MaxUploadSize int64 = 10 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// FileStore persists uploaded document files
type FileStore interface {
	Save(ctx context.Context, ice, originalName string, content io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}

// DiskStore writes files under root/documents/{ICE}/{uuid}.{ext}
type DiskStore struct {
	root   string
	logger Logger
}

// NewDiskStore creates a file store rooted at the given directory
func NewDiskStore(root string, logger Logger) *DiskStore {
	if logger == nil {
		logger = defLogger{}
	}
	return &DiskStore{root: root, logger: logger}
}

var _ FileStore = (*DiskStore)(nil)

// Save stores the content under a generated name, returning the path
// relative to the store root. The original name only contributes its
// extension, never path segments.
func (s *DiskStore) Save(ctx context.Context, ice, originalName string, content io.Reader) (string, error) {
	ext, err := SafeExtension(originalName)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, "documents", ice)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, ErrFileSave.Category, ErrFileSave.Message).
			WithTextCode(ErrFileSave.TextCode).
			WithCode(ErrFileSave.Code)
	}

	name := uuid.New().String() + ext
	full := filepath.Join(dir, name)

	out, err := os.Create(full)
	if err != nil {
		return "", errors.Wrap(err, ErrFileSave.Category, ErrFileSave.Message).
			WithTextCode(ErrFileSave.TextCode).
			WithCode(ErrFileSave.Code)
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(content, MaxUploadSize+1))
	if err != nil {
		os.Remove(full)
		return "", errors.Wrap(err, ErrFileSave.Category, ErrFileSave.Message).
			WithTextCode(ErrFileSave.TextCode).
			WithCode(ErrFileSave.Code)
	}

	if written == 0 {
		os.Remove(full)
		return "", ErrEmptyFile
	}

	if written > MaxUploadSize {
		os.Remove(full)
		return "", ErrFileTooLarge
	}

	return filepath.Join("documents", ice, name), nil
}

// Open returns the stored file content for download
func (s *DiskStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full := filepath.Join(s.root, filepath.Clean("/"+path))
	f, err := os.Open(full)
	if err != nil {
		return nil, errors.Wrap(err, ErrFileRead.Category, ErrFileRead.Message).
			WithTextCode(ErrFileRead.TextCode).
			WithCode(ErrFileRead.Code)
	}
	return f, nil
}

// Remove deletes a stored file, used to roll back failed uploads
func (s *DiskStore) Remove(ctx context.Context, path string) error {
	full := filepath.Join(s.root, filepath.Clean("/"+path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryInternal, "failed to remove stored file")
	}
	return nil
}

// SafeExtension validates the original filename and returns its
// lowercased extension. Names with path separators or traversal
// sequences are rejected.
func SafeExtension(originalName string) (string, error) {
	if originalName == "" {
		return "", ErrInvalidFilename
	}

	if strings.ContainsAny(originalName, "/\\") || strings.Contains(originalName, "..") {
		return "", ErrInvalidFilename
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrInvalidFileFormat
	}

	return ext, nil
}
