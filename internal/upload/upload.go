// Package upload stores user-submitted images and hands back retrievable
// references. The session service only ever persists the reference.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize caps uploaded images at 10MB.
const MaxImageSize = 10 * 1024 * 1024

var (
	ErrEmptyImage       = errors.New("image is empty")
	ErrImageTooLarge    = errors.New("image too large - maximum 10MB allowed")
	ErrInvalidImageType = errors.New("invalid image type - only image uploads allowed")
)

// Storage accepts an uploaded binary and returns a retrievable URL.
// Remove deletes a stored upload by that URL, for when the operation
// carrying the upload is rejected after storage.
type Storage interface {
	Upload(file io.Reader, filename, contentType string, size int64) (string, error)
	Remove(url string) error
}

// LocalStorage writes uploads to a directory on disk, served as static
// files under /uploads.
type LocalStorage struct {
	UploadDir string
	BaseURL   string
}

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(uploadDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{UploadDir: uploadDir, BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload validates the image and writes it under a fresh UUID filename.
// The UUID name avoids path traversal, collisions between users, and
// leaking original filenames.
func (s *LocalStorage) Upload(file io.Reader, filename, contentType string, size int64) (string, error) {
	if size == 0 {
		return "", ErrEmptyImage
	}
	if size > MaxImageSize {
		return "", ErrImageTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrInvalidImageType
	}

	safeFilename := uuid.NewString() + filepath.Ext(filename)
	filePath := filepath.Join(s.UploadDir, safeFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, MaxImageSize)); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.BaseURL, safeFilename), nil
}

// Remove deletes the stored file a URL returned by Upload points at.
// Only the final path element is used, so the lookup cannot escape the
// upload directory.
func (s *LocalStorage) Remove(url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || name == ".." {
		return fmt.Errorf("invalid upload reference %q", url)
	}
	return os.Remove(filepath.Join(s.UploadDir, name))
}
