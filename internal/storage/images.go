package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix is the URL prefix stored in the database for every image
const PublicPrefix = "uploads"

var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image too large")
)

// ImageStore persists product images
type ImageStore interface {
	Validate(filename string, size int64) error
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(relPath string) error
	MaxBytes() int64
}

type localImageStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// NewLocalImageStore creates the upload directory when needed and returns a
// store writing into it
func NewLocalImageStore(dir string, maxBytes int64) (ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &localImageStore{
		dir:      dir,
		maxBytes: maxBytes,
		now:      time.Now,
	}, nil
}

func (s *localImageStore) MaxBytes() int64 {
	return s.maxBytes
}

// Validate checks the extension and declared size of an upload
func (s *localImageStore) Validate(filename string, size int64) error {
	if !AllowedImage(filename) {
		return ErrUnsupportedImageType
	}
	if size > s.maxBytes {
		return ErrImageTooLarge
	}
	return nil
}

// Save writes the image under a unique name and returns the path to persist,
// e.g. uploads/20261014_101500_1a2b3c4d_milk.png
func (s *localImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := s.Validate(filename, 0); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_%s",
		s.now().Format("20060102_150405"),
		strings.ReplaceAll(uuid.New().String(), "-", "")[:8],
		storedName(filename),
	)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, io.LimitReader(r, s.maxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if written > s.maxBytes {
		return "", ErrImageTooLarge
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}

// Remove deletes a previously saved image. Missing files are not an error.
func (s *localImageStore) Remove(relPath string) error {
	name := path.Base(strings.TrimPrefix(relPath, PublicPrefix+"/"))
	if name == "." || name == "/" || name == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
