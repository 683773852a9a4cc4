// Package media stores uploaded store photos on the local filesystem.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

// MaxPhotoBytes caps a single upload.
const MaxPhotoBytes = 10 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalStore writes photos under a directory and hands back the file name as the photo reference.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory photos are written to.
func (s *LocalStore) Dir() string { return s.dir }

// Save writes r as a new photo and returns its reference.
// Only image content types are accepted.
func (s *LocalStore) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := extensions[mediaType]
	if !ok {
		return "", &domain.ValidationError{Fields: []domain.FieldError{{Field: "photo", Message: "that filetype isn't allowed"}}}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create photo: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, MaxPhotoBytes+1))
	closeErr := f.Close()
	if err == nil && n > MaxPhotoBytes {
		err = &domain.ValidationError{Fields: []domain.FieldError{{Field: "photo", Message: "photo is too large"}}}
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return "", err
		}
		return "", fmt.Errorf("write photo: %w", err)
	}
	return name, nil
}
