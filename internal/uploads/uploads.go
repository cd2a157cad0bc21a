// Package uploads stores complaint evidence and resolution images and hands
// back the public URLs the records keep.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"campusdesk/backend/internal/config"

	"github.com/google/uuid"
)

type Store struct {
	Dir     string
	BaseURL string
}

// NewStore prepares the upload directory. Dir defaults to ./uploads when
// UPLOAD_DIR is unset.
func NewStore(baseURL string) (*Store, error) {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &Store{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save validates size and MIME type, writes the file under a generated name
// and returns its public URL.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > config.MaxAttachmentBytes {
		return "", fmt.Errorf("attachment exceeds %d bytes", int64(config.MaxAttachmentBytes))
	}

	contentType := header.Header.Get("Content-Type")
	ext, ok := config.AllowedAttachmentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported attachment type %q", contentType)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to store attachment: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, config.MaxAttachmentBytes)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store attachment: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.BaseURL, name), nil
}
