package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Local writes uploads to a directory on disk. Stored names are a fresh
// uuid plus the sanitized original extension, so concurrent uploads of the
// same file name cannot collide.
type Local struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewLocal creates the upload directory if needed and returns a disk-backed
// storage. baseURL is the public prefix the directory is served under.
func NewLocal(dir, baseURL string, logger zerolog.Logger) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory must not be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Local{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.With().Str("component", "local_storage").Logger(),
	}, nil
}

// Upload writes the blob under a collision-free name and returns its URL.
func (l *Local) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored := uuid.NewString() + sanitizeExt(name)
	path := filepath.Join(l.dir, stored)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	l.logger.Debug().Str("stored_name", stored).Msg("file written to disk")

	return l.baseURL + "/" + stored, nil
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}

	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}

	return ext
}
