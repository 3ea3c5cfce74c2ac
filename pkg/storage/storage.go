// Package storage provides the file storage capability used for course
// materials and complaint attachments. Business logic only sees the
// Storage interface; the filesystem layout and the cloud backend are
// implementation details.
package storage

import (
	"context"
	"io"
)

// Storage stores a named blob and returns a stable reference (URL or path)
// that can be handed back to clients.
type Storage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}
