package storage

import (
	"context"
	"io"
)

// FileStore abstracts where uploaded files live. Paths are opaque handles
// issued at write time and stored on the SourceDocument row.
type FileStore interface {
	Exists(ctx context.Context, path string) (bool, error)
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, content io.Reader) error
	Delete(ctx context.Context, path string) error
}
