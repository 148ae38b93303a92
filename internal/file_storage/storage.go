package filestorage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrFileNotFound = errors.New("file not found")
	// ErrFileExists means another certificate already owns the name, the local file is not kept
	ErrFileExists = errors.New("file already exists")
)

// Store keeps rendered certificate files. Put receives a fully written local file
// and returns the reference persisted on the certificate record.
type Store interface {
	Put(ctx context.Context, localPath string) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, int64, error)
	Remove(ctx context.Context, ref string) error
}
