package storage

import (
	"context"
	"io"

	"github.com/go-kit/log"
	"github.com/spf13/afero"
)

// Store reads and atomically writes named files.
type Store interface {
	// Open returns a reader for name. A missing name yields an error
	// matching table.ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// WriteAtomic calls write with a destination for name and publishes the
	// result only if write succeeds. It returns the number of bytes
	// published.
	WriteAtomic(ctx context.Context, name string, write func(w io.Writer) error) (int64, error)
}

// NewStore creates the Store for the configured backend.
func NewStore(cfg Config, logger log.Logger) (Store, error) {
	switch cfg.Backend {
	case Local:
		return NewLocalStore(afero.NewOsFs(), logger), nil
	case Filesystem:
		return NewFilesystemStore(cfg.Filesystem.Directory, logger)
	default:
		return nil, ErrUnsupportedStorageBackend
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
