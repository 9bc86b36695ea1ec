package storage

import (
	"context"
	"io"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/thanos-io/objstore"
	"github.com/thanos-io/objstore/providers/filesystem"

	"github.com/Fr0glo/productsampler/pkg/table"
	util_errors "github.com/Fr0glo/productsampler/pkg/util/errors"
)

// FilesystemStore serves the filesystem bucket. Objects are read through the
// bucket client, but writes bypass its Upload, which truncates the
// destination before copying, and go through a LocalStore rooted at the
// bucket directory instead.
type FilesystemStore struct {
	*BucketStore

	fs    afero.Fs
	local *LocalStore
}

// NewFilesystemStore returns a FilesystemStore for the bucket directory dir.
func NewFilesystemStore(dir string, logger log.Logger) (*FilesystemStore, error) {
	// BasePathFs rejects names outside a relative base such as ".".
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	bkt, err := filesystem.NewBucket(root)
	if err != nil {
		return nil, err
	}
	return newFilesystemStore(bkt, afero.NewBasePathFs(afero.NewOsFs(), root), logger), nil
}

// newFilesystemStore reads from bkt and writes to fs, which must be rooted at
// the same directory as bkt.
func newFilesystemStore(bkt objstore.Bucket, fs afero.Fs, logger log.Logger) *FilesystemStore {
	return &FilesystemStore{
		BucketStore: NewBucketStore(bkt, logger),
		fs:          fs,
		local:       NewLocalStore(fs, logger),
	}
}

// WriteAtomic creates the parent directories of the object key, like the
// bucket does on upload, and then writes through a temporary file.
func (s *FilesystemStore) WriteAtomic(ctx context.Context, name string, write func(w io.Writer) error) (int64, error) {
	if dir := filepath.Dir(name); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o777); err != nil {
			return 0, util_errors.WithCause(errors.Wrapf(table.ErrIO, "create directory for %s", name), err)
		}
	}
	return s.local.WriteAtomic(ctx, name, write)
}
