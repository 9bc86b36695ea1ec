package storage

import (
	"bufio"
	"context"
	"crypto/rand"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/ulid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Fr0glo/productsampler/pkg/table"
	util_errors "github.com/Fr0glo/productsampler/pkg/util/errors"
)

// LocalStore reads and writes files on an afero filesystem. Writes go to a
// temporary file next to the destination which is renamed into place once
// fully written, so readers never observe a partial file.
type LocalStore struct {
	fs     afero.Fs
	logger log.Logger
}

// NewLocalStore returns a LocalStore over fs.
func NewLocalStore(fs afero.Fs, logger log.Logger) *LocalStore {
	return &LocalStore{
		fs:     fs,
		logger: logger,
	}
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		if util_errors.ErrorIs(err, os.IsNotExist) {
			return nil, util_errors.WithCause(errors.Wrapf(table.ErrNotFound, "open %s", name), err)
		}
		return nil, util_errors.WithCause(errors.Wrapf(table.ErrIO, "open %s", name), err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, util_errors.WithCause(errors.Wrapf(table.ErrIO, "stat %s", name), err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, errors.Wrapf(table.ErrIO, "%s is a directory", name)
	}
	return f, nil
}

func (s *LocalStore) WriteAtomic(ctx context.Context, name string, write func(w io.Writer) error) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tmpName := tempName(name)
	f, err := s.fs.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return 0, util_errors.WithCause(errors.Wrapf(table.ErrIO, "create %s", tmpName), err)
	}

	published := false
	defer func() {
		// If the file was already closed the error is ignored on purpose.
		_ = f.Close()
		if !published {
			if err := s.fs.Remove(tmpName); err != nil && !os.IsNotExist(err) {
				level.Warn(s.logger).Log("msg", "failed to remove temporary file", "file", tmpName, "err", err)
			}
		}
	}()

	buf := bufio.NewWriter(f)
	cw := &countingWriter{w: buf}
	if err := write(cw); err != nil {
		return 0, err
	}
	if err := buf.Flush(); err != nil {
		return 0, util_errors.WithCause(errors.Wrapf(table.ErrIO, "write %s", tmpName), err)
	}
	if err := f.Sync(); err != nil {
		return 0, util_errors.WithCause(errors.Wrapf(table.ErrIO, "sync %s", tmpName), err)
	}
	if err := f.Close(); err != nil {
		return 0, util_errors.WithCause(errors.Wrapf(table.ErrIO, "close %s", tmpName), err)
	}

	if err := s.fs.Rename(tmpName, name); err != nil {
		return 0, util_errors.WithCause(errors.Wrapf(table.ErrIO, "rename %s to %s", tmpName, name), err)
	}
	published = true

	level.Debug(s.logger).Log("msg", "file written", "file", name, "bytes", cw.n)
	return cw.n, nil
}

// tempName returns a unique sibling of name so that the final rename stays
// on the same filesystem.
func tempName(name string) string {
	return name + "." + ulid.MustNew(ulid.Now(), rand.Reader).String() + ".tmp"
}
