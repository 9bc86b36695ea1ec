package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/thanos-io/objstore"

	"github.com/Fr0glo/productsampler/pkg/table"
	util_errors "github.com/Fr0glo/productsampler/pkg/util/errors"
)

// BucketStore reads and writes objects in an object storage bucket. Output
// is buffered in memory and uploaded in a single call, so a failed encode
// never reaches the bucket. Whether a failed upload can leave a partial object
// depends on the provider.
type BucketStore struct {
	bkt    objstore.Bucket
	logger log.Logger
}

// NewBucketStore returns a BucketStore over bkt.
func NewBucketStore(bkt objstore.Bucket, logger log.Logger) *BucketStore {
	return &BucketStore{
		bkt:    bkt,
		logger: logger,
	}
}

func (s *BucketStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := s.bkt.Get(ctx, name)
	if err != nil {
		if util_errors.ErrorIs(err, s.bkt.IsObjNotFoundErr) {
			return nil, util_errors.WithCause(errors.Wrapf(table.ErrNotFound, "get %s from bucket %s", name, s.bkt.Name()), err)
		}
		return nil, util_errors.WithCause(errors.Wrapf(table.ErrIO, "get %s from bucket %s", name, s.bkt.Name()), err)
	}
	return r, nil
}

func (s *BucketStore) WriteAtomic(ctx context.Context, name string, write func(w io.Writer) error) (int64, error) {
	var body bytes.Buffer
	if err := write(&body); err != nil {
		return 0, err
	}

	n := int64(body.Len())
	if err := s.bkt.Upload(ctx, name, &body); err != nil {
		return 0, util_errors.WithCause(errors.Wrapf(table.ErrIO, "upload %s to bucket %s", name, s.bkt.Name()), err)
	}

	level.Debug(s.logger).Log("msg", "object uploaded", "bucket", s.bkt.Name(), "object", name, "bytes", n)
	return n, nil
}
