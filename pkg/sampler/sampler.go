package sampler

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/ulid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Fr0glo/productsampler/pkg/csvio"
	"github.com/Fr0glo/productsampler/pkg/storage"
	"github.com/Fr0glo/productsampler/pkg/table"
	util_errors "github.com/Fr0glo/productsampler/pkg/util/errors"
	util_log "github.com/Fr0glo/productsampler/pkg/util/log"
)

// Sampler loads a CSV table, draws a seeded sample of its rows and writes
// the sample to a new CSV file.
type Sampler struct {
	cfg     Config
	store   storage.Store
	logger  log.Logger
	metrics *metrics
}

// Result summarises one run.
type Result struct {
	RunID        string
	RowsLoaded   int
	RowsSampled  int
	BytesWritten int64
	Fingerprint  uint64
	Duration     time.Duration
}

// New creates a Sampler. The config is expected to be validated.
func New(cfg Config, store storage.Store, logger log.Logger, reg prometheus.Registerer) *Sampler {
	return &Sampler{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		metrics: newMetrics(reg),
	}
}

// Run loads the input, samples it and writes the output, strictly in that
// order. The first failure ends the run; a failed load never touches the
// output.
func (s *Sampler) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	res := Result{RunID: ulid.MustNew(ulid.Now(), rand.Reader).String()}
	logger := util_log.WithRunID(res.RunID, s.logger)

	err := s.run(ctx, logger, &res)
	res.Duration = time.Since(start)
	s.metrics.runDuration.Observe(res.Duration.Seconds())

	if err != nil {
		s.metrics.runs.WithLabelValues(statusFailed).Inc()
		level.Error(logger).Log("msg", "sampling run failed", "duration", res.Duration, "err", err)
		return res, err
	}

	s.metrics.runs.WithLabelValues(statusSuccess).Inc()
	level.Info(logger).Log("msg", "sampling run completed", "rows_loaded", res.RowsLoaded, "rows_sampled", res.RowsSampled, "output", s.cfg.OutputPath, "fingerprint", fmt.Sprintf("%016x", res.Fingerprint), "duration", res.Duration)
	return res, nil
}

func (s *Sampler) run(ctx context.Context, logger log.Logger, res *Result) error {
	level.Info(logger).Log("msg", "sampling run started", "input", s.cfg.InputPath, "output", s.cfg.OutputPath, "count", s.cfg.Count, "fraction", s.cfg.Fraction, "seed", s.cfg.Seed)

	t, err := s.Load(ctx, s.cfg.InputPath)
	if err != nil {
		return errors.Wrap(err, "load input")
	}
	res.RowsLoaded = t.Len()
	level.Info(logger).Log("msg", "input loaded", "rows", t.Len(), "columns", t.Width())

	count := s.cfg.Count
	if s.cfg.Fraction > 0 {
		if count, err = fractionCount(t.Len(), s.cfg.Fraction); err != nil {
			return errors.Wrap(err, "sample input")
		}
	}

	sampled, err := sample(t, count, s.cfg.Seed, s.cfg.PreserveOrder)
	if err != nil {
		return errors.Wrap(err, "sample input")
	}
	s.metrics.rowsSampled.Add(float64(sampled.Len()))
	res.RowsSampled = sampled.Len()
	res.Fingerprint = sampled.Fingerprint()
	level.Debug(logger).Log("msg", "rows sampled", "rows", sampled.Len())

	n, err := s.Write(ctx, sampled, s.cfg.OutputPath)
	if err != nil {
		return errors.Wrap(err, "write output")
	}
	res.BytesWritten = n
	level.Info(logger).Log("msg", "output written", "file", s.cfg.OutputPath, "size", humanize.Bytes(uint64(n)))
	return nil
}

// Load reads and parses the CSV file at path. Missing files fail with
// table.ErrNotFound, malformed content with table.ErrParse.
func (s *Sampler) Load(ctx context.Context, path string) (*table.Table, error) {
	f, err := s.store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer s.closeWithLogOnErr(f, path)

	r, err := csvio.NewReader(f, csvio.CompressionFor(path, s.cfg.CSV.Compression))
	if err != nil {
		return nil, util_errors.WithCause(table.ErrParse, err)
	}
	defer s.closeWithLogOnErr(r, path)

	t, err := csvio.Decode(r, s.cfg.CSV)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	s.metrics.rowsLoaded.Add(float64(t.Len()))
	return t, nil
}

// Write renders t as CSV and atomically publishes it at path, returning the
// number of bytes written.
func (s *Sampler) Write(ctx context.Context, t *table.Table, path string) (int64, error) {
	n, err := s.store.WriteAtomic(ctx, path, func(w io.Writer) error {
		cw, err := csvio.NewWriter(w, csvio.CompressionFor(path, s.cfg.CSV.Compression))
		if err != nil {
			return util_errors.WithCause(table.ErrInvalidArgument, err)
		}
		if err := csvio.Encode(cw, t, s.cfg.CSV); err != nil {
			_ = cw.Close()
			return err
		}
		if err := cw.Close(); err != nil {
			return util_errors.WithCause(table.ErrIO, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.metrics.bytesWritten.Add(float64(n))
	return n, nil
}

func (s *Sampler) closeWithLogOnErr(c io.Closer, path string) {
	if err := c.Close(); err != nil {
		level.Warn(s.logger).Log("msg", "failed to close file", "file", path, "err", err)
	}
}
