package sampler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

type metrics struct {
	rowsLoaded   prometheus.Counter
	rowsSampled  prometheus.Counter
	bytesWritten prometheus.Counter
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		rowsLoaded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "csvsampler_rows_loaded_total",
			Help: "Total number of data rows read from input files.",
		}),
		rowsSampled: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "csvsampler_rows_sampled_total",
			Help: "Total number of rows selected into samples.",
		}),
		bytesWritten: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "csvsampler_bytes_written_total",
			Help: "Total number of bytes written to output files.",
		}),
		runs: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "csvsampler_runs_total",
			Help: "Total number of sampling runs by outcome.",
		}, []string{"status"}),
		runDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "csvsampler_run_duration_seconds",
			Help:    "Time taken by a sampling run, from load to published output.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}
