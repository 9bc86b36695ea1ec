package log

import (
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/weaveworks/common/logging"
)

// NewLogger creates a logger writing logfmt or JSON lines to w, filtered at
// the given level. Lines carry a UTC timestamp and the caller.
func NewLogger(logLevel logging.Level, logFormat logging.Format, w io.Writer) log.Logger {
	var logger log.Logger
	if logFormat.String() == "json" {
		logger = log.NewJSONLogger(log.NewSyncWriter(w))
	} else {
		logger = log.NewLogfmtLogger(log.NewSyncWriter(w))
	}

	// The filter wraps the valuers so dropped lines never evaluate them.
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.Caller(5))
	return level.NewFilter(logger, LevelFilter(logLevel.String()))
}

// LevelFilter maps a -log.level value to a go-kit level option. Unknown
// values fall back to info.
func LevelFilter(l string) level.Option {
	switch l {
	case "debug":
		return level.AllowDebug()
	case "info":
		return level.AllowInfo()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// WithRunID returns a Logger that tags every line with the run identifier.
func WithRunID(runID string, l log.Logger) log.Logger {
	return log.With(l, "run_id", runID)
}
