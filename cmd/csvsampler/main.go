package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/weaveworks/common/logging"
	"gopkg.in/yaml.v2"

	"github.com/Fr0glo/productsampler/pkg/sampler"
	"github.com/Fr0glo/productsampler/pkg/storage"
	util_log "github.com/Fr0glo/productsampler/pkg/util/log"
)

func main() {
	if err := run(os.Args[0], os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fatal("%v", err)
	}
}

func run(name string, args []string, stdout, stderr io.Writer) error {
	var (
		configFilename  string
		metricsTextfile string
		cfg             sampler.Config
	)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	logfmt, loglvl := logging.Format{}, logging.Level{}
	logfmt.RegisterFlags(fs)
	loglvl.RegisterFlags(fs)
	cfg.RegisterFlags(fs)
	fs.StringVar(&configFilename, "config.file", "", "Path to a YAML config file. Values set there override flags.")
	fs.StringVar(&metricsTextfile, "metrics.textfile", "", "If set, write run metrics to this file in the Prometheus text format once the run ends.")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s draws a reproducible random sample of rows from a CSV file.\nWith no flags it samples %d rows of %s with seed %d into %s.\n\n", name, sampler.DefaultCount, sampler.DefaultInputPath, sampler.DefaultSeed, sampler.DefaultOutputPath)
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse flags")
	}

	if configFilename != "" {
		buf, err := os.ReadFile(configFilename)
		if err != nil {
			return errors.Wrapf(err, "failed to load config file from %s", configFilename)
		}
		if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
			return errors.Wrap(err, "failed to parse config file")
		}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "config is invalid")
	}

	logger := util_log.NewLogger(loglvl, logfmt, stderr)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	store, err := storage.NewStore(cfg.Storage, logger)
	if err != nil {
		return errors.Wrap(err, "couldn't initialize storage")
	}

	s := sampler.New(cfg, store, logger, reg)
	res, runErr := s.Run(context.Background())

	if metricsTextfile != "" {
		if err := prometheus.WriteToTextfile(metricsTextfile, reg); err != nil {
			level.Warn(logger).Log("msg", "failed to write metrics textfile", "file", metricsTextfile, "err", err)
		}
	}

	if runErr != nil {
		return errors.Wrap(runErr, "sampling failed")
	}

	fmt.Fprintln(stdout, "Results:")
	fmt.Fprintf(stdout, "  Run:         %s\n", res.RunID)
	fmt.Fprintf(stdout, "  Loaded:      %d rows from %s\n", res.RowsLoaded, cfg.InputPath)
	fmt.Fprintf(stdout, "  Sampled:     %d rows (seed %d)\n", res.RowsSampled, cfg.Seed)
	fmt.Fprintf(stdout, "  Written:     %s to %s\n", humanize.Bytes(uint64(res.BytesWritten)), cfg.OutputPath)
	fmt.Fprintf(stdout, "  Fingerprint: %016x\n", res.Fingerprint)
	return nil
}

func fatal(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
