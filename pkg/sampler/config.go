package sampler

import (
	"flag"
	"math"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Fr0glo/productsampler/pkg/csvio"
	"github.com/Fr0glo/productsampler/pkg/storage"
)

const (
	DefaultInputPath  = "products.csv"
	DefaultOutputPath = "sample.csv"
	DefaultCount      = 500
	DefaultSeed       = 42
)

var (
	errNegativeCount    = errors.New("sample count must not be negative")
	errInvalidFraction  = errors.New("sample fraction must be within [0, 1]")
	errMissingInput     = errors.New("input path must be set")
	errMissingOutput    = errors.New("output path must be set")
	errSamePaths        = errors.New("input and output paths must differ")
	errFractionAndCount = errors.New("sample fraction and a non-default sample count are mutually exclusive")
)

// Config holds everything one sampling run needs.
type Config struct {
	InputPath     string  `yaml:"input_path"`
	OutputPath    string  `yaml:"output_path"`
	Count         int     `yaml:"count"`
	Fraction      float64 `yaml:"fraction"`
	Seed          int64   `yaml:"seed"`
	PreserveOrder bool    `yaml:"preserve_order"`

	CSV     csvio.Config   `yaml:"csv"`
	Storage storage.Config `yaml:"storage"`
}

// RegisterFlags registers the sampler flags and those of its dependencies.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.CSV.RegisterFlags(f)
	cfg.Storage.RegisterFlags(f)

	f.StringVar(&cfg.InputPath, "sampler.input-path", DefaultInputPath, "CSV file to sample rows from. The first line must be the header.")
	f.StringVar(&cfg.OutputPath, "sampler.output-path", DefaultOutputPath, "CSV file the sample is written to. Created or replaced atomically.")
	f.IntVar(&cfg.Count, "sampler.count", DefaultCount, "Number of rows to sample. Zero writes the header only. Must not exceed the number of input rows.")
	f.Float64Var(&cfg.Fraction, "sampler.fraction", 0, "Fraction of input rows to sample, within [0, 1]. Zero disables it. Cannot be combined with a non-default -sampler.count.")
	f.Int64Var(&cfg.Seed, "sampler.seed", DefaultSeed, "Seed of the pseudo-random generator. The same seed and input always give the same sample.")
	f.BoolVar(&cfg.PreserveOrder, "sampler.preserve-order", false, "Write sampled rows in input order instead of draw order.")
}

// Validate the config and returns an error if the validation doesn't pass.
func (cfg *Config) Validate() error {
	if cfg.InputPath == "" {
		return errMissingInput
	}
	if cfg.OutputPath == "" {
		return errMissingOutput
	}
	if filepath.Clean(cfg.InputPath) == filepath.Clean(cfg.OutputPath) {
		return errSamePaths
	}
	if cfg.Count < 0 {
		return errNegativeCount
	}
	if math.IsNaN(cfg.Fraction) || cfg.Fraction < 0 || cfg.Fraction > 1 {
		return errInvalidFraction
	}
	if cfg.Fraction > 0 && cfg.Count != DefaultCount {
		return errFractionAndCount
	}
	if err := cfg.CSV.Validate(); err != nil {
		return errors.Wrap(err, "invalid csv config")
	}
	if err := cfg.Storage.Validate(); err != nil {
		return errors.Wrap(err, "invalid storage config")
	}
	return nil
}
