package csvio

import (
	"flag"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	// CompressionAuto picks the codec from the file extension.
	CompressionAuto = "auto"
	// CompressionNone reads and writes plain CSV.
	CompressionNone = "none"
	// CompressionGzip is the value for gzip compressed CSV.
	CompressionGzip = "gzip"
	// CompressionSnappy is the value for framed snappy compressed CSV.
	CompressionSnappy = "snappy"
)

var (
	supportedCompressions = []string{CompressionAuto, CompressionNone, CompressionGzip, CompressionSnappy}

	errUnsupportedCompression = errors.New("unsupported compression")
	errInvalidDelimiter       = errors.New("delimiter must be a single character other than quote, CR or LF")
)

// Config controls how CSV files are parsed and rendered.
type Config struct {
	Delimiter   string `yaml:"delimiter"`
	LazyQuotes  bool   `yaml:"lazy_quotes"`
	Compression string `yaml:"compression"`
}

// RegisterFlags registers the CSV flags.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("csv.", f)
}

// RegisterFlagsWithPrefix registers the CSV flags with the specified prefix.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Delimiter, prefix+"delimiter", ",", "Field delimiter used when reading and writing CSV.")
	f.BoolVar(&cfg.LazyQuotes, prefix+"lazy-quotes", false, "Accept bare quotes in unquoted fields and non-doubled quotes in quoted fields. By default such input is rejected.")
	f.StringVar(&cfg.Compression, prefix+"compression", CompressionAuto, fmt.Sprintf("Compression of input and output files. Supported values are: %s. With auto, .gz means gzip and .sz or .snappy means snappy.", strings.Join(supportedCompressions, ", ")))
}

// Validate the config and returns an error if the validation doesn't pass.
func (cfg *Config) Validate() error {
	if _, err := cfg.comma(); err != nil {
		return err
	}
	for _, c := range supportedCompressions {
		if cfg.Compression == c {
			return nil
		}
	}
	return errors.Wrapf(errUnsupportedCompression, "%q", cfg.Compression)
}

func (cfg *Config) comma() (rune, error) {
	if cfg.Delimiter == "" {
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(cfg.Delimiter)
	if size != len(cfg.Delimiter) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, errors.Wrapf(errInvalidDelimiter, "%q", cfg.Delimiter)
	}
	return r, nil
}
