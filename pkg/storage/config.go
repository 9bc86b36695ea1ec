package storage

import (
	"flag"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	// Local is the value for the local filesystem backend. Names are paths.
	Local = "local"

	// Filesystem is the value for the filesystem object storage backend.
	// Names are object keys under the bucket directory.
	Filesystem = "filesystem"
)

var (
	supportedBackends = []string{Local, Filesystem}

	ErrUnsupportedStorageBackend = errors.New("unsupported storage backend")
	errMissingBucketDirectory    = errors.New("the filesystem backend requires a bucket directory")
)

// FilesystemConfig stores the configuration for the filesystem bucket.
type FilesystemConfig struct {
	Directory string `yaml:"dir"`
}

// RegisterFlagsWithPrefix registers the flags for filesystem storage with the specified prefix
func (cfg *FilesystemConfig) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.Directory, prefix+"filesystem.dir", "", "Root directory of the filesystem bucket. Input and output names are object keys relative to it.")
}

// Config selects where input is read from and output is written to.
type Config struct {
	Backend    string           `yaml:"backend"`
	Filesystem FilesystemConfig `yaml:"filesystem"`
}

// RegisterFlags registers the storage flags.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("storage.", f)
}

// RegisterFlagsWithPrefix registers the storage flags with the specified prefix.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	cfg.Filesystem.RegisterFlagsWithPrefix(prefix, f)

	f.StringVar(&cfg.Backend, prefix+"backend", Local, fmt.Sprintf("Storage backend for input and output files. Supported backends are: %s.", strings.Join(supportedBackends, ", ")))
}

// Validate the config and returns an error if the validation doesn't pass.
func (cfg *Config) Validate() error {
	switch cfg.Backend {
	case Local:
		return nil
	case Filesystem:
		if cfg.Filesystem.Directory == "" {
			return errMissingBucketDirectory
		}
		return nil
	default:
		return errors.Wrapf(ErrUnsupportedStorageBackend, "%q", cfg.Backend)
	}
}
