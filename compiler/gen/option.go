package gen

import (
	"go/token"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/syssam/metamodel"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by metamodel. DO NOT EDIT."

// Config holds the settings of a generation run.
type Config struct {
	// Target is the output directory.
	Target string

	// Package is the name of the generated package. Defaults to the base
	// name of Target.
	Package string

	// Header is the comment written at the top of every file.
	Header string

	// Workers bounds the number of files rendered concurrently.
	Workers int

	// Logger receives one debug record per written file.
	Logger *slog.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return metamodel.NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the name of the generated package.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(pkg) {
			return metamodel.NewConfigError("Package", pkg, "package name must be a Go identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return metamodel.NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return metamodel.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

func newConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
		Logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.Target == "" {
		return nil, metamodel.NewConfigError("Target", nil, "missing target directory")
	}
	if c.Package == "" {
		c.Package = filepath.Base(c.Target)
		if !token.IsIdentifier(c.Package) {
			return nil, metamodel.NewConfigError("Package", c.Package, "package name derived from the target is not a Go identifier")
		}
	}
	return c, nil
}
