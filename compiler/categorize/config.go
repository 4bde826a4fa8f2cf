package categorize

import (
	"log/slog"
	"slices"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
)

// Config holds the settings of a categorization pass.
type Config struct {
	// Logger receives the soft diagnostics of the pass. Defaults to a
	// logger that discards everything.
	Logger *slog.Logger

	// SharedCacheMode decides which hierarchies are cached.
	SharedCacheMode metamodel.SharedCacheMode

	// DefaultCacheAccessType is the concurrency strategy of cache regions
	// whose @Cache annotation names none.
	DefaultCacheAccessType metamodel.CacheAccessType

	// DefaultListeners are appended to the listener chain of every
	// absolute root, after the listeners of the mapping documents.
	DefaultListeners []*load.EntityListener

	// Mappings are extra mapping documents, on top of the ones the class
	// model provides.
	Mappings []*load.Mappings

	// StrictAccessType turns an undeterminable hierarchy access type into
	// an AccessTypeError.
	StrictAccessType bool
}

// Option configures a categorization pass.
type Option func(*Config) error

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

// WithSharedCacheMode sets the shared cache mode.
func WithSharedCacheMode(m metamodel.SharedCacheMode) Option {
	return func(c *Config) error {
		if m > metamodel.CacheNone {
			return metamodel.NewConfigError("SharedCacheMode", m, "unknown shared cache mode")
		}
		c.SharedCacheMode = m
		return nil
	}
}

// WithDefaultCacheAccessType sets the implicit cache concurrency strategy.
func WithDefaultCacheAccessType(a metamodel.CacheAccessType) Option {
	return func(c *Config) error {
		if a > metamodel.Transactional {
			return metamodel.NewConfigError("DefaultCacheAccessType", a, "unknown cache access type")
		}
		c.DefaultCacheAccessType = a
		return nil
	}
}

// WithDefaultListeners appends default entity listeners.
func WithDefaultListeners(ls ...*load.EntityListener) Option {
	return func(c *Config) error {
		for _, l := range ls {
			if l == nil || l.Class == "" {
				return metamodel.NewConfigError("DefaultListeners", nil, "listener class cannot be empty")
			}
		}
		c.DefaultListeners = append(c.DefaultListeners, ls...)
		return nil
	}
}

// WithMappings appends mapping documents.
func WithMappings(ms ...*load.Mappings) Option {
	return func(c *Config) error {
		for _, m := range ms {
			if m != nil {
				c.Mappings = append(c.Mappings, m)
			}
		}
		return nil
	}
}

// WithStrictAccessType makes an undeterminable hierarchy access type an
// error instead of leaving it unknown.
func WithStrictAccessType() Option {
	return func(c *Config) error {
		c.StrictAccessType = true
		return nil
	}
}

var discard = slog.New(slog.DiscardHandler)

func (c *Config) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return discard
	}
	return c.Logger
}

// newConfig applies the options over the defaults.
func newConfig(model ClassModel, opts ...Option) (*Config, error) {
	cfg := &Config{Logger: discard}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if p, ok := model.(interface{ Mappings() []*load.Mappings }); ok {
		cfg.Mappings = slices.Concat(p.Mappings(), cfg.Mappings)
	}
	return cfg, nil
}

// defaultAccess returns the access type of the persistence-unit defaults,
// the last mapping document declaring one wins.
func (c *Config) defaultAccess() metamodel.AccessType {
	access := metamodel.AccessUnknown
	for _, m := range c.Mappings {
		if m.Defaults != nil && m.Defaults.Access != metamodel.AccessUnknown {
			access = m.Defaults.Access
		}
	}
	return access
}

// defaultListeners returns the listeners of the mapping documents followed
// by the configured ones.
func (c *Config) defaultListeners() []*load.EntityListener {
	var ls []*load.EntityListener
	for _, m := range c.Mappings {
		if m.Defaults != nil {
			ls = append(ls, m.Defaults.EntityListeners...)
		}
	}
	return append(ls, c.DefaultListeners...)
}
