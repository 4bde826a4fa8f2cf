package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/categorize"
)

// Config is the CLI configuration. It is read from metamodel.yaml in the
// working directory (or the --config file), METAMODEL_ environment
// variables and command line flags, flags taking precedence.
type Config struct {
	Paths              []string       `mapstructure:"paths"`
	LogLevel           string         `mapstructure:"log_level"`
	SharedCacheMode    string         `mapstructure:"shared_cache_mode"`
	DefaultCacheAccess string         `mapstructure:"default_cache_access"`
	StrictAccess       bool           `mapstructure:"strict_access"`
	Generate           GenerateConfig `mapstructure:"generate"`
	Export             ExportConfig   `mapstructure:"export"`
}

// GenerateConfig configures the generate command.
type GenerateConfig struct {
	Target  string `mapstructure:"target"`
	Package string `mapstructure:"package"`
	Header  string `mapstructure:"header"`
	Workers int    `mapstructure:"workers"`
}

// ExportConfig configures the export command.
type ExportConfig struct {
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

const (
	configName = "metamodel"
	envPrefix  = "METAMODEL"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("generate.target", "metamodel")
	v.SetDefault("export.format", "json")
	v.SetDefault("export.output", "-")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags binds flags to configuration keys. Keys are the flag names
// with dashes replaced, prefixed with section when it is not empty.
func bindFlags(v *viper.Viper, section string, fs *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		key := strings.ReplaceAll(name, "-", "_")
		if section != "" {
			key = section + "." + key
		}
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// loadConfig reads the configuration file, if any, and decodes the merged
// configuration. A missing default file is not an error; a missing
// explicit file is.
func loadConfig(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// level parses the log level.
func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, metamodel.NewConfigError("LogLevel", c.LogLevel, "use debug, info, warn or error")
	}
	return l, nil
}

// categorizeOptions returns the categorization options the configuration
// sets.
func (c *Config) categorizeOptions(log *slog.Logger) ([]categorize.Option, error) {
	opts := []categorize.Option{categorize.WithLogger(log)}
	if c.SharedCacheMode != "" {
		m, err := metamodel.ParseSharedCacheMode(normalizeEnum(c.SharedCacheMode))
		if err != nil {
			return nil, err
		}
		opts = append(opts, categorize.WithSharedCacheMode(m))
	}
	if c.DefaultCacheAccess != "" {
		a, err := metamodel.ParseCacheAccessType(normalizeEnum(c.DefaultCacheAccess))
		if err != nil {
			return nil, err
		}
		opts = append(opts, categorize.WithDefaultCacheAccessType(a))
	}
	if c.StrictAccess {
		opts = append(opts, categorize.WithStrictAccessType())
	}
	return opts, nil
}

// normalizeEnum accepts enum values in flag style: read-write is READ_WRITE.
func normalizeEnum(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
}
