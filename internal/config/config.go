// Package config loads extract settings from flags, KNOWLEDGE_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/freeeve/edaxknowledge/internal/archive"
	"github.com/freeeve/edaxknowledge/internal/extract"
)

// EnvPrefix prefixes every environment override, e.g. KNOWLEDGE_ARCHIVE.
const EnvPrefix = "KNOWLEDGE"

// Config holds the settings of an extract run.
type Config struct {
	Archive          string        `mapstructure:"archive"`
	Output           string        `mapstructure:"output"` // "-" writes to stdout
	Compress         string        `mapstructure:"compress"`
	Policy           string        `mapstructure:"policy"`
	TotalEntries     int           `mapstructure:"total-entries"`
	ProgressInterval time.Duration `mapstructure:"progress-interval"`
	LogLevel         string        `mapstructure:"log-level"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("archive", "knowledge_archive.tar.zst")
	v.SetDefault("output", "-")
	v.SetDefault("compress", "none")
	v.SetDefault("policy", "skip")
	v.SetDefault("total-entries", extract.DefaultTotalEntries)
	v.SetDefault("progress-interval", 10*time.Second)
	v.SetDefault("log-level", "info")
}

// Load reads configuration from v, the environment and, when file is not
// empty, a YAML config file.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the extract command cannot act on.
func (c *Config) Validate() error {
	var errs []error
	if c.Archive == "" {
		errs = append(errs, errors.New("archive path is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if comp, err := archive.ParseCompression(c.Compress); err != nil || (comp != archive.None && comp != archive.Zstd) {
		errs = append(errs, fmt.Errorf("compress must be none or zstd, got %q", c.Compress))
	}
	if _, err := extract.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.TotalEntries < 0 {
		errs = append(errs, fmt.Errorf("total-entries must not be negative, got %d", c.TotalEntries))
	}
	if c.ProgressInterval < 0 {
		errs = append(errs, fmt.Errorf("progress-interval must not be negative, got %s", c.ProgressInterval))
	}
	return errors.Join(errs...)
}
