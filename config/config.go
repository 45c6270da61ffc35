package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pb33f/harview/motor"
	"github.com/pb33f/harview/motor/model"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. HARVIEW_SERVER_PORT.
	EnvPrefix = "HARVIEW"

	// DefaultConfigName is looked up in the working directory when no --config is given.
	DefaultConfigName = "harview"
)

// Config is the full harview configuration.
type Config struct {
	Server  ServerConfig         `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig        `mapstructure:"logging" yaml:"logging"`
	Filters []model.CustomFilter `mapstructure:"filters" yaml:"filters"`
}

// ServerConfig configures the http api.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout" yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout"`
}

// LoggingConfig configures slog, and optionally a rotating log file.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB" yaml:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups" yaml:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays" yaml:"maxAgeDays"`
}

// New returns a viper instance with defaults and environment overrides set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// SetDefaults sets the default configuration values
func SetDefaults(v *viper.Viper) {
	// server
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 9876)
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.shutdownTimeout", "5s")

	// logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.maxSizeMB", 10)
	v.SetDefault("logging.maxBackups", 3)
	v.SetDefault("logging.maxAgeDays", 28)
}

// Load reads the config file into v and decodes it. An explicit path must exist;
// without one, ./harview.yaml is used when present.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks ports and every configured filter pattern.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	seen := make(map[string]struct{}, len(c.Filters))
	for i, f := range c.Filters {
		if f.ID == "" {
			return fmt.Errorf("filters[%d]: missing id", i)
		}
		if model.IsBuiltIn(f.ID) {
			return fmt.Errorf("filters[%d]: id %q is reserved", i, f.ID)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("filters[%d]: duplicate id %q", i, f.ID)
		}
		seen[f.ID] = struct{}{}

		if result := motor.ValidatePattern(f.Pattern, f.PatternType); !result.IsValid {
			return fmt.Errorf("filters[%d] (%s): %w: %s", i, f.ID, motor.ErrInvalidPattern, result.Error)
		}
	}

	return nil
}

// SeedFilters returns the configured filters, or the built-in examples when none are set.
func (c *Config) SeedFilters() []model.CustomFilter {
	if len(c.Filters) == 0 {
		return motor.DefaultCustomFilters()
	}
	return append([]model.CustomFilter{}, c.Filters...)
}

// Addr is the listen address of the http api.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SlogLevel maps the configured level name onto a slog level, info when unknown.
func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
