package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/FortovEgor/ServeMe/logging"
)

// Config is everything the daemon needs to construct an application. Values
// come from defaults, then an optional YAML file, then SERVEME_* environment
// variables, later sources winning.
type Config struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	LogFile         string `mapstructure:"log_file"`
	LogLevel        string `mapstructure:"log_level"`
	LogMaxSize      int64  `mapstructure:"log_max_size"`
	Syslog          bool   `mapstructure:"syslog"`
	Cache           bool   `mapstructure:"cache"`
	LegacyCacheKeys bool   `mapstructure:"legacy_cache_keys"`
	RoutesFile      string `mapstructure:"routes_file"`

	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// TelemetryConfig controls the optional OpenTelemetry export pipeline.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// Load reads configuration. With an empty path it looks for serveme.yaml in
// the working directory and falls back to defaults when there is none; an
// explicit path must be readable.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("port", 8080)
	v.SetDefault("log_file", "log.txt")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_max_size", 0)
	v.SetDefault("syslog", true)
	v.SetDefault("cache", true)
	v.SetDefault("legacy_cache_keys", false)
	v.SetDefault("routes_file", "")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.service_name", "serveme")

	v.SetEnvPrefix("SERVEME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		v.SetConfigName("serveme")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("config: %w", err)
			}
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects values the application cannot serve with.
func (cfg Config) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", cfg.Port)
	}
	if cfg.LogMaxSize < 0 {
		return fmt.Errorf("config: log_max_size must not be negative")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Addr renders the listen address. The empty host binds every interface.
func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

// MinLevel returns the parsed log level. Validate must have accepted the
// config first.
func (cfg Config) MinLevel() logging.Level {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	return level
}
