// Package config loads carmanager settings from defaults, an optional TOML
// file and CARMANAGER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. CARMANAGER_API_BASE_URL.
const EnvPrefix = "CARMANAGER"

// ConfigEnv names the variable that points at an explicit config file.
const ConfigEnv = "CARMANAGER_CONFIG"

// Config holds application configuration.
type Config struct {
	API   APIConfig   `mapstructure:"api"`
	Log   LogConfig   `mapstructure:"log"`
	Trace TraceConfig `mapstructure:"trace"`
}

// APIConfig describes the /car backend.
type APIConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"`
}

// LogConfig controls the diagnostic log. The TUI owns the terminal, so logs go to a file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// TraceConfig controls OTLP span export. An empty Endpoint disables export.
type TraceConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// Load reads configuration. path may be empty; then CARMANAGER_CONFIG is
// consulted, then $HOME/.config/carmanager/config.toml. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.headers", map[string]string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(os.TempDir(), "carmanager.log"))
	v.SetDefault("trace.endpoint", "")
	v.SetDefault("trace.service_name", "carmanager")
	v.SetDefault("trace.insecure", true)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "carmanager"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Standard OTel variables work as well as the prefixed ones.
	_ = v.BindEnv("trace.endpoint", EnvPrefix+"_TRACE_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	_ = v.BindEnv("trace.service_name", EnvPrefix+"_TRACE_SERVICE_NAME", "OTEL_SERVICE_NAME")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that would otherwise fail on first use.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q: scheme and host are required", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	return nil
}
