package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	SchemeBasic  = "basic"
	SchemeBearer = "bearer"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Upload   UploadConfig   `toml:"upload"`
	Public   PublicConfig   `toml:"public"`
	Log      LogConfig      `toml:"log"`
}

// BackendConfig locates the artist pages REST backend.
type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	PublicURL      string `toml:"public_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AuthConfig selects how the stored credential is attached to requests.
type AuthConfig struct {
	Scheme string `toml:"scheme"`
}

// DatabaseConfig contains the session database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// UploadConfig limits image uploads before they leave the client.
type UploadConfig struct {
	MaxBytes int64 `toml:"max_bytes"`
}

// PublicConfig paces anonymous page lookups.
type PublicConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// LogConfig sets the default [log.Level] by name.
type LogConfig struct {
	Level string `toml:"level"`
}

// Timeout returns the backend timeout as a [time.Duration].
func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogLevel parses [LogConfig.Level], falling back to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Validate checks the fields the client cannot run without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend.base_url %q is not an absolute URL", ErrInvalidConfig, c.Backend.BaseURL)
	}

	switch c.Auth.Scheme {
	case SchemeBasic, SchemeBearer:
	default:
		return fmt.Errorf("%w: auth.scheme must be %q or %q, got %q", ErrInvalidConfig, SchemeBasic, SchemeBearer, c.Auth.Scheme)
	}

	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: backend.timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("%w: upload.max_bytes must be positive", ErrInvalidConfig)
	}
	if c.Public.RequestsPerSecond <= 0 || c.Public.Burst <= 0 {
		return fmt.Errorf("%w: public rate limits must be positive", ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}

	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
