// Package config handles CLI configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petal-labs/hfgo/core"
)

// Config represents the CLI configuration.
type Config struct {
	DefaultProvider string `yaml:"default_provider"`
	DefaultModel    string `yaml:"default_model"`

	// EndpointURL sends every request to a dedicated endpoint.
	EndpointURL string `yaml:"endpoint_url,omitempty"`

	// BillTo charges requests to an organization.
	BillTo string `yaml:"bill_to,omitempty"`

	// RouterURL overrides the Hugging Face router.
	RouterURL string `yaml:"router_url,omitempty"`

	// HubURL overrides the Hub API.
	HubURL string `yaml:"hub_url,omitempty"`

	Log    core.LogConfig `yaml:"log"`
	Cache  CacheConfig    `yaml:"cache"`
	Server ServerConfig   `yaml:"server"`

	Providers map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig holds configuration for a specific provider.
type ProviderConfig struct {
	// APIKeyRef names the keystore entry holding the provider's own key.
	APIKeyRef string `yaml:"api_key_ref"`
}

// CacheConfig configures the provider mapping cache. Without a Redis
// address mappings are cached in memory.
type CacheConfig struct {
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig is the Redis connection for the shared mapping cache.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// ServerConfig configures `hf serve`.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultServerAddr is the listen address of `hf serve`.
const DefaultServerAddr = ":8080"

// HomeDir returns the hfgo state directory.
// - macOS/Linux: ~/.hfgo
// - Windows: %USERPROFILE%\.hfgo
func HomeDir() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "."
	}

	return filepath.Join(homeDir, ".hfgo")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// LoadConfig loads configuration from the specified path.
// If the file doesn't exist, returns an empty config without error.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Providers: make(map[string]ProviderConfig),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	return cfg, nil
}

// GetProvider returns the provider config for the given ID.
// Returns nil if the provider is not configured.
func (c *Config) GetProvider(id string) *ProviderConfig {
	if c.Providers == nil {
		return nil
	}
	if pc, ok := c.Providers[id]; ok {
		return &pc
	}
	return nil
}

// ServerAddr returns the configured listen address or DefaultServerAddr.
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultServerAddr
	}
	return c.Server.Addr
}
