package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Site   SiteConfig
	Store  StoreConfig
	Export ExportConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SiteConfig holds the storefront fetch settings
type SiteConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// StoreConfig holds record store configuration
type StoreConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "sqlite"
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// ExportConfig holds export tuning
type ExportConfig struct {
	// Vendor substitutes for products whose brand could not be extracted.
	Vendor string `mapstructure:"vendor"`
	// KeepTrailingImage keeps the last gallery image instead of dropping
	// it as a placeholder.
	KeepTrailingImage bool `mapstructure:"keep_trailing_image"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storeport/")

	// Environment variable settings
	v.SetEnvPrefix("STOREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Site defaults
	v.SetDefault("site.base_url", "https://www.modavera.com")
	v.SetDefault("site.user_agent", "")
	v.SetDefault("site.request_timeout", "30s")
	v.SetDefault("site.max_retries", 3)
	v.SetDefault("site.requests_per_minute", 30)

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.path", "storeport.db")
	v.SetDefault("store.ttl", "24h")

	// Export defaults
	v.SetDefault("export.vendor", "Modavera")
	v.SetDefault("export.keep_trailing_image", false)
}

// validate validates the configuration
func validate(config *Config) error {
	u, err := url.Parse(config.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site base_url must be an absolute URL, got: %q", config.Site.BaseURL)
	}

	if config.Store.Type != "memory" && config.Store.Type != "sqlite" {
		return fmt.Errorf("store type must be 'memory' or 'sqlite', got: %s", config.Store.Type)
	}

	if config.Store.Type == "sqlite" && config.Store.Path == "" {
		return fmt.Errorf("store path is required when store type is 'sqlite'")
	}

	if config.Site.MaxRetries < 1 {
		return fmt.Errorf("site max_retries must be at least 1, got: %d", config.Site.MaxRetries)
	}

	return nil
}
