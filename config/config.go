package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DataPaths holds data directory and file path configuration.
// These paths can be overridden via environment variables.
type DataPaths struct {
	// DataDir is the base data directory (AUTOCATALOG_DATA_DIR, default: ./data)
	DataDir string `mapstructure:"data_dir"`
	// SQLitePath is the SQLite database file path (AUTOCATALOG_SQLITE_PATH, default: ${DataDir}/autocatalog.db)
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Config holds all configuration for the catalog service
type Config struct {
	// DataPaths holds all data directory configuration
	DataPaths DataPaths `mapstructure:"data_paths"`

	API struct {
		Port           int      `mapstructure:"port"`
		Host           string   `mapstructure:"host"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		TrustProxy     bool     `mapstructure:"trust_proxy"`
		ReadTimeout    int      `mapstructure:"read_timeout"`  // seconds
		WriteTimeout   int      `mapstructure:"write_timeout"` // seconds
		RateLimit      struct {
			RequestsPerSecond int `mapstructure:"requests_per_second"`
			Burst             int `mapstructure:"burst"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"api"`

	Auth struct {
		// Enabled gates all mutating catalog endpoints behind bearer
		// tokens. Reads stay open regardless.
		Enabled   bool   `mapstructure:"enabled"`
		JWTSecret string `mapstructure:"jwt_secret"`
		Issuer    string `mapstructure:"issuer"`
	} `mapstructure:"auth"`

	// Identity configures the delegated identity provider used by the
	// register and authenticate endpoints.
	Identity struct {
		Issuer       string        `mapstructure:"issuer"` // base URL, e.g. https://tenant.auth0.com
		ClientID     string        `mapstructure:"client_id"`
		ClientSecret string        `mapstructure:"client_secret"`
		Audience     string        `mapstructure:"audience"`
		Connection   string        `mapstructure:"connection"`
		Timeout      time.Duration `mapstructure:"timeout"`
	} `mapstructure:"identity"`

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("data_paths.data_dir", "./data")
	viper.SetDefault("data_paths.sqlite_path", "") // Empty = derive from data_dir

	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.host", "0.0.0.0")
	viper.SetDefault("api.allowed_origins", []string{"*"})
	viper.SetDefault("api.trust_proxy", false)
	viper.SetDefault("api.read_timeout", 15)
	viper.SetDefault("api.write_timeout", 15)
	viper.SetDefault("api.rate_limit.requests_per_second", 100)
	viper.SetDefault("api.rate_limit.burst", 200)

	viper.SetDefault("auth.enabled", true)
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.issuer", "autocatalog")

	viper.SetDefault("identity.issuer", "")
	viper.SetDefault("identity.client_id", "")
	viper.SetDefault("identity.client_secret", "")
	viper.SetDefault("identity.audience", "")
	viper.SetDefault("identity.connection", "Username-Password-Authentication")
	viper.SetDefault("identity.timeout", 10*time.Second)

	viper.SetDefault("logging.level", "info")
}

// loadFromEnv sets up environment variable loading
func loadFromEnv() {
	viper.SetEnvPrefix("AUTOCATALOG")
	viper.AutomaticEnv()

	// Explicit bindings for the settings usually injected per
	// deployment rather than written into a config file.
	_ = viper.BindEnv("data_paths.data_dir", "AUTOCATALOG_DATA_DIR")
	_ = viper.BindEnv("data_paths.sqlite_path", "AUTOCATALOG_SQLITE_PATH")
	_ = viper.BindEnv("api.port", "AUTOCATALOG_API_PORT")
	_ = viper.BindEnv("auth.enabled", "AUTOCATALOG_AUTH_ENABLED")
	_ = viper.BindEnv("auth.jwt_secret", "AUTOCATALOG_JWT_SECRET")
	_ = viper.BindEnv("identity.issuer", "AUTOCATALOG_IDENTITY_ISSUER")
	_ = viper.BindEnv("identity.client_id", "AUTOCATALOG_IDENTITY_CLIENT_ID")
	_ = viper.BindEnv("identity.client_secret", "AUTOCATALOG_IDENTITY_CLIENT_SECRET")
	_ = viper.BindEnv("identity.audience", "AUTOCATALOG_IDENTITY_AUDIENCE")
}

// LoadConfig loads configuration from config file, environment
// variables, and defaults, in descending precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	loadFromEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, will use defaults and env vars
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	config.ResolveDataPaths()

	return &config, nil
}

func validate(c *Config) error {
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled (set AUTOCATALOG_JWT_SECRET)")
	}
	if len(c.Auth.JWTSecret) > 0 && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 bytes")
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d is out of range", c.API.Port)
	}
	if c.API.RateLimit.RequestsPerSecond < 1 {
		return fmt.Errorf("api.rate_limit.requests_per_second must be positive")
	}
	return nil
}

// ResolveDataPaths resolves all data paths, deriving from DataDir if
// not explicitly set.
func (c *Config) ResolveDataPaths() {
	dataDir := c.DataPaths.DataDir
	if dataDir == "" {
		dataDir = "./data"
	}

	if c.DataPaths.SQLitePath == "" {
		c.DataPaths.SQLitePath = filepath.Join(dataDir, "autocatalog.db")
	} else if !filepath.IsAbs(c.DataPaths.SQLitePath) {
		c.DataPaths.SQLitePath = filepath.Clean(c.DataPaths.SQLitePath)
	}

	c.DataPaths.DataDir = dataDir
}

// IdentityConfigured reports whether the delegated identity provider
// settings are complete enough to serve register and authenticate.
func (c *Config) IdentityConfigured() bool {
	return c.Identity.Issuer != "" && c.Identity.ClientID != "" && c.Identity.ClientSecret != ""
}
