// Package config provides configuration management for Stockroom.
// Configuration can be loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Store    StoreConfig    `mapstructure:"store"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Lock     LockConfig     `mapstructure:"lock"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address in host:port format.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database connection settings.
// Supports both SQLite and PostgreSQL backends.
type DatabaseConfig struct {
	// Driver specifies the database driver: "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`

	// PostgreSQL settings (used when Driver is "postgres")
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`

	// SQLite settings (used when Driver is "sqlite")
	Path            string `mapstructure:"path"`             // Path to SQLite database file
	JournalMode     string `mapstructure:"journal_mode"`     // WAL, DELETE, TRUNCATE, etc.
	BusyTimeout     int    `mapstructure:"busy_timeout"`     // Milliseconds to wait for locks
	CacheSize       int    `mapstructure:"cache_size"`       // Page cache size (negative = KB)
	SynchronousMode string `mapstructure:"synchronous_mode"` // NORMAL, FULL, OFF
}

// DSN returns the PostgreSQL connection string.
// Only valid when Driver is "postgres".
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// IsEmbedded returns true if using an embedded database (SQLite).
func (c DatabaseConfig) IsEmbedded() bool {
	return c.Driver == "sqlite"
}

// StoreConfig selects which backend the persistence facade starts on.
type StoreConfig struct {
	// Mode is "local" (embedded SQLite) or "remote" (HTTP API server).
	// The facade can be switched between the two at runtime.
	Mode string `mapstructure:"mode"`
}

// RemoteConfig holds settings for the remote inventory API.
type RemoteConfig struct {
	// BaseURL is the API root, e.g. "https://inventory.example.com:8443/api".
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds every remote request. Requests are attempted once;
	// there is no retry.
	Timeout time.Duration `mapstructure:"timeout"`

	// InsecureSkipVerify disables TLS certificate verification. Only for
	// servers with self-signed certificates.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

// AuthConfig holds API key authentication settings.
//
// APIKey, EncryptionKey, and EncryptionIV are deployment-time secrets.
// They are never embedded in source and must arrive via config file or
// environment.
type AuthConfig struct {
	// APIKey is the shared plaintext API key.
	APIKey string `mapstructure:"api_key"`

	// EncryptionKey is the AES key used to encrypt the API key for the
	// request header. Must be 16, 24, or 32 bytes.
	EncryptionKey string `mapstructure:"encryption_key"`

	// EncryptionIV is the AES-CBC initialization vector. Must be 16 bytes.
	EncryptionIV string `mapstructure:"encryption_iv"`
}

// GetEncryptionKey returns the encryption key as a byte slice.
// Returns an error if the key is not 16, 24, or 32 bytes.
func (c AuthConfig) GetEncryptionKey() ([]byte, error) {
	key := []byte(c.EncryptionKey)
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	}
	return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(key))
}

// GetEncryptionIV returns the IV as a byte slice.
// Returns an error if the IV is not exactly 16 bytes.
func (c AuthConfig) GetEncryptionIV() ([]byte, error) {
	iv := []byte(c.EncryptionIV)
	if len(iv) != 16 {
		return nil, fmt.Errorf("encryption iv must be exactly 16 bytes, got %d", len(iv))
	}
	return iv, nil
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Addr returns the Redis address in host:port format.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LockConfig holds distributed lock settings for the API server.
type LockConfig struct {
	// Backend selects the lock implementation: "memory", "redis", or "none".
	Backend string `mapstructure:"backend"`

	// TTL is how long an acquired item lock is held before it expires.
	TTL time.Duration `mapstructure:"ttl"`
}

// CacheConfig holds settings for the server-side list cache.
type CacheConfig struct {
	// Enabled determines whether per-user inventory listings are cached.
	Enabled bool `mapstructure:"enabled"`

	// TTL is how long a cached listing stays valid without invalidation.
	TTL time.Duration `mapstructure:"ttl"`

	// CleanupInterval is how often expired entries are purged.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled determines if metrics collection is active.
	Enabled bool `mapstructure:"enabled"`

	// Path is the URL path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// Load reads configuration from the specified file and environment variables.
// Environment variables take precedence over file values.
// Environment variables are prefixed with STOCKROOM_ and use _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("STOCKROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/stockroom")
	}

	// A missing file is fine; defaults plus environment variables are a
	// complete configuration on their own.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "stockroom")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "stockroom")
	v.SetDefault("database.ssl_mode", "prefer")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)
	// SQLite defaults
	v.SetDefault("database.path", "./data/stockroom.db")
	v.SetDefault("database.journal_mode", "WAL")
	v.SetDefault("database.busy_timeout", 5000)
	v.SetDefault("database.cache_size", -2000)
	v.SetDefault("database.synchronous_mode", "NORMAL")

	// Store defaults
	v.SetDefault("store.mode", "local")

	// Remote defaults
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("remote.insecure_skip_verify", false)

	// Auth defaults - secrets must be provided at deployment time
	v.SetDefault("auth.api_key", "")
	v.SetDefault("auth.encryption_key", "")
	v.SetDefault("auth.encryption_iv", "")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)

	// Lock defaults
	v.SetDefault("lock.backend", "memory")
	v.SetDefault("lock.ttl", 30*time.Second)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("cache.cleanup_interval", time.Minute)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate checks the configuration for required values and valid ranges.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	// Database
	validDrivers := map[string]bool{"sqlite": true, "postgres": true}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("database.driver must be 'sqlite' or 'postgres'")
	}

	if c.Database.Driver == "postgres" {
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required for postgres driver")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required for postgres driver")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database.database is required for postgres driver")
		}
	} else if c.Database.Driver == "sqlite" {
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite driver")
		}
	}

	// Store mode and the remote endpoint it needs
	validModes := map[string]bool{"local": true, "remote": true}
	if !validModes[c.Store.Mode] {
		return fmt.Errorf("store.mode must be 'local' or 'remote'")
	}
	if c.Store.Mode == "remote" && c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url is required when store.mode is 'remote'")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be positive")
	}

	// Auth material, when present
	if c.Auth.EncryptionKey != "" {
		if _, err := c.Auth.GetEncryptionKey(); err != nil {
			return fmt.Errorf("auth.encryption_key: %w", err)
		}
	}
	if c.Auth.EncryptionIV != "" {
		if _, err := c.Auth.GetEncryptionIV(); err != nil {
			return fmt.Errorf("auth.encryption_iv: %w", err)
		}
	}

	// Lock backend
	validBackends := map[string]bool{"memory": true, "redis": true, "none": true}
	if !validBackends[c.Lock.Backend] {
		return fmt.Errorf("lock.backend must be 'memory', 'redis', or 'none'")
	}

	// Logging
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	return nil
}

// MustLoad loads configuration or panics on error.
// Useful for main function initialization.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
