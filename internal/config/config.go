package config

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds all configuration options for the task tracker
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Server     ServerConfig     `yaml:"server"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Security   SecurityConfig   `yaml:"security"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver         string        `yaml:"driver" env:"TASKS_DB_DRIVER"`
	Dir            string        `yaml:"dir" env:"TASKS_DB_DIR"`
	Filename       string        `yaml:"filename" env:"TASKS_DB_FILENAME"`
	DSN            string        `yaml:"dsn" env:"TASKS_DB_DSN"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"TASKS_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"TASKS_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"TASKS_DB_DIR_PERMISSIONS"`
	MySQL          MySQLConfig   `yaml:"mysql"`
}

// MySQLConfig holds the connection parts used when no DSN is given
type MySQLConfig struct {
	User     string `yaml:"user" env:"TASKS_DB_USERNAME"`
	Password string `yaml:"password" env:"TASKS_DB_PASSWORD"`
	Address  string `yaml:"address" env:"TASKS_DB_ADDRESS"`
	Name     string `yaml:"name" env:"TASKS_DB_NAME"`
}

// MySQLTitleColumnLength is the width of tasks.title in the mysql schema
const MySQLTitleColumnLength = 255

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" env:"TASKS_HOST"`
	Port            int           `yaml:"port" env:"TASKS_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"TASKS_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"TASKS_SERVER_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"TASKS_SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TASKS_SERVER_SHUTDOWN_TIMEOUT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength int `yaml:"title_max_length" env:"TASKS_VALIDATION_TITLE_MAX"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level" env:"TASKS_LOG_LEVEL"`
	Format string `yaml:"format" env:"TASKS_LOG_FORMAT"`
}

// RateLimitConfig holds request rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" env:"TASKS_RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"TASKS_RATE_LIMIT_RPS"`
	Burst             int     `yaml:"burst" env:"TASKS_RATE_LIMIT_BURST"`
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"TASKS_METRICS_ENABLED"`
	Path    string `yaml:"path" env:"TASKS_METRICS_PATH"`
}

// SecurityConfig holds cross-site request forgery protection settings
type SecurityConfig struct {
	CSRFEnabled bool `yaml:"csrf_enabled" env:"TASKS_CSRF_ENABLED"`
	// CSRFKey is a hex encoded 32 byte key. Empty means a random key per
	// process, which invalidates outstanding forms on restart.
	CSRFKey          string `yaml:"csrf_key" env:"TASKS_CSRF_KEY"`
	CSRFSecureCookie bool   `yaml:"csrf_secure_cookie" env:"TASKS_CSRF_SECURE_COOKIE"`
}

// CSRFKeyLength is the decoded size of SecurityConfig.CSRFKey
const CSRFKeyLength = 32

// CSRFAuthKey decodes CSRFKey. It returns nil when no key is configured.
func (s SecurityConfig) CSRFAuthKey() ([]byte, error) {
	if s.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s.CSRFKey)
	if err != nil {
		return nil, err
	}
	if len(key) != CSRFKeyLength {
		return nil, fmt.Errorf("key must decode to %d bytes, got %d", CSRFKeyLength, len(key))
	}
	return key, nil
}

// reservedPaths are exact routes served next to the pages
var reservedPaths = []string{"/healthz"}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".tasks")

	return &Config{
		Database: DatabaseConfig{
			Driver:         "sqlite",
			Dir:            defaultDBDir,
			Filename:       "tasks.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
			MySQL: MySQLConfig{
				Address: "127.0.0.1:3306",
				Name:    "taskdb",
			},
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Validation: ValidationConfig{
			TitleMaxLength: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Security: SecurityConfig{
			CSRFEnabled: true,
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetDSN returns the data source name for the configured driver. An explicit
// DSN wins over the individual fields.
func (c *Config) GetDSN() string {
	if c.Database.Driver != "mysql" {
		if c.Database.DSN != "" {
			return c.Database.DSN
		}
		return c.GetDatabasePath()
	}

	if c.Database.DSN != "" {
		cfg, err := mysql.ParseDSN(c.Database.DSN)
		if err != nil {
			// Validate rejects this; the driver reports it again on open
			return c.Database.DSN
		}
		cfg.ClientFoundRows = true
		return cfg.FormatDSN()
	}

	cfg := mysql.NewConfig()
	cfg.User = c.Database.MySQL.User
	cfg.Passwd = c.Database.MySQL.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Database.MySQL.Address
	cfg.DBName = c.Database.MySQL.Name
	cfg.AllowNativePasswords = true
	// Report matched rather than changed rows so an update that
	// rewrites identical values is not mistaken for a missing row.
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// Address returns the host:port the HTTP server listens on
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// LoadFromEnvironment overrides values from TASKS_* environment variables.
// Unparseable values are ignored.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if driver := os.Getenv("TASKS_DB_DRIVER"); driver != "" {
		c.Database.Driver = strings.ToLower(driver)
	}
	if dir := os.Getenv("TASKS_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TASKS_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if dsn := os.Getenv("TASKS_DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if timeout := os.Getenv("TASKS_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TASKS_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("TASKS_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}
	if user := os.Getenv("TASKS_DB_USERNAME"); user != "" {
		c.Database.MySQL.User = user
	}
	if password := os.Getenv("TASKS_DB_PASSWORD"); password != "" {
		c.Database.MySQL.Password = password
	}
	if address := os.Getenv("TASKS_DB_ADDRESS"); address != "" {
		c.Database.MySQL.Address = address
	}
	if name := os.Getenv("TASKS_DB_NAME"); name != "" {
		c.Database.MySQL.Name = name
	}

	// Server configuration
	if host := os.Getenv("TASKS_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("TASKS_PORT"); port != "" {
		c.Server.Port = ParseIntWithFallback(port, c.Server.Port)
	}
	if timeout := os.Getenv("TASKS_SERVER_READ_TIMEOUT"); timeout != "" {
		c.Server.ReadTimeout = ParseDurationWithFallback(timeout, c.Server.ReadTimeout)
	}
	if timeout := os.Getenv("TASKS_SERVER_WRITE_TIMEOUT"); timeout != "" {
		c.Server.WriteTimeout = ParseDurationWithFallback(timeout, c.Server.WriteTimeout)
	}
	if timeout := os.Getenv("TASKS_SERVER_IDLE_TIMEOUT"); timeout != "" {
		c.Server.IdleTimeout = ParseDurationWithFallback(timeout, c.Server.IdleTimeout)
	}
	if timeout := os.Getenv("TASKS_SERVER_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}

	// Validation configuration
	if maxLen := os.Getenv("TASKS_VALIDATION_TITLE_MAX"); maxLen != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TitleMaxLength)
	}

	// Logging configuration
	if level := os.Getenv("TASKS_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
	if format := os.Getenv("TASKS_LOG_FORMAT"); format != "" {
		c.Logging.Format = strings.ToLower(format)
	}

	// Rate limit configuration
	if enabled := os.Getenv("TASKS_RATE_LIMIT_ENABLED"); enabled != "" {
		c.RateLimit.Enabled = ParseBoolWithFallback(enabled, c.RateLimit.Enabled)
	}
	if rps := os.Getenv("TASKS_RATE_LIMIT_RPS"); rps != "" {
		if f, err := strconv.ParseFloat(rps, 64); err == nil {
			c.RateLimit.RequestsPerSecond = f
		}
	}
	if burst := os.Getenv("TASKS_RATE_LIMIT_BURST"); burst != "" {
		c.RateLimit.Burst = ParseIntWithFallback(burst, c.RateLimit.Burst)
	}

	// Metrics configuration
	if enabled := os.Getenv("TASKS_METRICS_ENABLED"); enabled != "" {
		c.Metrics.Enabled = ParseBoolWithFallback(enabled, c.Metrics.Enabled)
	}
	if path := os.Getenv("TASKS_METRICS_PATH"); path != "" {
		c.Metrics.Path = path
	}

	// Security configuration
	if enabled := os.Getenv("TASKS_CSRF_ENABLED"); enabled != "" {
		c.Security.CSRFEnabled = ParseBoolWithFallback(enabled, c.Security.CSRFEnabled)
	}
	if key := os.Getenv("TASKS_CSRF_KEY"); key != "" {
		c.Security.CSRFKey = key
	}
	if secure := os.Getenv("TASKS_CSRF_SECURE_COOKIE"); secure != "" {
		c.Security.CSRFSecureCookie = ParseBoolWithFallback(secure, c.Security.CSRFSecureCookie)
	}

	return nil
}

// Validate validates the configuration and returns the first problem found
func (c *Config) Validate() error {
	// Database configuration
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.DSN == "" && c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.DSN == "" && c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case "mysql":
		if c.Database.DSN == "" && c.Database.MySQL.Address == "" {
			return &ConfigError{Field: "database.mysql.address", Message: "mysql address cannot be empty"}
		}
		if c.Database.DSN != "" {
			if _, err := mysql.ParseDSN(c.Database.DSN); err != nil {
				return &ConfigError{Field: "database.dsn", Message: "invalid mysql dsn: " + err.Error()}
			}
		}
		if c.Validation.TitleMaxLength > MySQLTitleColumnLength {
			return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length cannot exceed " + strconv.Itoa(MySQLTitleColumnLength) + " on mysql"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: "driver must be sqlite or mysql"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Server configuration
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port must be between 0 and 65535"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Validation configuration
	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}

	// Logging configuration
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "format must be text or json"}
	}

	// Rate limit configuration
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return &ConfigError{Field: "rate_limit.requests_per_second", Message: "requests per second must be positive"}
		}
		if c.RateLimit.Burst < 1 {
			return &ConfigError{Field: "rate_limit.burst", Message: "burst must be at least 1"}
		}
	}

	// Metrics configuration
	if c.Metrics.Enabled {
		if err := validateMetricsPath(c.Metrics.Path); err != nil {
			return err
		}
	}

	// Security configuration
	if c.Security.CSRFEnabled {
		if _, err := c.Security.CSRFAuthKey(); err != nil {
			return &ConfigError{Field: "security.csrf_key", Message: "invalid csrf key: " + err.Error()}
		}
	}

	return nil
}

// validateMetricsPath rejects paths that would collide with the page routes.
// Every page route ends in a slash, so a metrics path must not.
func validateMetricsPath(path string) error {
	fail := func(message string) error {
		return &ConfigError{Field: "metrics.path", Message: message}
	}
	if !strings.HasPrefix(path, "/") {
		return fail("metrics path must start with /")
	}
	if path == "/" || strings.HasSuffix(path, "/") {
		return fail("metrics path must not end with /")
	}
	if strings.ContainsAny(path, "{} ") || strings.Contains(path, "//") {
		return fail("metrics path must be a plain path")
	}
	for _, reserved := range reservedPaths {
		if path == reserved {
			return fail(path + " is already served")
		}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
