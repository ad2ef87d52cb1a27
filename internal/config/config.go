package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Catalog    CatalogConfig
	S3         S3Config
	Lifecycle  LifecycleConfig
	Simulation SimulationConfig
	Events     EventsConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// StoreConfig selects the key-value backend for session state.
type StoreConfig struct {
	Driver   string
	FilePath string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// CatalogConfig lists the gzipped product files to load at startup.
type CatalogConfig struct {
	Files []string
}

// S3Config holds AWS S3 configuration for catalog files.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "catalog/")
}

// LifecycleConfig tunes the simulated order progression.
type LifecycleConfig struct {
	// TimeScale multiplies every delay of both delivery profiles.
	TimeScale float64
}

// SimulationConfig holds the artificial delays of the mocked backend calls.
type SimulationConfig struct {
	OTPDelay     time.Duration
	OTPTTL       time.Duration
	PaymentDelay time.Duration
}

// EventsConfig holds the order status event sink configuration.
type EventsConfig struct {
	Brokers []string
	Topic   string
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Store: StoreConfig{
			Driver:   getEnv("STORE_DRIVER", StoreDriverFile),
			FilePath: getEnv("STORE_FILE_PATH", "data/storage.json"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "gofresh"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 2),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "gofresh:"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Catalog: CatalogConfig{
			Files: getEnvAsSlice("CATALOG_FILES", []string{"data/catalog/products.jsonl.gz"}),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "ap-northeast-2"),
			Prefix:  getEnv("S3_PREFIX", "catalog/"),
		},
		Lifecycle: LifecycleConfig{
			TimeScale: getEnvAsFloat("LIFECYCLE_TIME_SCALE", 1.0),
		},
		Simulation: SimulationConfig{
			OTPDelay:     getEnvAsDuration("OTP_DELAY", time.Second),
			OTPTTL:       getEnvAsDuration("OTP_TTL", 3*time.Minute),
			PaymentDelay: getEnvAsDuration("PAYMENT_DELAY", 1500*time.Millisecond),
		},
		Events: EventsConfig{
			Brokers: getEnvAsSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "order-status"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverFile:
		if c.Store.FilePath == "" {
			return fmt.Errorf("store file path is required for the file driver")
		}
	case StoreDriverPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case StoreDriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis driver")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("invalid redis db: %d", c.Redis.DB)
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be memory, file, postgres, or redis)", c.Store.Driver)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if len(c.Catalog.Files) == 0 {
		return fmt.Errorf("at least one catalog file is required")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Lifecycle.TimeScale <= 0 {
		return fmt.Errorf("invalid lifecycle time scale: %v (must be positive)", c.Lifecycle.TimeScale)
	}

	if c.Simulation.OTPDelay < 0 || c.Simulation.PaymentDelay < 0 {
		return fmt.Errorf("simulated delays cannot be negative")
	}

	if c.Simulation.OTPTTL <= 0 {
		return fmt.Errorf("OTP TTL must be positive")
	}

	if len(c.Events.Brokers) > 0 && c.Events.Topic == "" {
		return fmt.Errorf("kafka topic is required when brokers are configured")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable, dropping blanks.
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
