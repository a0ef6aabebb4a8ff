package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB         DBConfig
	Server     ServerConfig
	Cache      CacheConfig
	Auth       AuthConfig
	Scheduler  SchedulerConfig
	HallOfFame HallOfFameConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type             DBType
	Host             string
	Port             string
	User             string
	Password         string
	Name             string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	StatementTimeout time.Duration
	QueryTimeout     time.Duration
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != "cityshare" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}

	// PostgreSQL connection string
	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	if c.StatementTimeout > 0 {
		query.Set("statement_timeout", strconv.FormatInt(c.StatementTimeout.Milliseconds(), 10))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

// CacheType selects the query cache backend
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// CacheConfig holds query cache settings
type CacheConfig struct {
	Type       CacheType
	RedisAddr  string
	ListingTTL time.Duration
	SearchTTL  time.Duration
	StatsTTL   time.Duration
	DetailTTL  time.Duration
}

// AuthConfig holds session and password settings
type AuthConfig struct {
	JWTSecret    string
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool
	BcryptCost   int
}

// SchedulerConfig holds background job timings
type SchedulerConfig struct {
	HealthCheckInterval time.Duration
	CacheWarmDelay      time.Duration
}

// HallOfFameConfig holds settings for the Hall of Fame import
type HallOfFameConfig struct {
	BatchSize int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	cacheType := CacheType(getEnv("CACHE_TYPE", "memory"))
	if cacheType != CacheTypeMemory && cacheType != CacheTypeRedis {
		cacheType = CacheTypeMemory
	}

	config := &Config{
		DB: DBConfig{
			Type:             dbType,
			Host:             getEnv("DB_HOST", "localhost"),
			Port:             getEnv("DB_PORT", "5432"),
			User:             getEnv("DB_USER", "cityshare"),
			Password:         getEnv("DB_PASSWORD", "cityshare_password"),
			Name:             getEnv("DB_NAME", "cityshare"),
			SSLMode:          getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 10*time.Second),
			QueryTimeout:     getEnvAsDuration("DB_QUERY_TIMEOUT", 15*time.Second),
		},
		Server: ServerConfig{
			Port:               getEnv("APP_PORT", "8080"),
			CORSAllowedOrigins: getEnvAsSliceOr("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Cache: CacheConfig{
			Type:       cacheType,
			RedisAddr:  getEnv("CACHE_REDIS_ADDR", "localhost:6379"),
			ListingTTL: getEnvAsDuration("CACHE_TTL_LISTING", 2*time.Minute),
			SearchTTL:  getEnvAsDuration("CACHE_TTL_SEARCH", 5*time.Minute),
			StatsTTL:   getEnvAsDuration("CACHE_TTL_STATS", 15*time.Minute),
			DetailTTL:  getEnvAsDuration("CACHE_TTL_DETAIL", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("AUTH_JWT_SECRET", ""),
			SessionTTL:   getEnvAsDuration("AUTH_SESSION_TTL", 7*24*time.Hour),
			CookieName:   getEnv("AUTH_COOKIE_NAME", "session"),
			CookieSecure: getEnvAsBool("AUTH_COOKIE_SECURE", false),
			BcryptCost:   getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Scheduler: SchedulerConfig{
			HealthCheckInterval: getEnvAsDuration("HEALTH_CHECK_INTERVAL", 5*time.Minute),
			CacheWarmDelay:      getEnvAsDuration("CACHE_WARM_DELAY", 10*time.Second),
		},
		HallOfFame: HallOfFameConfig{
			BatchSize: getEnvAsInt("HOF_BATCH_SIZE", 500),
		},
	}

	if config.DB.MaxIdleConns > config.DB.MaxOpenConns {
		config.DB.MaxIdleConns = config.DB.MaxOpenConns
	}

	return config, nil
}

// Validate checks settings the server cannot start without
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 16 characters")
	}
	if c.Cache.Type == CacheTypeRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("CACHE_REDIS_ADDR is required when CACHE_TYPE=redis")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnvAsSliceOr(key string, defaultValue []string) []string {
	if values := getEnvAsSlice(key); len(values) > 0 {
		return values
	}
	return defaultValue
}
