package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Cache     CacheConfig
	ListingDB ListingDBConfig
	Ingest    IngestConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"auctiondesk-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// CacheConfig holds relay page cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// ListingDBConfig holds listing store settings.
type ListingDBConfig struct {
	Type string `envconfig:"LISTING_DB_TYPE" default:"sqlite"` // sqlite, mysql, postgres, or mongodb
	Path string `envconfig:"LISTING_DB_PATH" default:"./data/listings.db"`
	// MySQL / PostgreSQL settings
	Host     string `envconfig:"LISTING_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"LISTING_DB_PORT" default:"0"`
	Name     string `envconfig:"LISTING_DB_NAME" default:"auctiondesk"`
	User     string `envconfig:"LISTING_DB_USER" default:""`
	Password string `envconfig:"LISTING_DB_PASS" default:""`
	SSLMode  string `envconfig:"LISTING_DB_SSLMODE" default:"disable"`
	// MongoDB settings
	MongoURI        string `envconfig:"MONGODB_URI" default:""`
	MongoDatabase   string `envconfig:"MONGODB_DATABASE" default:"auctiondesk"`
	MongoCollection string `envconfig:"MONGODB_COLLECTION" default:"auctions"`
}

// IngestConfig holds source-page retrieval settings.
type IngestConfig struct {
	HostFilter   string        `envconfig:"INGEST_HOST_FILTER" default:"yahoo.co.jp"`
	FetchTimeout time.Duration `envconfig:"INGEST_FETCH_TIMEOUT" default:"20s"`
}

// MySQLDSN returns the MySQL data source name.
func (l *ListingDBConfig) MySQLDSN() string {
	port := l.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		l.User, l.Password, l.Host, port, l.Name)
}

// PostgresDSN returns the PostgreSQL connection string.
func (l *ListingDBConfig) PostgresDSN() string {
	port := l.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		l.User, l.Password, l.Host, port, l.Name, l.SSLMode)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
