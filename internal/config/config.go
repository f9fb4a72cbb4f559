package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// FallbackImageURL is served when neither the article image nor the
// configured default image validates. It is never fetched.
const FallbackImageURL = "https://res.cloudinary.com/newsroom/image/upload/w_1200,h_630,c_fill,f_jpg/brand/og-fallback.jpg"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration for the image validation cache
	Redis RedisConfig

	// Bearer token settings
	Auth AuthConfig

	// Public site branding used in crawler documents
	Site SiteConfig

	// Social preview image validation
	OgImage OgImageConfig

	// Debug endpoints
	Debug DebugConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MigrationsPath  string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig holds the optional cache connection. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds the JWT verification settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// SiteConfig describes the public site
type SiteConfig struct {
	Name            string
	BaseURL         string
	Description     string
	DefaultImageURL string
	LogoURL         string
	SPAIndexPath    string
	TwitterHandle   string
}

// OgImageConfig holds image validation settings
type OgImageConfig struct {
	ValidationTimeout time.Duration
	CacheTTL          time.Duration
	Transform         bool
}

// DebugConfig toggles the diagnostic endpoints
type DebugConfig struct {
	Enabled bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables, after merging an
// optional .env file from the working directory
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "newsroom"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},
		Site: SiteConfig{
			Name:            getEnv("SITE_NAME", "Newsroom"),
			BaseURL:         strings.TrimRight(getEnv("SITE_BASE_URL", "https://www.example.com"), "/"),
			Description:     getEnv("SITE_DESCRIPTION", "News, music, documentaries and comedy."),
			DefaultImageURL: getEnv("SITE_DEFAULT_IMAGE_URL", ""),
			LogoURL:         getEnv("SITE_LOGO_URL", FallbackImageURL),
			SPAIndexPath:    getEnv("SPA_INDEX_PATH", ""),
			TwitterHandle:   getEnv("SITE_TWITTER_HANDLE", ""),
		},
		OgImage: OgImageConfig{
			ValidationTimeout: getDurationEnv("OG_IMAGE_TIMEOUT", 2*time.Second),
			CacheTTL:          getDurationEnv("OG_IMAGE_CACHE_TTL", 10*time.Minute),
			Transform:         getBoolEnv("OG_IMAGE_TRANSFORM", true),
		},
		Debug: DebugConfig{
			Enabled: getBoolEnv("DEBUG_ENDPOINTS", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if !strings.HasPrefix(c.Site.BaseURL, "http") {
		return fmt.Errorf("SITE_BASE_URL must be an absolute URL")
	}
	if c.OgImage.ValidationTimeout <= 0 {
		return fmt.Errorf("OG_IMAGE_TIMEOUT must be > 0")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
