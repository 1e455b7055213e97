package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Review backends selectable through REVIEW_BACKEND.
const (
	BackendRelational = "relational"
	BackendRemote     = "remote"
	BackendLocal      = "local"
)

// Local tier drivers selectable through LOCAL_STORE_DRIVER.
const (
	LocalDriverMemory = "memory"
	LocalDriverRedis  = "redis"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Review     ReviewConfig
	LocalStore LocalStoreConfig
	JWT        JWTConfig
	CORS       CORSConfig
	S3         S3Config
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string // ORM connection string, wins over the discrete fields
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type ReviewConfig struct {
	Backend        string
	RemoteBaseURL  string
	PrimaryTimeout time.Duration
	SyncSchedule   string // cron spec for local → relational migration, empty disables
}

type LocalStoreConfig struct {
	Driver string
}

type JWTConfig struct {
	Secret                 string
	RequireVerifiedSession bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "reelnote"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			URL:      getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Review: ReviewConfig{
			Backend:        strings.ToLower(getEnv("REVIEW_BACKEND", BackendRelational)),
			RemoteBaseURL:  strings.TrimRight(getEnv("REVIEW_REMOTE_BASE_URL", ""), "/"),
			PrimaryTimeout: parseDuration(getEnv("REVIEW_PRIMARY_TIMEOUT", "5s"), 5*time.Second),
			SyncSchedule:   getEnv("TIER_SYNC_SCHEDULE", "@every 5m"),
		},
		LocalStore: LocalStoreConfig{
			Driver: strings.ToLower(getEnv("LOCAL_STORE_DRIVER", LocalDriverMemory)),
		},
		JWT: JWTConfig{
			Secret:                 getEnv("JWT_SECRET", ""),
			RequireVerifiedSession: parseBool(getEnv("REQUIRE_VERIFIED_SESSION", "false")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Review.Backend {
	case BackendRelational, BackendLocal:
	case BackendRemote:
		if c.Review.RemoteBaseURL == "" {
			return fmt.Errorf("REVIEW_REMOTE_BASE_URL is required when REVIEW_BACKEND=%s", BackendRemote)
		}
	default:
		return fmt.Errorf("unknown REVIEW_BACKEND %q", c.Review.Backend)
	}

	switch c.LocalStore.Driver {
	case LocalDriverMemory, LocalDriverRedis:
	default:
		return fmt.Errorf("unknown LOCAL_STORE_DRIVER %q", c.LocalStore.Driver)
	}

	if c.JWT.RequireVerifiedSession && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when REQUIRE_VERIFIED_SESSION=true")
	}
	return nil
}

// DSN returns the connection string used by gorm.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Configured reports whether enough is set to attempt a connection.
func (c *DatabaseConfig) Configured() bool {
	return c.URL != "" || (c.Host != "" && c.DBName != "" && c.User != "")
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Enabled reports whether avatar uploads can be presigned.
func (c *S3Config) Enabled() bool {
	return c.Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil || duration <= 0 {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
