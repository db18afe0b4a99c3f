package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Pagination PaginationConfig
}

type ServerConfig struct {
	Port        string `envconfig:"SERVER_PORT" default:"8080"`
	GinMode     string `envconfig:"GIN_MODE" default:"debug"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
}

func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

type DatabaseConfig struct {
	Host         string `envconfig:"DB_HOST" default:"localhost"`
	Port         string `envconfig:"DB_PORT" default:"5432"`
	User         string `envconfig:"DB_USER" default:"emporium"`
	Password     string `envconfig:"DB_PASSWORD" default:"emporium"`
	DBName       string `envconfig:"DB_NAME" default:"emporium"`
	SSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	AutoMigrate  bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

type JWTConfig struct {
	Secret            string        `envconfig:"JWT_SECRET" default:"your-secret-key"`
	AccessTokenExpiry time.Duration `envconfig:"JWT_ACCESS_TOKEN_EXPIRY" default:"24h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// RedisConfig is optional; an empty Addr disables token revocation.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type StorageConfig struct {
	Strategy      string        `envconfig:"STORAGE_STRATEGY" default:"local"`
	KeyPrefix     string        `envconfig:"STORAGE_KEY_PREFIX" default:"uploads"`
	LocalDir      string        `envconfig:"STORAGE_LOCAL_DIR" default:"./media"`
	PresignExpiry time.Duration `envconfig:"STORAGE_PRESIGN_EXPIRY" default:"30m"`
	S3            S3Config
}

type S3Config struct {
	Region          string `envconfig:"AWS_REGION" default:"us-east-1"`
	Bucket          string `envconfig:"AWS_S3_BUCKET" default:"emporium-uploads"`
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	BaseURL         string `envconfig:"AWS_S3_BASE_URL"` // CloudFront or S3 direct URL
}

type PaginationConfig struct {
	DefaultPageSize int `envconfig:"PAGE_SIZE" default:"10"`
	MaxPageSize     int `envconfig:"MAX_PAGE_SIZE" default:"100"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Storage.Strategy != StorageLocal && cfg.Storage.Strategy != StorageS3 {
		return nil, fmt.Errorf("unknown storage strategy %q", cfg.Storage.Strategy)
	}

	return &cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
