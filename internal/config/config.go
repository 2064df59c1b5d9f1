package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type AWSConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DB       DBConfig
	RedisURL string
	AWS      AWSConfig

	JWTSecret    string
	QRCodeSecret string
	// QRCodeTTL of zero means vouchers never expire.
	QRCodeTTL time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using process environment")
	}

	cfg := &Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		GinMode:  getEnvOrDefault("GIN_MODE", "debug"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvAsIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			Name:     getEnvOrDefault("DB_NAME", "sewo"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		RedisURL: os.Getenv("REDIS_URL"),
		AWS: AWSConfig{
			Region:    os.Getenv("AWS_REGION"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Bucket:    os.Getenv("AWS_S3_BUCKET"),
		},
		JWTSecret:    os.Getenv("JWT_SECRET"),
		QRCodeSecret: os.Getenv("QRCODE_SECRET"),
		QRCodeTTL:    getEnvAsDurationOrDefault("QRCODE_TTL", 0),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.QRCodeSecret == "" {
		return nil, fmt.Errorf("QRCODE_SECRET must be set")
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

// S3Enabled reports whether voucher images should be pushed to object storage.
func (c *Config) S3Enabled() bool {
	return c.AWS.Region != "" && c.AWS.AccessKey != "" && c.AWS.SecretKey != "" && c.AWS.Bucket != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Debugf("Environment variable %s is not set, using default value", key)
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warnf("Environment variable %s is not an integer, using default value", key)
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Warnf("Environment variable %s is not a duration, using default value", key)
	}
	return defaultValue
}
