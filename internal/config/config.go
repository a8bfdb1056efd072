// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultAccessSecret  = "even-access-secret-change-in-production"
	defaultRefreshSecret = "even-refresh-secret-change-in-production"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env                      string        `mapstructure:"APP_ENV"`
	Port                     string        `mapstructure:"PORT"`
	DBHost                   string        `mapstructure:"DB_HOST"`
	DBPort                   string        `mapstructure:"DB_PORT"`
	DBUser                   string        `mapstructure:"DB_USER"`
	DBPassword               string        `mapstructure:"DB_PASSWORD"`
	DBName                   string        `mapstructure:"DB_NAME"`
	DBSSLMode                string        `mapstructure:"DB_SSLMODE"`
	DBReadHost               string        `mapstructure:"DB_READ_HOST"`
	DBReadPort               string        `mapstructure:"DB_READ_PORT"`
	DBReadUser               string        `mapstructure:"DB_READ_USER"`
	DBReadPassword           string        `mapstructure:"DB_READ_PASSWORD"`
	DBAutoMigrate            bool          `mapstructure:"DB_AUTOMIGRATE"`
	DBMaxOpenConns           int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int           `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	RedisURL                 string        `mapstructure:"REDIS_URL"`
	AccessTokenSecret        string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	AccessTokenTTL           time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenSecret       string        `mapstructure:"REFRESH_TOKEN_SECRET"`
	RefreshTokenTTL          time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	CORSOrigin               string        `mapstructure:"CORS_ORIGIN"`
	ClientURL                string        `mapstructure:"CLIENT_URL"`
	RequestTimeout           time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ImageUploadDir           string        `mapstructure:"IMAGE_UPLOAD_DIR"`
	ImageMaxUploadSizeMB     int           `mapstructure:"IMAGE_MAX_UPLOAD_MB"`
	ImageMaxWidth            int           `mapstructure:"IMAGE_MAX_WIDTH"`
	PublicBaseURL            string        `mapstructure:"PUBLIC_BASE_URL"`
	MinioEndpoint            string        `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey           string        `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey           string        `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket              string        `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL              bool          `mapstructure:"MINIO_USE_SSL"`
	MinioPublicURL           string        `mapstructure:"MINIO_PUBLIC_URL"`
	TracingEnabled           bool          `mapstructure:"TRACING_ENABLED"`
	TracingExporter          string        `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint             string        `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio       float64       `mapstructure:"TRACING_SAMPLE_RATIO"`
	SeedHubs                 bool          `mapstructure:"SEED_HUBS"`
}

// IsProduction reports whether strict production checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// LoadConfig loads application configuration from .env, config files and
// environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))
	config.ClientURL = strings.TrimRight(config.ClientURL, "/")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "even")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "even")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_READ_HOST", "")
	viper.SetDefault("DB_READ_PORT", "5432")
	viper.SetDefault("DB_READ_USER", "even")
	viper.SetDefault("DB_READ_PASSWORD", "password")
	viper.SetDefault("DB_AUTOMIGRATE", false)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ACCESS_TOKEN_SECRET", defaultAccessSecret)
	viper.SetDefault("ACCESS_TOKEN_TTL", "24h")
	viper.SetDefault("REFRESH_TOKEN_SECRET", defaultRefreshSecret)
	viper.SetDefault("REFRESH_TOKEN_TTL", "240h")
	viper.SetDefault("CORS_ORIGIN", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("CLIENT_URL", "http://localhost:5173")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("IMAGE_UPLOAD_DIR", "./public/images")
	viper.SetDefault("IMAGE_MAX_UPLOAD_MB", 5)
	viper.SetDefault("IMAGE_MAX_WIDTH", 1600)
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8000")
	viper.SetDefault("MINIO_ENDPOINT", "")
	viper.SetDefault("MINIO_ACCESS_KEY", "")
	viper.SetDefault("MINIO_SECRET_KEY", "")
	viper.SetDefault("MINIO_BUCKET", "even-images")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("MINIO_PUBLIC_URL", "")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
	viper.SetDefault("SEED_HUBS", true)
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.ImageMaxUploadSizeMB <= 0 {
		return errors.New("IMAGE_MAX_UPLOAD_MB must be positive")
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKey == "" || c.MinioSecretKey == "" || c.MinioBucket == "") {
		return errors.New("MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_BUCKET are required when MINIO_ENDPOINT is set")
	}

	if c.IsProduction() {
		if c.AccessTokenSecret == defaultAccessSecret || c.RefreshTokenSecret == defaultRefreshSecret {
			return errors.New("token secrets must be changed from the default value in production")
		}
		if len(c.AccessTokenSecret) < 32 || len(c.RefreshTokenSecret) < 32 {
			return errors.New("token secrets must be at least 32 characters in production")
		}
		if c.AccessTokenSecret == c.RefreshTokenSecret {
			return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must not be disabled in production")
		}
		if c.DBAutoMigrate {
			return errors.New("DB_AUTOMIGRATE must be disabled in production; apply SQL migrations instead")
		}
		if c.CORSOrigin == "*" {
			log.Println("WARNING: CORS_ORIGIN is set to '*' in production. This is insecure.")
		}
	} else if len(c.AccessTokenSecret) < 32 {
		log.Println("WARNING: ACCESS_TOKEN_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
