package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	Auth    AuthConfig
	Groq    GroqConfig
	Extract ExtractConfig
	OCR     OCRConfig
	Jobs    JobsConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for archiving uploaded images. Archival is
// disabled when the bucket is empty.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// GroqConfig holds generative model settings.
type GroqConfig struct {
	APIKey            string `mapstructure:"api_key"`
	CorrectionModel   string `mapstructure:"correction_model"`
	ExtractionModel   string `mapstructure:"extraction_model"`
	CorrectionRetries int    `mapstructure:"correction_retries"`
	ExtractionRetries int    `mapstructure:"extraction_retries"`
	TimeoutSecs       int    `mapstructure:"timeout_secs"`
}

// ExtractConfig holds extraction engine tunables.
type ExtractConfig struct {
	FuzzyThreshold int   `mapstructure:"fuzzy_threshold"`
	CacheSize      int   `mapstructure:"cache_size"`
	MaxImageMB     int64 `mapstructure:"max_image_mb"`
}

// MaxImageBytes returns the upload cap in bytes.
func (e *ExtractConfig) MaxImageBytes() int64 {
	return e.MaxImageMB << 20
}

// OCRConfig holds tesseract settings.
type OCRConfig struct {
	Binary   string `mapstructure:"binary"`
	Language string `mapstructure:"language"`
}

// JobsConfig holds async job settings. Store is "memory" or "postgres".
type JobsConfig struct {
	Store       string `mapstructure:"store"`
	Concurrency int    `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the RXTRACT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RXTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "rxtract")
	v.SetDefault("db.password", "rxtract_secret")
	v.SetDefault("db.name", "rxtract_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Auth defaults
	v.SetDefault("auth.api_key", "")

	// Groq defaults
	v.SetDefault("groq.api_key", "")
	v.SetDefault("groq.correction_model", "llama-3.3-70b-versatile")
	v.SetDefault("groq.extraction_model", "llama-3.1-70b-versatile")
	v.SetDefault("groq.correction_retries", 3)
	v.SetDefault("groq.extraction_retries", 2)
	v.SetDefault("groq.timeout_secs", 60)

	// Extraction defaults
	v.SetDefault("extract.fuzzy_threshold", 80)
	v.SetDefault("extract.cache_size", 100)
	v.SetDefault("extract.max_image_mb", 10)

	// OCR defaults
	v.SetDefault("ocr.binary", "tesseract")
	v.SetDefault("ocr.language", "eng")

	// Jobs defaults
	v.SetDefault("jobs.store", "memory")
	v.SetDefault("jobs.concurrency", 4)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "RXTRACT_SERVER_PORT",
		"server.read_timeout":     "RXTRACT_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "RXTRACT_SERVER_WRITE_TIMEOUT",
		"server.environment":      "RXTRACT_SERVER_ENVIRONMENT",
		"db.host":                 "RXTRACT_DB_HOST",
		"db.port":                 "RXTRACT_DB_PORT",
		"db.user":                 "RXTRACT_DB_USER",
		"db.password":             "RXTRACT_DB_PASSWORD",
		"db.name":                 "RXTRACT_DB_NAME",
		"db.sslmode":              "RXTRACT_DB_SSLMODE",
		"db.max_open":             "RXTRACT_DB_MAX_OPEN",
		"db.max_idle":             "RXTRACT_DB_MAX_IDLE",
		"s3.region":               "RXTRACT_S3_REGION",
		"s3.bucket":               "RXTRACT_S3_BUCKET",
		"s3.endpoint":             "RXTRACT_S3_ENDPOINT",
		"s3.access_key":           "RXTRACT_S3_ACCESS_KEY",
		"s3.secret_key":           "RXTRACT_S3_SECRET_KEY",
		"s3.presign_expiry":       "RXTRACT_S3_PRESIGN_EXPIRY",
		"log.level":               "RXTRACT_LOG_LEVEL",
		"log.format":              "RXTRACT_LOG_FORMAT",
		"auth.api_key":            "RXTRACT_AUTH_API_KEY",
		"groq.api_key":            "RXTRACT_GROQ_API_KEY",
		"groq.correction_model":   "RXTRACT_GROQ_CORRECTION_MODEL",
		"groq.extraction_model":   "RXTRACT_GROQ_EXTRACTION_MODEL",
		"groq.correction_retries": "RXTRACT_GROQ_CORRECTION_RETRIES",
		"groq.extraction_retries": "RXTRACT_GROQ_EXTRACTION_RETRIES",
		"groq.timeout_secs":       "RXTRACT_GROQ_TIMEOUT_SECS",
		"extract.fuzzy_threshold": "RXTRACT_EXTRACT_FUZZY_THRESHOLD",
		"extract.cache_size":      "RXTRACT_EXTRACT_CACHE_SIZE",
		"extract.max_image_mb":    "RXTRACT_EXTRACT_MAX_IMAGE_MB",
		"ocr.binary":              "RXTRACT_OCR_BINARY",
		"ocr.language":            "RXTRACT_OCR_LANGUAGE",
		"jobs.store":              "RXTRACT_JOBS_STORE",
		"jobs.concurrency":        "RXTRACT_JOBS_CONCURRENCY",
		"cors.allowed_origins":    "RXTRACT_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if RXTRACT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RXTRACT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Auth = AuthConfig{
		APIKey: v.GetString("auth.api_key"),
	}
	cfg.Groq = GroqConfig{
		APIKey:            v.GetString("groq.api_key"),
		CorrectionModel:   v.GetString("groq.correction_model"),
		ExtractionModel:   v.GetString("groq.extraction_model"),
		CorrectionRetries: v.GetInt("groq.correction_retries"),
		ExtractionRetries: v.GetInt("groq.extraction_retries"),
		TimeoutSecs:       v.GetInt("groq.timeout_secs"),
	}
	cfg.Extract = ExtractConfig{
		FuzzyThreshold: v.GetInt("extract.fuzzy_threshold"),
		CacheSize:      v.GetInt("extract.cache_size"),
		MaxImageMB:     v.GetInt64("extract.max_image_mb"),
	}
	cfg.OCR = OCRConfig{
		Binary:   v.GetString("ocr.binary"),
		Language: v.GetString("ocr.language"),
	}
	cfg.Jobs = JobsConfig{
		Store:       v.GetString("jobs.store"),
		Concurrency: v.GetInt("jobs.concurrency"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
