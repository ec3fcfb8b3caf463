package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mathacharan30/nutricompare-atme/models"
)

const (
	DefaultAnalyzerURL    = "https://juice-nutrition-comparator.onrender.com/analyze"
	DefaultChatbotURL     = "https://nutricompare-chatbot.onrender.com"
	DefaultPort           = 8080
	DefaultMaxUploadBytes = 10 << 20
	DefaultRateLimit      = 30
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

// Enabled reports whether a database was configured. Without one the service
// keeps history in memory.
func (d DBConfig) Enabled() bool { return d.Host != "" }

func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port)
}

type Config struct {
	Port        int
	AnalyzerURL string
	ChatbotURL  string
	JWTSecret   string
	DB          DBConfig

	AWSRegion          string
	S3Region           string
	S3Bucket           string
	CloudFrontURL      string
	RekognitionEnabled bool

	MaxUploadBytes     int64
	CORSOrigins        []string
	RateLimitPerMinute int
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		AnalyzerURL: envOr("ANALYZER_URL", DefaultAnalyzerURL),
		ChatbotURL:  envOr("CHATBOT_URL", DefaultChatbotURL),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     envOr("DB_PORT", "5432"),
		},
		AWSRegion:     os.Getenv("AWS_REGION"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		CloudFrontURL: os.Getenv("CLOUDFRONT_URL"),
	}

	cfg.S3Region = os.Getenv("S3_REGION")
	if cfg.S3Region == "" {
		cfg.S3Region = cfg.AWSRegion // fallback
	}

	var err error
	if cfg.Port, err = envInt("PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = envInt("RATE_LIMIT_PER_MINUTE", DefaultRateLimit); err != nil {
		return nil, err
	}
	maxUpload, err := envInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if v := os.Getenv("REKOGNITION_ENABLED"); v != "" {
		cfg.RekognitionEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REKOGNITION_ENABLED %q: %w", v, err)
		}
	}

	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.AnalyzerURL == "" {
		return errors.New("ANALYZER_URL required")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.RekognitionEnabled && c.AWSRegion == "" {
		return errors.New("AWS_REGION required when REKOGNITION_ENABLED is set")
	}
	return nil
}

// OpenDB connects to PostgreSQL and migrates the history tables.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.Scan{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	slog.Info("database ready", "host", cfg.DB.Host, "name", cfg.DB.Name)
	return db, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return n, nil
}
