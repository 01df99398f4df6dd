// Package config provides configuration management functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// devJWTSecret is only used when DEV_MODE is on and JWT_SECRET is unset.
const devJWTSecret = "dev-only-insecure-secret"

// Config holds application configuration
type Config struct {
	DataDir            string // Base directory for the database and backups (always absolute)
	LogLevel           string
	LogFile            string // Rotating log file, empty disables file logging
	Port               int
	DevMode            bool
	JWTSecret          string
	AccessTokenTTL     time.Duration
	CORSOrigins        []string
	LoginRatePerMinute int
	Backup             BackupConfig
	S3                 S3Config
}

// BackupConfig controls scheduled database snapshots
type BackupConfig struct {
	Schedule string // cron spec with seconds, empty disables the job
	Keep     int
}

// S3Config holds the optional off-site backup target
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Custom endpoint for S3-compatible stores (MinIO, R2)
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether uploads are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// DatabasePath returns the journal database file path
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "journal.db")
}

// BackupDir returns the directory for local snapshots
func (c *Config) BackupDir() string {
	return filepath.Join(c.DataDir, "backups")
}

// Load reads configuration from .env, an optional journal.yaml and environment variables.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("journal")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read journal.yaml: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8000)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("DEV_MODE", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:4173")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("BACKUP_SCHEDULE", "")
	v.SetDefault("BACKUP_KEEP", 7)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(v.GetString("DATA_DIR"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:            absDataDir,
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFile:            v.GetString("LOG_FILE"),
		Port:               v.GetInt("PORT"),
		DevMode:            v.GetBool("DEV_MODE"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		AccessTokenTTL:     time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
		LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
		Backup: BackupConfig{
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Keep:     v.GetInt("BACKUP_KEEP"),
		},
		S3: S3Config{
			Bucket:          v.GetString("S3_BUCKET"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
		},
	}

	if cfg.JWTSecret == "" && cfg.DevMode {
		cfg.JWTSecret = devJWTSecret
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d: must be between 1 and 65535", c.Port)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required unless DEV_MODE is enabled")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.LoginRatePerMinute <= 0 {
		c.LoginRatePerMinute = 10
	}
	if c.Backup.Keep <= 0 {
		c.Backup.Keep = 1
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
