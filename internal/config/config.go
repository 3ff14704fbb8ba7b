package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	ListenAddr string `mapstructure:"listen_addr"`

	StorageType string `mapstructure:"storage_type"`
	StoragePath string `mapstructure:"storage_path"`

	SourceType  string `mapstructure:"source_type"`
	FixtureFile string `mapstructure:"fixture_file"`
	NewsAPIKey  string `mapstructure:"newsapi_key"`
	NewsAPIURL  string `mapstructure:"newsapi_url"`

	SinksFile      string `mapstructure:"sinks_file"`
	CategoriesFile string `mapstructure:"categories_file"`

	SnapshotsEnabled       bool          `mapstructure:"snapshots_enabled"`
	SnapshotTimeoutSeconds int64         `mapstructure:"snapshot_timeout_seconds"`
	SnapshotTimeout        time.Duration `mapstructure:"-"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "newsstand-reader")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("storage_path", "./data/reader.db")
	v.SetDefault("source_type", "fixture")
	v.SetDefault("fixture_file", "./configs/articles.yaml")
	v.SetDefault("newsapi_url", "https://newsapi.org/v2")
	v.SetDefault("sinks_file", "")
	v.SetDefault("categories_file", "")
	v.SetDefault("snapshots_enabled", true)
	v.SetDefault("snapshot_timeout_seconds", int64(10))
	v.SetDefault("http_timeout_seconds", int64(15))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.SnapshotTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid snapshot_timeout_seconds (must be positive seconds)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.SnapshotTimeout = time.Duration(cfg.SnapshotTimeoutSeconds) * time.Second
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.SourceType == "newsapi" && cfg.NewsAPIKey == "" {
		return nil, fmt.Errorf("newsapi source requires newsapi_key")
	}

	return &cfg, nil
}
