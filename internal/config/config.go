package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Roamler  RoamlerConfig  `mapstructure:"roamler"`
	Wiser    WiserConfig    `mapstructure:"wiser"`
	Pinion   PinionConfig   `mapstructure:"pinion"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
}

type ServerConfig struct {
	Port   int        `mapstructure:"port"`
	Mode   string     `mapstructure:"mode"`
	APIKey string     `mapstructure:"api_key"` // optional gate for the dashboard API
	CORS   CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres
	Path            string        `mapstructure:"path"`   // sqlite file path
	DSNValue        string        `mapstructure:"dsn"`    // postgres DSN
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the driver-appropriate connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.DSNValue
	}
	return c.Path
}

type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// RoamlerConfig holds connector settings for the Roamler Customer API.
// The API key and base URL are deliberately NOT cached here: the connector
// reads them from the environment on every call because the hosting platform
// can inject secrets after process start. Only non-secret tuning lives here.
type RoamlerConfig struct {
	DateFrom string `mapstructure:"date_from"` // YYYY-MM-DD, inclusive
	DateTo   string `mapstructure:"date_to"`   // YYYY-MM-DD, inclusive
	Workers  int    `mapstructure:"workers"`   // concurrent submission fetches
}

type WiserConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	ManualPath string `mapstructure:"manual_path"` // XLSX fallback export
}

type PinionConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	ManualPath string `mapstructure:"manual_path"`
}

type TrackerConfig struct {
	TargetsPath string        `mapstructure:"targets_path"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	ExportKey   string        `mapstructure:"export_key"` // object storage key for the master dataset
}

// Load reads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/fieldtrack.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "fieldtrack")
	v.SetDefault("roamler.date_from", "2026-03-09")
	v.SetDefault("roamler.date_to", "2026-06-30")
	v.SetDefault("roamler.workers", 10)
	v.SetDefault("tracker.targets_path", "./configs/targets.yaml")
	v.SetDefault("tracker.cache_ttl", 5*time.Minute)
	v.SetDefault("tracker.export_key", "processed/master_wave3.xlsx")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("server.api_key", "DASHBOARD_API_KEY")
	v.BindEnv("database.dsn", "DATABASE_DSN")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("roamler.date_from", "ROAMLER_DATE_FROM")
	v.BindEnv("roamler.date_to", "ROAMLER_DATE_TO")
	v.BindEnv("wiser.base_url", "WISER_API_BASE_URL")
	v.BindEnv("wiser.api_key", "WISER_API_KEY")
	v.BindEnv("pinion.base_url", "PINION_API_BASE_URL")
	v.BindEnv("pinion.api_key", "PINION_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
