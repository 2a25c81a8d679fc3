package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	AI       AIConfig       `yaml:"ai"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	CORSOrigins     []string `yaml:"cors_origins"`
	ReadTimeoutSec  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSec int      `yaml:"write_timeout_seconds"`
}

type DatabaseConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

type YouTubeConfig struct {
	APIKey         string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	Region         string `yaml:"region"`
	MaxResults     int64  `yaml:"max_results"`
	TimeoutSec     int    `yaml:"timeout_seconds"`
	SnapshotFile   string `yaml:"snapshot_file"`
	SnapshotMaxAge string `yaml:"snapshot_max_age"`
	ChartSchedule  string `yaml:"chart_schedule"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
	TimeoutSec   int    `yaml:"timeout_seconds"`
}

type AuthConfig struct {
	Secret             string `yaml:"secret" env:"SECRET_KEY"`
	TokenExpireMinutes int    `yaml:"token_expire_minutes"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		// A config file is optional; env vars plus defaults are enough.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = os.Getenv("SECRET_KEY")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Server.ReadTimeoutSec == 0 {
		c.Server.ReadTimeoutSec = 10
	}
	if c.Server.WriteTimeoutSec == 0 {
		c.Server.WriteTimeoutSec = 30
	}
	if c.YouTube.Region == "" {
		c.YouTube.Region = "US"
	}
	if c.YouTube.MaxResults == 0 {
		c.YouTube.MaxResults = 20
	}
	if c.YouTube.TimeoutSec == 0 {
		c.YouTube.TimeoutSec = 15
	}
	if c.YouTube.SnapshotFile == "" {
		c.YouTube.SnapshotFile = "data/trending_snapshot.json"
	}
	if c.YouTube.SnapshotMaxAge == "" {
		c.YouTube.SnapshotMaxAge = "6h"
	}
	if c.YouTube.ChartSchedule == "" {
		c.YouTube.ChartSchedule = "0 */4 * * *" // Every 4 hours
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.TimeoutSec == 0 {
		c.AI.TimeoutSec = 30
	}
	if c.Auth.TokenExpireMinutes == 0 {
		c.Auth.TokenExpireMinutes = 30
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or database.url)")
	}
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YouTube API key is required (set YOUTUBE_API_KEY or youtube.api_key)")
	}
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required (set SECRET_KEY or auth.secret)")
	}
	if _, err := time.ParseDuration(c.YouTube.SnapshotMaxAge); err != nil {
		return fmt.Errorf("invalid youtube.snapshot_max_age %q: %w", c.YouTube.SnapshotMaxAge, err)
	}
	return nil
}

// SnapshotMaxAgeDuration returns the parsed snapshot TTL. validate() has
// already rejected unparseable values.
func (c *YouTubeConfig) SnapshotMaxAgeDuration() time.Duration {
	d, _ := time.ParseDuration(c.SnapshotMaxAge)
	return d
}

// Addr returns the host:port the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
