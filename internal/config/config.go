// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	YouTube  YouTubeConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Ingest   IngestConfig
	Metrics  MetricsConfig
}

// YouTubeConfig contains YouTube Data API credentials.
type YouTubeConfig struct {
	APIKey string
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// IngestConfig contains tunables for one ingestion run.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type IngestConfig struct {
	TermsFile          string
	MaxResultsPerTerm  int64
	RequestTimeout     time.Duration
	Workers            int
	RateLimitPerSecond float64
}

// MetricsConfig contains the Prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// SearchTerms reads the configured terms file: a JSON array of search
// strings. Blank entries are dropped; an empty list is an error because a
// run with no terms does nothing.
func (c *Config) SearchTerms() ([]string, error) {
	data, err := os.ReadFile(c.Ingest.TermsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read terms file: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse terms file %s: %w", c.Ingest.TermsFile, err)
	}

	terms := make([]string, 0, len(raw))
	for _, term := range raw {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("terms file %s contains no search terms", c.Ingest.TermsFile)
	}

	return terms, nil
}

func setDefaults() {
	// YouTube
	viper.SetDefault("youtube.apikey", "")

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "highlights")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 2)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// Ingest
	viper.SetDefault("ingest.termsfile", "seeds/keywords.json")
	viper.SetDefault("ingest.maxresultsperterm", 25)
	viper.SetDefault("ingest.requesttimeout", 10*time.Second)
	viper.SetDefault("ingest.workers", 2)
	viper.SetDefault("ingest.ratelimitpersecond", 1.0)

	// Metrics
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
