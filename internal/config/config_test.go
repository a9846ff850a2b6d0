package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		cleanup func()
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "load with defaults (no config file)",
			setup: func() {
				// Reset viper
				viper.Reset()
			},
			cleanup: func() {},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Database.Host != "localhost" {
					t.Errorf("Database.Host = %s, want localhost", cfg.Database.Host)
				}
				if cfg.Database.Port != 5432 {
					t.Errorf("Database.Port = %d, want 5432", cfg.Database.Port)
				}
				if cfg.Database.Name != "highlights" {
					t.Errorf("Database.Name = %s, want highlights", cfg.Database.Name)
				}
				if cfg.Ingest.TermsFile != "seeds/keywords.json" {
					t.Errorf("Ingest.TermsFile = %s, want seeds/keywords.json", cfg.Ingest.TermsFile)
				}
				if cfg.Ingest.MaxResultsPerTerm != 25 {
					t.Errorf("Ingest.MaxResultsPerTerm = %d, want 25", cfg.Ingest.MaxResultsPerTerm)
				}
				if cfg.Ingest.Workers != 2 {
					t.Errorf("Ingest.Workers = %d, want 2", cfg.Ingest.Workers)
				}
				if cfg.Metrics.Enabled {
					t.Error("Metrics.Enabled = true, want false")
				}
			},
		},
		{
			name: "load with environment variables",
			setup: func() {
				viper.Reset()
				viper.SetEnvPrefix("APP")
				viper.AutomaticEnv()
				os.Setenv("APP_YOUTUBE_APIKEY", "test-key")
				os.Setenv("APP_DATABASE_HOST", "testdb")
				os.Setenv("APP_DATABASE_PORT", "5433")
				os.Setenv("APP_DATABASE_NAME", "testdb")
				os.Setenv("APP_INGEST_WORKERS", "4")
				os.Setenv("APP_INGEST_MAXRESULTSPERTERM", "50")
				// Manually bind env vars since AutomaticEnv doesn't work with nested keys
				viper.BindEnv("youtube.apikey", "APP_YOUTUBE_APIKEY")
				viper.BindEnv("database.host", "APP_DATABASE_HOST")
				viper.BindEnv("database.port", "APP_DATABASE_PORT")
				viper.BindEnv("database.name", "APP_DATABASE_NAME")
				viper.BindEnv("ingest.workers", "APP_INGEST_WORKERS")
				viper.BindEnv("ingest.maxresultsperterm", "APP_INGEST_MAXRESULTSPERTERM")
			},
			cleanup: func() {
				os.Unsetenv("APP_YOUTUBE_APIKEY")
				os.Unsetenv("APP_DATABASE_HOST")
				os.Unsetenv("APP_DATABASE_PORT")
				os.Unsetenv("APP_DATABASE_NAME")
				os.Unsetenv("APP_INGEST_WORKERS")
				os.Unsetenv("APP_INGEST_MAXRESULTSPERTERM")
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				if cfg.YouTube.APIKey != "test-key" {
					t.Errorf("YouTube.APIKey = %s, want test-key", cfg.YouTube.APIKey)
				}
				if cfg.Database.Host != "testdb" {
					t.Errorf("Database.Host = %s, want testdb", cfg.Database.Host)
				}
				if cfg.Database.Port != 5433 {
					t.Errorf("Database.Port = %d, want 5433", cfg.Database.Port)
				}
				if cfg.Ingest.Workers != 4 {
					t.Errorf("Ingest.Workers = %d, want 4", cfg.Ingest.Workers)
				}
				if cfg.Ingest.MaxResultsPerTerm != 50 {
					t.Errorf("Ingest.MaxResultsPerTerm = %d, want 50", cfg.Ingest.MaxResultsPerTerm)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			defer func() {
				if tt.cleanup != nil {
					tt.cleanup()
				}
			}()

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.check != nil && cfg != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	setDefaults()

	tests := []struct {
		name string
		key  string
		want interface{}
	}{
		{"youtube apikey", "youtube.apikey", ""},
		{"database host", "database.host", "localhost"},
		{"database port", "database.port", 5432},
		{"database name", "database.name", "highlights"},
		{"database user", "database.user", "postgres"},
		{"database maxconnections", "database.maxconnections", 10},
		{"database minconnections", "database.minconnections", 2},
		{"ingest termsfile", "ingest.termsfile", "seeds/keywords.json"},
		{"ingest maxresultsperterm", "ingest.maxresultsperterm", 25},
		{"ingest workers", "ingest.workers", 2},
		{"ingest ratelimitpersecond", "ingest.ratelimitpersecond", 1.0},
		{"metrics enabled", "metrics.enabled", false},
		{"metrics port", "metrics.port", 9090},
		{"logging level", "logging.level", "info"},
		{"logging file", "logging.file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := viper.Get(tt.key)
			if got != tt.want {
				t.Errorf("viper.Get(%s) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}

	// Test time.Duration defaults
	if viper.GetDuration("ingest.requesttimeout") != 10*time.Second {
		t.Errorf("ingest.requesttimeout = %v, want 10s", viper.GetDuration("ingest.requesttimeout"))
	}
	if viper.GetDuration("database.maxidletime") != 10*time.Minute {
		t.Errorf("database.maxidletime = %v, want 10m", viper.GetDuration("database.maxidletime"))
	}
	if viper.GetDuration("database.maxlifetime") != 1*time.Hour {
		t.Errorf("database.maxlifetime = %v, want 1h", viper.GetDuration("database.maxlifetime"))
	}
}

func TestSearchTerms(t *testing.T) {
	writeTerms := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "keywords.json")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("reads terms from JSON file", func(t *testing.T) {
		cfg := &Config{}
		cfg.Ingest.TermsFile = writeTerms(t, `["NBA highlights", "Lakers highlights", "  Celtics highlights  ", ""]`)

		terms, err := cfg.SearchTerms()
		if err != nil {
			t.Fatalf("SearchTerms() error = %v", err)
		}
		want := []string{"NBA highlights", "Lakers highlights", "Celtics highlights"}
		if len(terms) != len(want) {
			t.Fatalf("SearchTerms() returned %d terms, want %d", len(terms), len(want))
		}
		for i := range want {
			if terms[i] != want[i] {
				t.Errorf("terms[%d] = %q, want %q", i, terms[i], want[i])
			}
		}
	})

	t.Run("rejects empty term list", func(t *testing.T) {
		cfg := &Config{}
		cfg.Ingest.TermsFile = writeTerms(t, `[]`)

		if _, err := cfg.SearchTerms(); err == nil {
			t.Error("SearchTerms() expected error for empty list")
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		cfg := &Config{}
		cfg.Ingest.TermsFile = writeTerms(t, `{"not": "a list"}`)

		if _, err := cfg.SearchTerms(); err == nil {
			t.Error("SearchTerms() expected error for invalid JSON")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{}
		cfg.Ingest.TermsFile = "/nonexistent/keywords.json"

		if _, err := cfg.SearchTerms(); err == nil {
			t.Error("SearchTerms() expected error for missing file")
		}
	})
}
