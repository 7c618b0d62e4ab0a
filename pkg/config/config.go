package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for sessionlens.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (connection strings, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Analytics configuration
	Analytics AnalyticsConfig `yaml:"analytics"`

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
// DATABASE_URL takes precedence over the discrete fields; managed-cloud
// deployments set it with sslmode=require.
type DatabaseConfig struct {
	// URL is a full connection string. Secret - env only.
	URL            string `yaml:"-" env:"DATABASE_URL"`
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"sessionlens"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"sessionlens"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"require"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// LLMConfig holds external text-generation service configuration.
type LLMConfig struct {
	// Provider selects the client implementation: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
}

// AnalyticsConfig holds reporting-domain settings.
type AnalyticsConfig struct {
	// Timezone is the IANA zone whose wall-clock calendar the fact table is
	// derived in. All generated SQL filters on columns derived in this zone.
	Timezone string `yaml:"timezone" env:"REPORT_TIMEZONE" env-default:"America/Los_Angeles"`

	// SummaryRowLimit bounds how many result rows are fed back to the
	// summarization prompt.
	SummaryRowLimit int `yaml:"summary_row_limit" env:"SUMMARY_ROW_LIMIT" env-default:"20"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The config.yaml file is optional; environment variables alone are enough.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return cfg, nil
}

// ConnectionString returns the PostgreSQL connection string.
// DATABASE_URL wins when set; otherwise one is assembled from the discrete fields.
func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
