package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
port: "3000"
env: "test"
database:
  host: "db.example.com"
  port: 5432
  user: "testuser"
  database: "testdb"
llm:
  provider: "openai"
  model: "gpt-4o-mini"
analytics:
  timezone: "America/Los_Angeles"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})

	os.Unsetenv("PGHOST")
	os.Unsetenv("DATABASE_URL")

	t.Setenv("PORT", "4000")
	t.Setenv("LLM_MODEL", "gpt-4o")

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "4000" {
		t.Errorf("expected Port=4000 (from env), got %s", cfg.Port)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("expected LLM model gpt-4o (from env), got %s", cfg.LLM.Model)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("expected database host from yaml, got %s", cfg.Database.Host)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected version test-version, got %s", cfg.Version)
	}
}

func TestLoad_DefaultsWithoutYAML(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})

	os.Unsetenv("PORT")
	os.Unsetenv("LLM_PROVIDER")
	os.Unsetenv("REPORT_TIMEZONE")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("expected default port 3000, got %s", cfg.Port)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected default provider openai, got %s", cfg.LLM.Provider)
	}
	if cfg.Analytics.Timezone != "America/Los_Angeles" {
		t.Errorf("expected default timezone America/Los_Angeles, got %s", cfg.Analytics.Timezone)
	}
	if cfg.Analytics.SummaryRowLimit != 20 {
		t.Errorf("expected default summary row limit 20, got %d", cfg.Analytics.SummaryRowLimit)
	}
}

func TestConnectionString(t *testing.T) {
	dbCfg := &DatabaseConfig{
		Host: "localhost", Port: 5432, User: "app",
		Password: "pw", Database: "ratings", SSLMode: "require",
	}
	got := dbCfg.ConnectionString()
	want := "host=localhost port=5432 user=app password=pw dbname=ratings sslmode=require"
	if got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}

	dbCfg.URL = "postgresql://app:pw@remote:5432/ratings?sslmode=require"
	if dbCfg.ConnectionString() != dbCfg.URL {
		t.Errorf("expected DATABASE_URL to take precedence")
	}
}
