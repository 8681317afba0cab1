package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.MinFanoutSize != 5 || cfg.MaxDepth != 3 {
		t.Errorf("recursion policy = %d/%d, want 5/3", cfg.MinFanoutSize, cfg.MaxDepth)
	}
	if cfg.ServiceConcurrency != 8 {
		t.Errorf("service concurrency = %d", cfg.ServiceConcurrency)
	}
	if cfg.PerCallTimeout != 60*time.Second {
		t.Errorf("per-call timeout = %v", cfg.PerCallTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MIN_FANOUT_SIZE", "7")
	t.Setenv("MAX_DEPTH", "2")
	t.Setenv("SERVICE_BACKEND", "openai")
	t.Setenv("PER_CALL_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MinFanoutSize != 7 || cfg.MaxDepth != 2 {
		t.Errorf("recursion policy = %d/%d", cfg.MinFanoutSize, cfg.MaxDepth)
	}
	if cfg.ServiceBackend != "openai" {
		t.Errorf("backend = %q", cfg.ServiceBackend)
	}
	if cfg.PerCallTimeout != 45*time.Second {
		t.Errorf("per-call timeout = %v", cfg.PerCallTimeout)
	}
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9000\"\nmin_fanout_size: 4\nmax_depth: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOCSTRUCT_CONFIG", path)
	t.Setenv("MAX_DEPTH", "5") // env wins over file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("port = %q, file value not applied", cfg.Port)
	}
	if cfg.MinFanoutSize != 4 {
		t.Errorf("min fanout = %d, file value not applied", cfg.MinFanoutSize)
	}
	if cfg.MaxDepth != 5 {
		t.Errorf("max depth = %d, env must override file", cfg.MaxDepth)
	}
}

func TestLoad_MissingConfigFileErrors(t *testing.T) {
	t.Setenv("DOCSTRUCT_CONFIG", "/nonexistent/config.yaml")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_ClampsInvalidValues(t *testing.T) {
	t.Setenv("MIN_FANOUT_SIZE", "-1")
	t.Setenv("MAX_DEPTH", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MinFanoutSize != 5 || cfg.MaxDepth != 3 {
		t.Errorf("invalid values must clamp to defaults, got %d/%d", cfg.MinFanoutSize, cfg.MaxDepth)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without api key")
	}

	cfg.APIKey = "secret"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without backend credentials")
	}

	cfg.AnthropicAPIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.ServiceBackend = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}
