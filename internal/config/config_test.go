package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		Datasets: []string{"dataset/intents.json"},
		WordVec:  WordVecConfig{Path: "vectors.txt"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.TCP.Port != 5000 || cfg.TCP.Host != "0.0.0.0" {
		t.Errorf("unexpected tcp defaults: %+v", cfg.TCP)
	}
	if cfg.Encoder.MaxTokenLength != 25 {
		t.Errorf("expected max_token_length 25, got %d", cfg.Encoder.MaxTokenLength)
	}
	if cfg.WordVec.Source != "file" || cfg.Model.Store != "file" {
		t.Errorf("unexpected source/store defaults: %q, %q", cfg.WordVec.Source, cfg.Model.Store)
	}
	if cfg.Model.Epochs != 250 {
		t.Errorf("expected 250 epochs, got %d", cfg.Model.Epochs)
	}
	if cfg.TCP.ReadTimeoutSec != 0 {
		t.Errorf("read timeout must stay disabled by default, got %d", cfg.TCP.ReadTimeoutSec)
	}
	if cfg.HTTP.Port != 0 {
		t.Errorf("admin http must stay disabled by default, got %d", cfg.HTTP.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad tcp port", func(c *Config) { c.TCP.Port = 70000 }, "tcp.port"},
		{"negative read timeout", func(c *Config) { c.TCP.ReadTimeoutSec = -1 }, "tcp.read_timeout_sec"},
		{"no datasets", func(c *Config) { c.Datasets = nil }, "datasets is required"},
		{"bad driver", func(c *Config) { c.Database.Driver = "memcached" }, "database.driver"},
		{"file without path", func(c *Config) { c.WordVec.Path = "" }, "wordvec.path"},
		{"openai without model", func(c *Config) { c.WordVec.Source = "openai" }, "wordvec.openai.model"},
		{"openai without dims", func(c *Config) {
			c.WordVec.Source = "openai"
			c.WordVec.OpenAI.Model = "text-embedding-3-small"
		}, "wordvec.openai.dimensions"},
		{"unknown source", func(c *Config) { c.WordVec.Source = "glove" }, "wordvec.source"},
		{"cache without db", func(c *Config) { c.WordVec.Cache = true }, "wordvec.cache"},
		{"kv store without db", func(c *Config) { c.Model.Store = "kv" }, "model.store"},
		{"kv store with db", func(c *Config) {
			c.Model.Store = "kv"
			c.Database.Addrs = []string{"localhost:6379"}
		}, ""},
		{"unknown store", func(c *Config) { c.Model.Store = "s3" }, "model.store"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("INTENTD_TEST_PORT", "6000")

	cfg, err := Parse([]byte(`
tcp:
  port: ${INTENTD_TEST_PORT}
datasets:
  - ${INTENTD_TEST_DATASET:-dataset/intents.json}
wordvec:
  path: vectors.txt
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TCP.Port != 6000 {
		t.Errorf("expected port 6000, got %d", cfg.TCP.Port)
	}
	if cfg.Datasets[0] != "dataset/intents.json" {
		t.Errorf("expected default dataset path, got %q", cfg.Datasets[0])
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	content := "datasets: [a.json]\nwordvec:\n  path: v.txt\nmodel:\n  epochs: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.Epochs != 10 {
		t.Errorf("expected 10 epochs, got %d", cfg.Model.Epochs)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTCPAddr(t *testing.T) {
	c := TCPConfig{Host: "127.0.0.1", Port: 5000}
	if c.Addr() != "127.0.0.1:5000" {
		t.Errorf("unexpected addr %q", c.Addr())
	}
}

func TestLoad_ShippedLocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Encoder.MaxTokenLength != 25 {
		t.Errorf("max_token_length = %d, want 25", cfg.Encoder.MaxTokenLength)
	}
	if len(cfg.Datasets) == 0 || cfg.Database.Enabled() {
		t.Errorf("unexpected local config: datasets=%v db=%v", cfg.Datasets, cfg.Database.Addrs)
	}
}
