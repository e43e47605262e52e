package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the intentd configuration.
type Config struct {
	TCP      TCPConfig      `yaml:"tcp"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Datasets []string       `yaml:"datasets"`
	Encoder  EncoderConfig  `yaml:"encoder"`
	WordVec  WordVecConfig  `yaml:"wordvec"`
	Model    ModelConfig    `yaml:"model"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// TCPConfig holds the classification socket settings.
type TCPConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	ReadTimeoutSec int    `yaml:"read_timeout_sec"` // 0 = wait for the peer indefinitely
}

// Addr returns host:port.
func (c TCPConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// HTTPConfig holds admin HTTP server settings. Port 0 disables the admin server.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	// APIKeys guard /v1/classify. Empty disables authentication.
	APIKeys []string `yaml:"api_keys"`
}

// DatabaseConfig holds KV store connection settings. Empty Addrs disables the store.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a KV store is configured.
func (c DatabaseConfig) Enabled() bool { return len(c.Addrs) > 0 }

// EncoderConfig holds sentence encoding settings.
type EncoderConfig struct {
	MaxTokenLength int `yaml:"max_token_length"`
}

// WordVecConfig selects and configures the word vector source.
type WordVecConfig struct {
	Source string       `yaml:"source"` // file, openai (default: file)
	Path   string       `yaml:"path"`   // word2vec/GloVe text file for source=file
	Cache  bool         `yaml:"cache"`  // cache vectors in the KV store
	OpenAI OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig holds OpenAI-compatible embeddings provider settings.
type OpenAIConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	Provider   string `yaml:"provider"`
}

// ModelConfig holds predictor training and persistence settings.
type ModelConfig struct {
	Store        string  `yaml:"store"` // file, kv (default: file)
	Dir          string  `yaml:"dir"`
	Ref          string  `yaml:"ref"` // snapshot to load; empty = latest
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.TCP.Host == "" {
		c.TCP.Host = "0.0.0.0"
	}
	if c.TCP.Port == 0 {
		c.TCP.Port = 5000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Encoder.MaxTokenLength <= 0 {
		c.Encoder.MaxTokenLength = 25
	}
	if c.WordVec.Source == "" {
		c.WordVec.Source = "file"
	}
	if c.WordVec.OpenAI.Provider == "" {
		c.WordVec.OpenAI.Provider = "openai"
	}
	if c.Model.Store == "" {
		c.Model.Store = "file"
	}
	if c.Model.Dir == "" {
		c.Model.Dir = "classifier_models"
	}
	if c.Model.Epochs <= 0 {
		c.Model.Epochs = 250
	}
	if c.Model.LearningRate <= 0 {
		c.Model.LearningRate = 0.5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.TCP.Port < 1 || c.TCP.Port > 65535 {
		return fmt.Errorf("tcp.port must be between 1 and 65535, got %d", c.TCP.Port)
	}
	if c.TCP.ReadTimeoutSec < 0 {
		return errors.New("tcp.read_timeout_sec must not be negative")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 0 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Datasets) == 0 {
		return errors.New("datasets is required")
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}

	switch c.WordVec.Source {
	case "file":
		if c.WordVec.Path == "" {
			return errors.New("wordvec.path is required for source \"file\"")
		}
	case "openai":
		if c.WordVec.OpenAI.Model == "" {
			return errors.New("wordvec.openai.model is required for source \"openai\"")
		}
		if c.WordVec.OpenAI.Dimensions <= 0 {
			return errors.New("wordvec.openai.dimensions must be positive for source \"openai\"")
		}
	default:
		return fmt.Errorf("wordvec.source must be \"file\" or \"openai\", got %q", c.WordVec.Source)
	}
	if c.WordVec.Cache && !c.Database.Enabled() {
		return errors.New("wordvec.cache requires database.addrs")
	}

	switch c.Model.Store {
	case "file":
	case "kv":
		if !c.Database.Enabled() {
			return errors.New("model.store \"kv\" requires database.addrs")
		}
	default:
		return fmt.Errorf("model.store must be \"file\" or \"kv\", got %q", c.Model.Store)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
