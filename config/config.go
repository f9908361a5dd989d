package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the docqa service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Source   SourceConfig   `yaml:"source"`
	Index    IndexConfig    `yaml:"index"`
	Retrieve RetrieveConfig `yaml:"retrieve"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// OllamaConfig holds model runtime configuration. The base URL points at an
// OpenAI-compatible endpoint (Ollama's /v1 by default).
type OllamaConfig struct {
	BaseURL        string `yaml:"base_url"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// SourceConfig holds ingestion source configuration.
type SourceConfig struct {
	Dir      string   `yaml:"dir"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// IndexConfig holds vector index and chunking configuration.
type IndexConfig struct {
	Path         string `yaml:"path"`
	ChunkSize    int    `yaml:"chunk_size"`    // characters
	ChunkOverlap int    `yaml:"chunk_overlap"` // characters
	BatchSize    int    `yaml:"batch_size"`    // embedding batch size
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float64 `yaml:"score_threshold"` // accept iff distance < threshold
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "127.0.0.1:8000",
		},
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434/v1",
			EmbeddingModel: "mxbai-embed-large",
			ChatModel:      "phi3",
			TimeoutSeconds: 60,
			MaxRetries:     3,
		},
		Source: SourceConfig{
			Dir:      "data",
			Includes: []string{"**/*"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/__pycache__/**"},
		},
		Index: IndexConfig{
			Path:         filepath.Join(".docqa", "index.db"),
			ChunkSize:    1000,
			ChunkOverlap: 200,
			BatchSize:    100,
		},
		Retrieve: RetrieveConfig{
			TopK:           10,
			ScoreThreshold: 0.7,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docqa.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docqa.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docqa", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks configuration invariants that would otherwise surface as
// confusing behavior deep in the pipeline.
func (c *Config) Validate() error {
	if c.Index.ChunkSize <= 0 {
		return fmt.Errorf("index.chunk_size must be > 0, got %d", c.Index.ChunkSize)
	}
	if c.Index.ChunkOverlap < 0 || c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return fmt.Errorf("index.chunk_overlap must be in [0, chunk_size), got %d", c.Index.ChunkOverlap)
	}
	if c.Retrieve.TopK <= 0 {
		return fmt.Errorf("retrieve.top_k must be > 0, got %d", c.Retrieve.TopK)
	}
	if c.Retrieve.ScoreThreshold <= 0 {
		return fmt.Errorf("retrieve.score_threshold must be > 0, got %f", c.Retrieve.ScoreThreshold)
	}
	return nil
}

// Timeout returns the boundary-call timeout as a duration.
func (c *OllamaConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// applyEnv applies environment variable overrides. A .env file loaded at
// process start feeds these as well.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCQA_OLLAMA_BASE_URL"); v != "" {
		c.Ollama.BaseURL = v
	}
	if v := os.Getenv("DOCQA_EMBEDDING_MODEL"); v != "" {
		c.Ollama.EmbeddingModel = v
	}
	if v := os.Getenv("DOCQA_CHAT_MODEL"); v != "" {
		c.Ollama.ChatModel = v
	}
	if v := os.Getenv("DOCQA_SOURCE_DIR"); v != "" {
		c.Source.Dir = v
	}
	if v := os.Getenv("DOCQA_INDEX_PATH"); v != "" {
		c.Index.Path = v
	}
	if v := os.Getenv("DOCQA_LISTEN_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// IndexPath resolves the index database path against the given root.
func IndexPath(root string, cfg *Config) string {
	if filepath.IsAbs(cfg.Index.Path) {
		return cfg.Index.Path
	}
	return filepath.Join(root, cfg.Index.Path)
}

// EnsureIndexDir ensures the directory holding the index database exists.
func EnsureIndexDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
