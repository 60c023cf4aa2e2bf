// Package config provides configuration loading and structs for the sozoku pipeline.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "./config.yaml"

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Scrape    ScrapeConfig    `yaml:"scrape"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Vector    VectorConfig    `yaml:"vector"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds artifact and index paths.
type StorageConfig struct {
	LinksPath string `yaml:"links_path"`
	CSVPath   string `yaml:"csv_path"`
	IndexPath string `yaml:"index_path"`
}

// VectorsFile is the memory index file inside IndexPath.
func (s StorageConfig) VectorsFile() string { return filepath.Join(s.IndexPath, "vectors.bin") }

// ChunksDB is the chunk payload database inside IndexPath.
func (s StorageConfig) ChunksDB() string { return filepath.Join(s.IndexPath, "chunks.db") }

// ScrapeConfig holds link collection and page fetch settings.
type ScrapeConfig struct {
	SeedURL     string        `yaml:"seed_url"`
	Filter      string        `yaml:"filter"`
	HeadingTags []string      `yaml:"heading_tags"`
	Delay       time.Duration `yaml:"delay"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
}

// EmbeddingConfig holds embedder settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // openai, ollama, mock
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Dimensions int    `yaml:"dimensions"`
	BatchSize  int    `yaml:"batch_size"`
	CacheSize  int    `yaml:"cache_size"`
}

// LLMConfig holds generation model settings.
type LLMConfig struct {
	Provider    string        `yaml:"provider"` // openai, ollama
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ChunkingConfig holds splitter settings. Sizes are in characters.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrievalConfig holds query-time retrieval settings.
type RetrievalConfig struct {
	TopK             int     `yaml:"top_k"`
	ThresholdEnabled bool    `yaml:"threshold_enabled"`
	Threshold        float64 `yaml:"threshold"`
	Template         string  `yaml:"template"`
}

// VectorConfig selects and configures the vector index backend.
type VectorConfig struct {
	IndexType   string `yaml:"index_type"` // memory, pgvector
	PostgresDSN string `yaml:"postgres_dsn"`
	Table       string `yaml:"table"`
}

// Defaults for settings where zero is a meaningful value. They are filled in
// before the file is parsed, so only an absent key takes the default.
const (
	DefaultChunkOverlap = 20
	DefaultThreshold    = 0.2
)

func newConfig() Config {
	return Config{
		Chunking:  ChunkingConfig{Overlap: DefaultChunkOverlap},
		Retrieval: RetrievalConfig{Threshold: DefaultThreshold},
	}
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := newConfig()
	ApplyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := newConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnv(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.LinksPath = expandPath(cfg.Storage.LinksPath, configDir)
	cfg.Storage.CSVPath = expandPath(cfg.Storage.CSVPath, configDir)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)

	return &cfg, nil
}

// LoadOrDefault loads path. A missing file at DefaultPath yields Default();
// a missing file anywhere else is an error.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg, err := Load(path)
	if err != nil && path == DefaultPath && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnv fills secrets and endpoints from the environment when the file left them empty.
func applyEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = key
		}
		if cfg.Embedding.APIKey == "" {
			cfg.Embedding.APIKey = key
		}
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		if cfg.LLM.Provider == "ollama" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = host
		}
		if cfg.Embedding.Provider == "ollama" && cfg.Embedding.BaseURL == "" {
			cfg.Embedding.BaseURL = host
		}
	}
	if dsn := os.Getenv("SOZOKU_POSTGRES_DSN"); dsn != "" && cfg.Vector.PostgresDSN == "" {
		cfg.Vector.PostgresDSN = dsn
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// "~/" paths are relative to the home directory; anything else is left alone.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
