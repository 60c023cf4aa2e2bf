package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg. Chunk overlap
// and the distance threshold are left alone: zero is a valid setting for both.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Storage.LinksPath == "" {
		cfg.Storage.LinksPath = "./outputs/sozoku.txt"
	}
	if cfg.Storage.CSVPath == "" {
		cfg.Storage.CSVPath = "./outputs/sozoku.csv"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "./index"
	}
	if cfg.Scrape.SeedURL == "" {
		cfg.Scrape.SeedURL = "https://www.nta.go.jp/law/tsutatsu/kihon/sisan/sozoku2/01.htm"
	}
	if cfg.Scrape.Filter == "" {
		cfg.Scrape.Filter = "kihon"
	}
	if len(cfg.Scrape.HeadingTags) == 0 {
		cfg.Scrape.HeadingTags = []string{"h2"}
	}
	if cfg.Scrape.Delay == 0 {
		cfg.Scrape.Delay = time.Second
	}
	if cfg.Scrape.Timeout == 0 {
		cfg.Scrape.Timeout = 30 * time.Second
	}
	if cfg.Scrape.UserAgent == "" {
		cfg.Scrape.UserAgent = "sozoku/1.0 (+https://github.com/hyperjump/sozoku)"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.Embedding.Model == "" {
		switch cfg.Embedding.Provider {
		case "ollama":
			cfg.Embedding.Model = "nomic-embed-text"
		default:
			cfg.Embedding.Model = "text-embedding-ada-002"
		}
	}
	if cfg.Embedding.Dimensions == 0 {
		switch cfg.Embedding.Provider {
		case "ollama":
			cfg.Embedding.Dimensions = 768
		case "mock":
			cfg.Embedding.Dimensions = 384
		default:
			cfg.Embedding.Dimensions = 1536
		}
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 64
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "ollama":
			cfg.LLM.Model = "llama3.2"
		default:
			cfg.LLM.Model = "gpt-4o-2024-05-13"
		}
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 2 * time.Minute
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 200
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 4
	}
	if cfg.Retrieval.Template == "" {
		cfg.Retrieval.Template = "expert"
	}
	if cfg.Vector.IndexType == "" {
		cfg.Vector.IndexType = "memory"
	}
	if cfg.Vector.Table == "" {
		cfg.Vector.Table = "sozoku_chunks"
	}
}
