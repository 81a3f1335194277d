package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Ollama     OllamaConfig     `yaml:"ollama"`
	RAG        RAGConfig        `yaml:"rag"`
	Generation GenerationConfig `yaml:"generation"`
	Database   DatabaseConfig   `yaml:"database"`
	Bank       BankConfig       `yaml:"bank"`
}

type OllamaConfig struct {
	BaseURL        string `yaml:"base_url"`
	GenerateModel  string `yaml:"generate_model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
}

type GenerationConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	Temperature    float64 `yaml:"temperature"`
	TopP           float64 `yaml:"top_p"`
	NumPredict     int     `yaml:"num_predict"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type BankConfig struct {
	Path          string `yaml:"path"`
	Collection    string `yaml:"collection"`
	EncryptionKey string `yaml:"encryption_key"`
}

const (
	defaultBaseURL        = "http://localhost:11434"
	defaultGenerateModel  = "gemma3n:e2b"
	defaultEmbeddingModel = "gemma3n:e2b"
	defaultChunkSize      = 1500
	defaultChunkOverlap   = 150
	defaultTopK           = 3
	defaultTimeoutSec     = 120
	defaultTemperature    = 0.7
	defaultTopP           = 0.9
	defaultNumPredict     = 1500
	defaultBankPath       = "./questionbank"
	defaultBankCollection = "questions"
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields so a partial config file still works.
func (c *Config) ApplyDefaults() {
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = defaultBaseURL
	}
	if c.Ollama.GenerateModel == "" {
		c.Ollama.GenerateModel = defaultGenerateModel
	}
	if c.Ollama.EmbeddingModel == "" {
		c.Ollama.EmbeddingModel = defaultEmbeddingModel
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.Generation.TimeoutSeconds == 0 {
		c.Generation.TimeoutSeconds = defaultTimeoutSec
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = defaultTemperature
	}
	if c.Generation.TopP == 0 {
		c.Generation.TopP = defaultTopP
	}
	if c.Generation.NumPredict == 0 {
		c.Generation.NumPredict = defaultNumPredict
	}
	if c.Bank.Path == "" {
		c.Bank.Path = defaultBankPath
	}
	if c.Bank.Collection == "" {
		c.Bank.Collection = defaultBankCollection
	}
}

// Default returns a config with every field at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}
