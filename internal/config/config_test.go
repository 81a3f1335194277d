package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Fatalf("base url: %q", cfg.Ollama.BaseURL)
	}
	if cfg.RAG.ChunkSize != 1500 || cfg.RAG.ChunkOverlap != 150 || cfg.RAG.TopK != 3 {
		t.Fatalf("rag defaults: %+v", cfg.RAG)
	}
	if cfg.Generation.TimeoutSeconds != 120 {
		t.Fatalf("timeout: %d", cfg.Generation.TimeoutSeconds)
	}
	if cfg.Bank.Collection != "questions" {
		t.Fatalf("bank collection: %q", cfg.Bank.Collection)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "ollama:\n  base_url: http://remote:11434\nrag:\n  chunk_size: 800\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Ollama.BaseURL != "http://remote:11434" {
		t.Fatalf("base url not read: %q", cfg.Ollama.BaseURL)
	}
	if cfg.RAG.ChunkSize != 800 {
		t.Fatalf("chunk size not read: %d", cfg.RAG.ChunkSize)
	}
	if cfg.RAG.ChunkOverlap != 150 {
		t.Fatalf("overlap default lost: %d", cfg.RAG.ChunkOverlap)
	}
	if cfg.Ollama.GenerateModel != "gemma3n:e2b" {
		t.Fatalf("model default lost: %q", cfg.Ollama.GenerateModel)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
