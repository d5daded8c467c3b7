package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Generative service
	AnthropicAPIKey string
	Model           string

	// Session budget ceiling in USD; 0 disables the ceiling.
	MaxBudget float64

	// Chunking presets
	CoarseChunkSize  int
	FineChunkSize    int
	SummaryChunkSize int

	// Per-file call concurrency
	MaxConcurrentExtract  int
	MaxConcurrentDocument int

	// Artifact destination
	OutputPath string
}

func Load() Config {
	cfg := Config{
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:           envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		MaxBudget: envFloat("MAX_SESSION_BUDGET", 10.0),

		CoarseChunkSize:  envInt("COARSE_CHUNK_SIZE", 10000),
		FineChunkSize:    envInt("FINE_CHUNK_SIZE", 3000),
		SummaryChunkSize: envInt("SUMMARY_CHUNK_SIZE", 9000),

		MaxConcurrentExtract:  envInt("MAX_CONCURRENT_EXTRACT", 5),
		MaxConcurrentDocument: envInt("MAX_CONCURRENT_DOCUMENT", 5),

		OutputPath: envOr("OUTPUT_PATH", "codetale_out"),
	}

	if cfg.CoarseChunkSize <= 0 {
		cfg.CoarseChunkSize = 10000
	}
	if cfg.FineChunkSize <= 0 {
		cfg.FineChunkSize = 3000
	}
	if cfg.SummaryChunkSize <= 0 {
		cfg.SummaryChunkSize = 9000
	}
	if cfg.MaxConcurrentExtract <= 0 {
		cfg.MaxConcurrentExtract = 5
	}
	if cfg.MaxConcurrentDocument <= 0 {
		cfg.MaxConcurrentDocument = 5
	}
	if cfg.MaxBudget < 0 {
		cfg.MaxBudget = 0
	}

	return cfg
}

func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
