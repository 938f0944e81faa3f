// Package config loads the process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds everything the binary needs. The engine never reads the
// environment itself; values are threaded in from here.
type Config struct {
	DBPath     string
	VecExtPath string // preferred sqlite-vec location, probed first

	OpenRouterBase string
	OpenRouterKey  string

	EmbedModel string
	EmbedDim   int
	ChatModel  string

	AIAssist        bool
	EmbedTimeout    time.Duration
	ClassifyTimeout time.Duration
}

// Load reads configuration from MIND_* environment variables with
// defaults matching a local setup.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:          envStr("MIND_DB_PATH", defaultDBPath()),
		VecExtPath:      envStr("SQLITE_VEC_PATH", "/usr/local/lib/vec0"),
		OpenRouterBase:  envStr("OPENROUTER_BASE", "https://openrouter.ai/api/v1"),
		OpenRouterKey:   os.Getenv("OPENROUTER_API_KEY"),
		EmbedModel:      envStr("MIND_EMBEDDING_MODEL", "qwen/qwen3-embedding-8b"),
		EmbedDim:        envInt("MIND_EMBEDDING_DIM", 4096),
		ChatModel:       envStr("MIND_LLM_MODEL", "qwen/qwen-2.5-7b-instruct"),
		AIAssist:        envBool("MIND_AI_ASSIST", true),
		EmbedTimeout:    envDuration("MIND_EMBED_TIMEOUT", 30*time.Second),
		ClassifyTimeout: envDuration("MIND_CLASSIFY_TIMEOUT", 60*time.Second),
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("MIND_DB_PATH must not be empty")
	}
	if cfg.EmbedDim <= 0 {
		return nil, fmt.Errorf("MIND_EMBEDDING_DIM must be positive, got %d", cfg.EmbedDim)
	}

	return cfg, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mind.db"
	}
	return filepath.Join(home, ".mind", "mind.db")
}

func envStr(key, fallback string) string {
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
