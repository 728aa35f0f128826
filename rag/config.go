package rag

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// LLMConfig selects the chat backend used for the reasoning nodes.
type LLMConfig struct {
	// Provider is "openai" or "gemini".
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// RetrievalConfig configures the vector-store collaborator and the
// insufficient-context retry budget.
type RetrievalConfig struct {
	TopK           int    `json:"top_k"`
	MaxRetries     int    `json:"max_retries"`
	DatabaseURL    string `json:"database_url"`
	RedisAddr      string `json:"redis_addr"`
	EmbeddingModel string `json:"embedding_model"`
}

// GenerationConfig configures code generation and the invalid-code retry
// budget.
type GenerationConfig struct {
	GuidelinesPath string  `json:"guidelines_path"`
	MaxRetries     int     `json:"max_retries"`
	Temperature    float32 `json:"temperature"`
}

// Config is the pipeline configuration, loaded from a JSON file with
// environment overrides for deployment-specific values.
type Config struct {
	LLM          LLMConfig        `json:"llm"`
	Retrieval    RetrievalConfig  `json:"retrieval"`
	Generation   GenerationConfig `json:"generation"`
	NotebookPath string           `json:"notebook_path"`
	MetricsAddr  string           `json:"metrics_addr"`

	// DisableJudgmentGating switches Evaluate and Verify to record their
	// judgments without acting on them, so every run takes the straight
	// default path. The zero value keeps gating on.
	DisableJudgmentGating bool `json:"disable_judgment_gating"`
}

// LoadConfig reads a JSON config file, applies defaults and environment
// overrides. A missing file is not an error; defaults and environment are
// used instead.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	config.applyEnv()
	config.applyDefaults()
	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Retrieval.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Retrieval.RedisAddr = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("NOTEBOOK_PATH"); v != "" {
		c.NotebookPath = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.MaxRetries == 0 {
		c.Retrieval.MaxRetries = 2
	}
	if c.Generation.MaxRetries == 0 {
		c.Generation.MaxRetries = 2
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = 0.6
	}
	if c.Generation.GuidelinesPath == "" {
		c.Generation.GuidelinesPath = "./documents/cadquery-improvement-guide.md"
	}
	if c.NotebookPath == "" {
		c.NotebookPath = "./query/result.ipynb"
	}
}
