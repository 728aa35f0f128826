package gemini

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// Config holds Gemini-specific configuration settings.
type Config struct {
	APIKey      string        // Google API key
	Model       string        // Default: "gemini-2.0-flash"
	Temperature float32       // Sampling temperature for this client
	MaxRetries  int           // Default: 3
	Backend     genai.Backend // Default: genai.BackendGeminiAPI
}

// NewConfigFromEnv creates config from environment variables with sensible defaults.
func NewConfigFromEnv() (*Config, error) {
	config := &Config{
		APIKey:      os.Getenv("GOOGLE_API_KEY"),
		Model:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		Temperature: getEnvFloatOrDefault("GEMINI_TEMPERATURE", 0.2),
		MaxRetries:  getEnvIntOrDefault("GEMINI_MAX_RETRIES", 3),
		Backend:     genai.BackendGeminiAPI,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// WithTemperature returns a copy of the config with the given temperature.
func (c *Config) WithTemperature(temperature float32) *Config {
	clone := *c
	clone.Temperature = temperature
	return &clone
}

// Validate checks if the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("GOOGLE_API_KEY is required")
	}
	if c.Model == "" {
		return errors.New("model name cannot be empty")
	}
	if c.Temperature < 0.0 || c.Temperature > 1.0 {
		return errors.Errorf("temperature must be between 0.0 and 1.0, got %f", c.Temperature)
	}
	if c.MaxRetries < 0 {
		return errors.Errorf("maxRetries cannot be negative, got %d", c.MaxRetries)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
