package gemini

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/cadforge/cadforge/llm"
	"github.com/cadforge/cadforge/metrics"
)

// GeminiClient implements the LLMProvider interface for Google's Gemini models.
type GeminiClient struct {
	genaiClient *genai.Client
	config      *Config
}

// NewGeminiClient creates a new Gemini client with the provided configuration.
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: config.Backend,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GenAI client")
	}

	return &GeminiClient{
		genaiClient: genaiClient,
		config:      config,
	}, nil
}

// NewGeminiClientFromEnv creates a new Gemini client using environment variables.
func NewGeminiClientFromEnv(ctx context.Context) (*GeminiClient, error) {
	config, err := NewConfigFromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration from environment")
	}
	return NewGeminiClient(ctx, config)
}

// CallLLM implements the generic interface, converting messages internally.
func (c *GeminiClient) CallLLM(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	result := llm.Message{}
	if len(messages) == 0 {
		return result, errors.New("no messages to send")
	}

	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		contents = append(contents, &genai.Content{
			Role: getRole(msg.Role),
			Parts: []*genai.Part{
				{Text: msg.Content},
			},
		})
	}

	temperature := c.config.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}

	metrics.LLMCalls.WithLabelValues(c.GetName()).Inc()

	var response *genai.GenerateContentResponse
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		response, lastErr = c.genaiClient.Models.GenerateContent(ctx, c.config.Model, contents, genConfig)
		if lastErr == nil {
			break
		}
		if attempt < c.config.MaxRetries {
			waitTime := time.Duration(attempt+1) * time.Second
			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}
	}
	if lastErr != nil {
		return result, errors.Wrapf(lastErr, "failed after %d retries", c.config.MaxRetries)
	}

	result.Role = llm.RoleAssistant
	result.Content = response.Text()
	return result, nil
}

func getRole(role string) string {
	switch role {
	case llm.RoleAssistant:
		return genai.RoleModel
	default:
		return genai.RoleUser
	}
}

// GetName returns the provider name.
func (c *GeminiClient) GetName() string {
	return "gemini"
}
