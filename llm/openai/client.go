package openai

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/cadforge/cadforge/llm"
	"github.com/cadforge/cadforge/metrics"
)

// OpenAIClient implements the LLMProvider interface for OpenAI chat models.
type OpenAIClient struct {
	client *openai.Client
	config *Config

	// Rate limiting
	rateLimiter *time.Ticker
	tokens      chan struct{}
}

// NewOpenAIClient creates a new OpenAI client with the provided configuration.
func NewOpenAIClient(config *Config) (*OpenAIClient, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	client := &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}

	// Initialize rate limiter only if rate limiting is enabled.
	if config.RateLimit > 0 {
		tokens := make(chan struct{}, config.RateLimit)
		rateLimiter := time.NewTicker(config.RateLimitInterval / time.Duration(config.RateLimit))
		for i := 0; i < config.RateLimit; i++ {
			tokens <- struct{}{}
		}
		client.rateLimiter = rateLimiter
		client.tokens = tokens
		go client.refillTokens()
	}

	return client, nil
}

// NewOpenAIClientFromEnv creates a new OpenAI client using environment variables.
func NewOpenAIClientFromEnv() (*OpenAIClient, error) {
	config, err := NewConfigFromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration from environment")
	}
	return NewOpenAIClient(config)
}

// CallLLM implements the generic interface, converting messages internally.
func (c *OpenAIClient) CallLLM(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	result := llm.Message{}
	if len(messages) == 0 {
		return result, errors.New("no messages to send")
	}

	if c.tokens != nil {
		select {
		case <-c.tokens:
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}

	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	request := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    openaiMessages,
		Temperature: c.config.Temperature,
	}
	if c.config.MaxTokens > 0 {
		request.MaxTokens = c.config.MaxTokens
	}

	metrics.LLMCalls.WithLabelValues(c.GetName()).Inc()

	// Make the API call with retries and linear backoff.
	var response openai.ChatCompletionResponse
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		response, lastErr = c.client.CreateChatCompletion(ctx, request)
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

	if len(response.Choices) == 0 {
		return result, errors.New("no choices returned from OpenAI API")
	}

	result.Role = llm.RoleAssistant
	result.Content = response.Choices[0].Message.Content
	return result, nil
}

// GetName returns the provider name.
func (c *OpenAIClient) GetName() string {
	return "openai"
}

// refillTokens runs in a goroutine to refill the token bucket at the configured rate.
func (c *OpenAIClient) refillTokens() {
	for range c.rateLimiter.C {
		select {
		case c.tokens <- struct{}{}:
		default:
			// Token bucket is full, skip.
		}
	}
}

// Close stops the rate limiter and cleans up resources.
func (c *OpenAIClient) Close() {
	if c.rateLimiter != nil {
		c.rateLimiter.Stop()
	}
}
