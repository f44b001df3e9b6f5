package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/codelai"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements AIProvider using an OpenAI-compatible chat API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string       // OpenAI API key
	Model       string       // Model to use (default: "gpt-4o-mini")
	Temperature float32      // Temperature for generation (default: 0.2)
	BaseURL     string       // Custom base URL for OpenAI-compatible services (optional)
	HTTPClient  *http.Client // Custom HTTP client (default sends the codelai User-Agent)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = cfg.HTTPClient
	if config.HTTPClient == nil {
		config.HTTPClient = defaultHTTPClient()
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Generate sends the prompt as a single user message and returns the reply.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &codelai.ProviderError{
			Kind:      codelai.KindEmptyResponse,
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &codelai.ProviderError{
			Kind:    codelai.KindEmptyResponse,
			Message: "OpenAI returned empty content",
		}
	}

	return content, nil
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

func classifyOpenAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &codelai.ProviderError{
			Kind:       codelai.KindService,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    "OpenAI API call failed",
			Cause:      err,
			Retryable:  isRetryableStatus(apiErr.HTTPStatusCode),
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &codelai.ProviderError{
			Kind:       codelai.KindService,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    "OpenAI API call failed",
			Cause:      err,
			Retryable:  isRetryableStatus(reqErr.HTTPStatusCode),
		}
	}

	return &codelai.ProviderError{
		Kind:      codelai.KindTransport,
		Message:   "OpenAI request failed",
		Cause:     err,
		Retryable: isRetryableError(err),
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isRetryableError(err error) bool {
	// Check for common retryable conditions
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"eof",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements AIProvider
var _ AIProvider = (*OpenAIProvider)(nil)
