package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/codelai"
	"google.golang.org/genai"
)

// GeminiProvider implements AIProvider using the Gemini API.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey      string       // Gemini API key
	Model       string       // Model to use (default: "gemini-2.5-flash")
	Temperature float32      // Temperature for generation (default: 0.2)
	BaseURL     string       // Custom endpoint (optional)
	HTTPClient  *http.Client // Custom HTTP client (default sends the codelai User-Agent)
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, &codelai.ProviderError{
			Kind:    codelai.KindService,
			Message: "creating Gemini client",
			Cause:   err,
		}
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

// Generate sends the prompt as a single-turn request and returns the text
// of the first candidate.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.temperature),
	})
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := extractGeminiText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &codelai.ProviderError{
			Kind:    codelai.KindEmptyResponse,
			Message: "no text in Gemini response",
		}
	}

	return text, nil
}

// Model returns the configured model name.
func (p *GeminiProvider) Model() string {
	return p.model
}

// extractGeminiText concatenates the text parts of the first candidate.
func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	var text strings.Builder
	for _, part := range content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String()
}

func classifyGeminiError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	status := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.Code
	case errors.As(err, &apiErrPtr):
		status = apiErrPtr.Code
	}

	if status > 0 {
		return &codelai.ProviderError{
			Kind:       codelai.KindService,
			StatusCode: status,
			Message:    "Gemini API call failed",
			Cause:      err,
			Retryable:  isRetryableStatus(status),
		}
	}

	return &codelai.ProviderError{
		Kind:      codelai.KindTransport,
		Message:   "Gemini request failed",
		Cause:     err,
		Retryable: isRetryableError(err),
	}
}

// Verify GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)
