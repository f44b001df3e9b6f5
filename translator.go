package codelai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Translator is the translation client. It builds the prompt, calls the
// provider once and normalises the answer.
type Translator struct {
	provider AIProvider
	cache    TranslationCache
	timeout  time.Duration
}

// AIProvider is the interface for generative model backends. Generate sends
// a single-turn prompt and returns the model's plain-text answer.
type AIProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithTimeout bounds each provider call. Zero leaves the call bounded only
// by the caller's context and the transport defaults.
func WithTimeout(d time.Duration) TranslatorOption {
	return func(t *Translator) {
		t.timeout = d
	}
}

// NewTranslator creates a new Translator backed by the given provider.
func NewTranslator(provider AIProvider, opts ...TranslatorOption) *Translator {
	t := &Translator{
		provider: provider,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate translates the human-readable text of req.SourceCode. Failures
// reported by the provider are returned as *TranslationError.
func (t *Translator) Translate(ctx context.Context, req TranslationRequest) (*TranslationResult, error) {
	if strings.TrimSpace(req.SourceCode) == "" {
		return nil, ErrEmptySource
	}
	if !IsSupported(req.Language) {
		return nil, &InputError{Field: "language", Message: fmt.Sprintf("unsupported language %q", req.Language)}
	}
	if !req.Mode.Valid() {
		return nil, &InputError{Field: "mode", Message: fmt.Sprintf("unknown mode %q", req.Mode)}
	}
	if req.TargetLang == "" {
		req.TargetLang = DefaultTargetLang
	}

	key := CacheKey(req)
	if t.cache != nil {
		if cached, ok := t.cache.Get(key); ok {
			return &TranslationResult{Code: cached, Cached: true}, nil
		}
	}

	if t.provider == nil {
		return nil, &TranslationError{Kind: KindService, Message: "no translation service is configured"}
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	raw, err := t.provider.Generate(ctx, BuildPrompt(req))
	if err != nil {
		return nil, toTranslationError(err)
	}

	code := StripCodeFences(raw)
	if strings.TrimSpace(code) == "" {
		return nil, &TranslationError{
			Kind:    KindEmptyResponse,
			Message: "The translation service returned an empty response. Please try again.",
		}
	}

	if t.cache != nil {
		_ = t.cache.Set(key, code) // Ignore cache set errors
	}

	return &TranslationResult{Code: code}, nil
}

// toTranslationError maps any provider failure to a user-readable error.
func toTranslationError(err error) *TranslationError {
	var te *TranslationError
	if errors.As(err, &te) {
		return te
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TranslationError{
			Kind:    KindTransport,
			Message: "The translation service did not respond in time. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &TranslationError{
			Kind:    KindTransport,
			Message: "The translation was cancelled.",
			Cause:   err,
		}
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case KindService:
			return &TranslationError{Kind: KindService, Message: serviceMessage(pe.StatusCode), Cause: err}
		case KindEmptyResponse:
			return &TranslationError{
				Kind:    KindEmptyResponse,
				Message: "The translation service returned an empty response. Please try again.",
				Cause:   err,
			}
		}
	}

	return &TranslationError{
		Kind:    KindTransport,
		Message: "Could not reach the translation service. Check your network connection and try again.",
		Cause:   err,
	}
}

func serviceMessage(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "The translation service rejected the request as malformed."
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "The translation service rejected the API key. Check your configuration."
	case status == http.StatusNotFound:
		return "The configured model was not found by the translation service."
	case status == http.StatusTooManyRequests:
		return "The translation quota or rate limit was exceeded. Wait a moment and try again."
	case status >= 500:
		return "The translation service is temporarily unavailable. Please try again later."
	default:
		return "The translation service returned an error."
	}
}

// Timeout returns the per-call timeout (zero when unset).
func (t *Translator) Timeout() time.Duration {
	return t.timeout
}
