package codelai

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls how a RetryableProvider repeats failed requests.
type RetryConfig struct {
	MaxRetries int           // retries after the first request
	BaseDelay  time.Duration // wait before the first retry, doubled each time
	MaxDelay   time.Duration // upper bound for a single wait

	// OnRetry, if set, is called before each wait.
	OnRetry func(RetryAttempt)
}

// RetryAttempt describes a failed request that is about to be repeated.
type RetryAttempt struct {
	Attempt int           // 1-based number of the request that failed
	Kind    ErrorKind     // failure class reported by the provider
	Delay   time.Duration // wait before the next request
	Err     error
}

// DefaultRetryConfig returns the backoff used when retries are enabled.
// Retries are opt-in: a Translator makes a single request unless its
// provider is wrapped with NewRetryableProvider.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// backoff returns the wait after the given 0-based failed request.
func (c RetryConfig) backoff(failed int) time.Duration {
	d := c.BaseDelay << failed
	if c.MaxDelay > 0 && (d > c.MaxDelay || d < c.BaseDelay) {
		return c.MaxDelay
	}
	return d
}

// RetryableProvider repeats a prompt while the wrapped provider reports a
// retryable ProviderError.
type RetryableProvider struct {
	provider AIProvider
	config   RetryConfig
}

// NewRetryableProvider wraps provider with exponential backoff.
func NewRetryableProvider(provider AIProvider, cfg RetryConfig) *RetryableProvider {
	return &RetryableProvider{
		provider: provider,
		config:   cfg,
	}
}

// Generate sends prompt, repeating it on retryable failures. It returns the
// last provider error once retries run out, or the context error if ctx ends
// while waiting.
func (p *RetryableProvider) Generate(ctx context.Context, prompt string) (string, error) {
	for failed := 0; ; failed++ {
		text, err := p.provider.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		kind, ok := retryKind(err)
		if !ok || failed >= p.config.MaxRetries {
			return "", err
		}

		delay := p.config.backoff(failed)
		if p.config.OnRetry != nil {
			p.config.OnRetry(RetryAttempt{Attempt: failed + 1, Kind: kind, Delay: delay, Err: err})
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// retryKind reports whether err is worth repeating and how it is classed.
func retryKind(err error) (ErrorKind, bool) {
	var pe *ProviderError
	if !errors.As(err, &pe) || !pe.Retryable {
		return "", false
	}
	if pe.Kind == "" {
		return KindTransport, true
	}
	return pe.Kind, true
}
