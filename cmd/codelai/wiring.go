package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/cache"
	"github.com/ZaguanLabs/codelai/config"
	"github.com/ZaguanLabs/codelai/provider"
)

// buildProvider creates the configured provider and wraps it with the rate
// limiter and retries when those are enabled. Retries are reported to logger
// when it is not nil.
func buildProvider(ctx context.Context, cfg *config.Config, logger *log.Logger) (codelai.AIProvider, error) {
	if cfg.APIKey == "" {
		switch strings.ToLower(cfg.Provider) {
		case config.ProviderOpenAI:
			return nil, errors.New("API key required (--api-key or OPENAI_API_KEY env)")
		default:
			return nil, errors.New("API key required (--api-key, GEMINI_API_KEY or API_KEY env)")
		}
	}

	var p codelai.AIProvider
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderOpenAI:
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			BaseURL:     cfg.BaseURL,
		})
	case config.ProviderGemini:
		gp, err := provider.NewGeminiProvider(ctx, provider.GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			BaseURL:     cfg.BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("creating gemini client: %w", err)
		}
		p = gp
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if cfg.RequestsPerMinute > 0 {
		p = codelai.NewRateLimitedProvider(p, codelai.RateLimitConfig{RequestsPerMinute: cfg.RequestsPerMinute})
	}
	if cfg.MaxRetries > 0 {
		rc := codelai.DefaultRetryConfig()
		rc.MaxRetries = cfg.MaxRetries
		if logger != nil {
			rc.OnRetry = func(a codelai.RetryAttempt) {
				logger.Printf("%s failure on attempt %d, retrying in %v: %v", a.Kind, a.Attempt, a.Delay, a.Err)
			}
		}
		p = codelai.NewRetryableProvider(p, rc)
	}
	return p, nil
}

// buildCache returns the configured response cache, or nil for none. The
// returned func releases its connections.
func buildCache(ctx context.Context, cfg *config.Config) (cache.TranslationCache, func(), error) {
	switch cfg.Cache.Type {
	case config.CacheMemory:
		return cache.NewInMemoryCache(cfg.Cache.TTL), func() {}, nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:       cfg.Cache.RedisURL,
			TTL:       cfg.Cache.TTL,
			KeyPrefix: cfg.Cache.KeyPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return rc, func() { _ = rc.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

// buildTranslator assembles the provider, cache and timeout from cfg.
func buildTranslator(ctx context.Context, cfg *config.Config, logger *log.Logger) (*codelai.Translator, func(), error) {
	p, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	c, cleanup, err := buildCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []codelai.TranslatorOption{codelai.WithTimeout(cfg.Timeout)}
	if c != nil {
		opts = append(opts, codelai.WithCache(c))
	}
	return codelai.NewTranslator(p, opts...), cleanup, nil
}
