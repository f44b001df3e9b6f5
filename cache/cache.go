// Package cache provides translation caching implementations.
//
// Caches hold translated code keyed by request (see codelai.CacheKey) so that
// re-translating an unchanged file does not call the model again. They are
// response caches with a TTL, not a translation history.
package cache

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}
