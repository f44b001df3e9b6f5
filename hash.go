package codelai

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText computes the SHA-256 hash of the text. Whitespace is significant
// in source code, so the text is hashed as is.
func HashText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key for a translation request.
func CacheKey(req TranslationRequest) string {
	target := req.TargetLang
	if target == "" {
		target = DefaultTargetLang
	}
	return HashText(req.SourceCode) + ":" + string(req.Language) + ":" + string(req.Mode) + ":" + NormalizeLocale(target)
}
