package codelai

import "testing"

func TestHashText(t *testing.T) {
	const helloWorld = "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e"

	if got := HashText("Hello World"); got != helloWorld {
		t.Errorf("HashText(%q) = %q, want %q", "Hello World", got, helloWorld)
	}

	// Indentation matters in code.
	if HashText("  Hello World") == helloWorld {
		t.Error("HashText should not trim leading whitespace")
	}

	if len(HashText("")) != 64 {
		t.Error("HashText should always return 64 hex chars")
	}
}

func TestCacheKey(t *testing.T) {
	req := TranslationRequest{
		SourceCode: "Hello World",
		Language:   Python,
		Mode:       ModeCommentsOnly,
		TargetLang: "es-ES",
	}

	result := CacheKey(req)
	expected := "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e:python:comments_only:es_ES"

	if result != expected {
		t.Errorf("CacheKey() = %q, want %q", result, expected)
	}
}

func TestCacheKey_DistinguishesRequests(t *testing.T) {
	base := TranslationRequest{SourceCode: "x", Language: Go, Mode: ModeFull, TargetLang: "en_US"}

	variants := []TranslationRequest{
		{SourceCode: "y", Language: Go, Mode: ModeFull, TargetLang: "en_US"},
		{SourceCode: "x", Language: Rust, Mode: ModeFull, TargetLang: "en_US"},
		{SourceCode: "x", Language: Go, Mode: ModeCommentsOnly, TargetLang: "en_US"},
		{SourceCode: "x", Language: Go, Mode: ModeFull, TargetLang: "de_DE"},
	}

	for _, v := range variants {
		if CacheKey(v) == CacheKey(base) {
			t.Errorf("CacheKey(%+v) should differ from base", v)
		}
	}

	defaulted := base
	defaulted.TargetLang = ""
	if CacheKey(defaulted) != CacheKey(base) {
		t.Error("empty target should share the key of the default target")
	}
}
