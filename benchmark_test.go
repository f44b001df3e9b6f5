package codelai_test

import (
	"context"
	"strings"
	"testing"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/cache"
	"github.com/ZaguanLabs/codelai/provider"
)

// Benchmarks for performance validation

var benchSource = strings.Repeat("// 计算两个数字的和\nfunction add(a, b) { return a + b; }\n", 200)

func benchRequest() codelai.TranslationRequest {
	return codelai.TranslationRequest{
		SourceCode: benchSource,
		Language:   codelai.JavaScript,
		Mode:       codelai.ModeFull,
		TargetLang: "en_US",
	}
}

func BenchmarkHashText(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		codelai.HashText(benchSource)
	}
}

func BenchmarkCacheKey(b *testing.B) {
	req := benchRequest()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		codelai.CacheKey(req)
	}
}

func BenchmarkBuildPrompt(b *testing.B) {
	req := benchRequest()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		codelai.BuildPrompt(req)
	}
}

func BenchmarkStripCodeFences(b *testing.B) {
	fenced := "```javascript\n" + benchSource + "```"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		codelai.StripCodeFences(fenced)
	}
}

func BenchmarkLanguageFromFilename(b *testing.B) {
	names := []string{"main.go", "App.TSX", "script.py", "README", "style.css"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		codelai.LanguageFromFilename(names[i%len(names)])
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	c.Set("test-key", "test-value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("test-key")
	}
}

func BenchmarkInMemoryCache_Set(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set("test-key", "test-value")
	}
}

func BenchmarkTranslator_Translate_Cached(b *testing.B) {
	p := provider.NewMockProvider("// sum of two numbers")
	translator := codelai.NewTranslator(p, codelai.WithCache(cache.NewInMemoryCache(3600)))
	req := benchRequest()

	// Prime the cache
	translator.Translate(context.Background(), req)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		translator.Translate(context.Background(), req)
	}
}

func BenchmarkTranslator_Translate_Uncached(b *testing.B) {
	p := provider.NewMockProvider("```javascript\n// sum of two numbers\n```")
	translator := codelai.NewTranslator(p)
	req := benchRequest()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		translator.Translate(context.Background(), req)
	}
}
