// Package codelai provides an AI-powered source code comment translator.
//
// Codelai sends a source file to a generative model together with an
// instruction built from the code language, the translation mode and the
// target natural language, and returns the same code with its comments (and
// optionally string literals and identifiers) translated.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/codelai"
//	    "github.com/ZaguanLabs/codelai/cache"
//	    "github.com/ZaguanLabs/codelai/provider"
//	)
//
//	func main() {
//	    p, err := provider.NewGeminiProvider(ctx, provider.GeminiConfig{
//	        APIKey: os.Getenv("GEMINI_API_KEY"),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    t := codelai.NewTranslator(p,
//	        codelai.WithCache(cache.NewInMemoryCache(3600)),
//	    )
//
//	    result, err := t.Translate(ctx, codelai.TranslationRequest{
//	        SourceCode: "# hola\nprint(1)",
//	        Language:   codelai.Python,
//	        Mode:       codelai.ModeCommentsOnly,
//	        TargetLang: "en_US",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Code) // # hello\nprint(1)
//	}
package codelai
