package codelai

// Mode controls how much of the source is translated.
type Mode string

const (
	// ModeCommentsOnly translates comment text and nothing else.
	ModeCommentsOnly Mode = "comments_only"
	// ModeFull translates comments, string literals and identifier names.
	ModeFull Mode = "full"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeCommentsOnly || m == ModeFull
}

// ParseMode accepts the canonical mode names plus a few aliases used by the
// command line ("comments", "everything").
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "comments_only", "comments", "COMMENTS_ONLY":
		return ModeCommentsOnly, true
	case "full", "everything", "FULL":
		return ModeFull, true
	}
	return "", false
}

// Language identifies the programming language of the source code.
type Language string

// Supported code languages.
const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Python     Language = "python"
	Java       Language = "java"
	C          Language = "c"
	CPP        Language = "cpp"
	CSharp     Language = "csharp"
	Go         Language = "go"
	Rust       Language = "rust"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Swift      Language = "swift"
	SQL        Language = "sql"
	HTML       Language = "html"
	CSS        Language = "css"
	JSON       Language = "json"
)

// DefaultLanguage is used when nothing better is known about the source.
const DefaultLanguage = JavaScript

// DefaultTargetLang is the natural language comments are translated into
// when the caller does not pick one.
const DefaultTargetLang = "en_US"

// TranslationRequest describes one translation. It is built fresh for every
// call and never modified afterwards.
type TranslationRequest struct {
	SourceCode string   // Code to translate
	Language   Language // Code language (one of SupportedLanguages)
	Mode       Mode     // Translation breadth
	TargetLang string   // Natural language locale (e.g., "en_US", "es_ES")
}

// TranslationResult is the outcome of a successful translation.
type TranslationResult struct {
	Code   string // Translated source, with any markdown fences removed
	Cached bool   // Whether the result came from the cache
}
