package codelai

import (
	"path/filepath"
	"strings"
)

// SupportedLanguages lists the code languages in display order.
var SupportedLanguages = []Language{
	JavaScript,
	TypeScript,
	Python,
	Java,
	C,
	CPP,
	CSharp,
	Go,
	Rust,
	PHP,
	Ruby,
	Swift,
	SQL,
	HTML,
	CSS,
	JSON,
}

// languageDisplayNames is how each code language is named in prompts.
var languageDisplayNames = map[Language]string{
	JavaScript: "JavaScript",
	TypeScript: "TypeScript",
	Python:     "Python",
	Java:       "Java",
	C:          "C",
	CPP:        "C++",
	CSharp:     "C#",
	Go:         "Go",
	Rust:       "Rust",
	PHP:        "PHP",
	Ruby:       "Ruby",
	Swift:      "Swift",
	SQL:        "SQL",
	HTML:       "HTML",
	CSS:        "CSS",
	JSON:       "JSON",
}

// extensionLanguages maps lower-case file extensions (without the dot) to
// code languages.
var extensionLanguages = map[string]Language{
	"js":    JavaScript,
	"jsx":   JavaScript,
	"mjs":   JavaScript,
	"ts":    TypeScript,
	"tsx":   TypeScript,
	"py":    Python,
	"java":  Java,
	"c":     C,
	"h":     C,
	"cpp":   CPP,
	"cc":    CPP,
	"hpp":   CPP,
	"cs":    CSharp,
	"go":    Go,
	"rs":    Rust,
	"php":   PHP,
	"rb":    Ruby,
	"swift": Swift,
	"sql":   SQL,
	"html":  HTML,
	"htm":   HTML,
	"css":   CSS,
	"json":  JSON,
}

// IsSupported reports whether lang is one of SupportedLanguages.
func IsSupported(lang Language) bool {
	_, ok := languageDisplayNames[lang]
	return ok
}

// DisplayName returns the human-readable name of a code language.
// Falls back to the identifier itself if unknown.
func (l Language) DisplayName() string {
	if name, ok := languageDisplayNames[l]; ok {
		return name
	}
	return string(l)
}

// LanguageFromFilename infers the code language from a file name's
// extension. Unknown or missing extensions yield DefaultLanguage.
func LanguageFromFilename(name string) Language {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if lang, ok := extensionLanguages[strings.ToLower(ext)]; ok {
		return lang
	}
	return DefaultLanguage
}

// LanguageNames maps locale codes to human-readable names for AI prompts.
var LanguageNames = map[string]string{
	"en_US": "English (United States)",
	"en_GB": "English (United Kingdom)",
	"de_DE": "German (Germany)",
	"es_ES": "Spanish (Spain)",
	"es_MX": "Spanish (Mexico)",
	"fr_FR": "French (France)",
	"it_IT": "Italian (Italy)",
	"ja_JP": "Japanese (Japan)",
	"ko_KR": "Korean (South Korea)",
	"nl_NL": "Dutch (Netherlands)",
	"pl_PL": "Polish (Poland)",
	"pt_BR": "Portuguese (Brazil)",
	"pt_PT": "Portuguese (Portugal)",
	"ru_RU": "Russian (Russia)",
	"sv_SE": "Swedish (Sweden)",
	"tr_TR": "Turkish (Turkey)",
	"uk_UA": "Ukrainian (Ukraine)",
	"vi_VN": "Vietnamese (Vietnam)",
	"zh_CN": "Chinese (Simplified)",
	"zh_TW": "Chinese (Traditional)",
}

// ShortCodeToLocale maps short language codes to full locale codes.
var ShortCodeToLocale = map[string]string{
	"en": "en_US",
	"de": "de_DE",
	"es": "es_ES",
	"fr": "fr_FR",
	"it": "it_IT",
	"ja": "ja_JP",
	"ko": "ko_KR",
	"pt": "pt_BR",
	"ru": "ru_RU",
	"zh": "zh_CN",
}

// GetLanguageName returns the human-readable name for a locale code.
// Falls back to the code itself if not found.
func GetLanguageName(langCode string) string {
	langCode = NormalizeLocale(langCode)
	if name, ok := LanguageNames[langCode]; ok {
		return name
	}
	if locale, ok := ShortCodeToLocale[strings.ToLower(langCode)]; ok {
		if name, ok := LanguageNames[locale]; ok {
			return name
		}
	}
	return langCode
}

// NormalizeLocale converts a language code to the standard format (e.g., "es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}
