package codelai

import (
	"fmt"
	"strings"
)

// BuildPrompt constructs the single instruction sent to the model. It is a
// pure function of the request.
func BuildPrompt(req TranslationRequest) string {
	codeLang := req.Language.DisplayName()

	target := req.TargetLang
	if target == "" {
		target = DefaultTargetLang
	}
	targetName := GetLanguageName(target)

	var b strings.Builder

	fmt.Fprintf(&b, `# Role
You are an expert software engineer and technical translator. You translate the human-readable text inside %s source code into %s.

# Task
`, codeLang, targetName)

	switch req.Mode {
	case ModeCommentsOnly:
		fmt.Fprintf(&b, `Translate ONLY the text of comments (line comments, block comments and documentation comments) into %s.
- Leave all code exactly as it is.
- Leave string literals exactly as they are, even if they contain natural language.
- Leave identifiers (variable, function, class, field and parameter names) exactly as they are.
`, targetName)
	default:
		fmt.Fprintf(&b, `Translate comments, string literals and identifier names into %s.
- Translate the text of every comment.
- Translate string literals that contain natural-language text meant for humans. Keep format placeholders, escape sequences and interpolation markers intact.
- Rename identifiers (variable, function, class, field and parameter names) whose names carry natural-language meaning into idiomatic %s names that are valid %s identifiers. Rename every occurrence consistently.
- Never change reserved keywords, standard library names, imported package names or names that are part of an external API.
`, targetName, targetName, codeLang)
	}

	b.WriteString(`
# Rules
- Preserve the program logic exactly: same control flow, same statements, same order.
- Do not add, remove, reorder or reformat code. Keep indentation and blank lines.
- Do not fix bugs, refactor or add new comments.
- Text already written in the target language stays unchanged.

# Format
Return ONLY the transformed code.
- Do NOT wrap it in Markdown code blocks.
- Do NOT add any explanation before or after the code.

# Source
`)
	b.WriteString(req.SourceCode)

	return b.String()
}
