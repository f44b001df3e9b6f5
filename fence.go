package codelai

import "strings"

// maxPreambleLines bounds the prose a model may put before a lone fenced
// block ("Here is the translated code:") for the block to be extracted.
const maxPreambleLines = 3

// StripCodeFences removes a Markdown code fence the model may have wrapped
// around its answer. A response that opens with a fence is cut at its first
// closing fence and anything after it is dropped. A response with a short
// preamble followed by exactly one fenced block yields that block. Anything
// else is returned unchanged so that fence-like text inside the code
// survives.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)

	if fence := openingFence(trimmed); fence != "" {
		return unwrapFence(trimmed, fence)
	}
	if block, ok := soleFencedBlock(trimmed); ok {
		return block
	}
	return text
}

// unwrapFence strips the fence text opens with.
func unwrapFence(text, fence string) string {
	first, body, multiline := strings.Cut(text, "\n")
	if !multiline {
		rest := first[len(fence):]
		// Closed on the same line: "```x=1```".
		if end := strings.Index(rest, fence); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		// A bare info string ("```python") carries no code.
		if !strings.ContainsAny(rest, " \t") {
			return ""
		}
		return strings.TrimSpace(rest)
	}

	if end := closingFenceOffset(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimRight(body, " \t\r\n")
}

// soleFencedBlock returns the content of the only fenced block in text when
// it follows a short preamble.
func soleFencedBlock(text string) (string, bool) {
	lines := strings.SplitAfter(text, "\n")

	var block string
	found := false
	for i := 0; i < len(lines); i++ {
		fence := openingFence(lines[i])
		if fence == "" || strings.ContainsRune(strings.TrimSpace(lines[i][len(fence):]), rune(fence[0])) {
			continue
		}

		end := -1
		for j := i + 1; j < len(lines); j++ {
			if isClosingFence(lines[j], fence) {
				end = j
				break
			}
		}
		if end < 0 || found || nonBlankLines(lines[:i]) > maxPreambleLines {
			return "", false
		}

		found = true
		block = strings.Join(lines[i+1:end], "")
		i = end
	}

	if !found {
		return "", false
	}
	return strings.TrimRight(block, " \t\r\n"), true
}

// openingFence returns the fence marker text starts with, if any.
func openingFence(text string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(text, marker) {
			// Longer fences ("````") close only with at least the same length.
			n := len(marker)
			for n < len(text) && text[n] == marker[0] {
				n++
			}
			return text[:n]
		}
	}
	return ""
}

// closingFenceOffset returns the byte offset of the first line in body that
// closes fence, or -1.
func closingFenceOffset(body, fence string) int {
	offset := 0
	for _, line := range strings.SplitAfter(body, "\n") {
		if isClosingFence(line, fence) {
			return offset
		}
		offset += len(line)
	}
	return -1
}

func isClosingFence(line, fence string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= len(fence) && strings.Trim(line, fence[:1]) == ""
}

func nonBlankLines(lines []string) int {
	n := 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
