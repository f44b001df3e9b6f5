package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// writeLineDiff prints a line diff of original against translated: "-" for
// removed lines, "+" for added ones and two spaces for unchanged lines. It
// returns the number of changed lines.
func writeLineDiff(w io.Writer, original, translated string) int {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(original, translated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := 0
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			if d.Type != diffmatchpatch.DiffEqual {
				changed++
			}
			fmt.Fprintf(w, "%s%s\n", prefix, line)
		}
	}
	return changed
}
