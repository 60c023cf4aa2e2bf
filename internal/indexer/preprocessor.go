package indexer

import (
	"strings"
	"unicode"
)

// Preprocess trims text and collapses every whitespace run, including
// ideographic spaces, to a single ASCII space. Queries pass through it before
// embedding.
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}
