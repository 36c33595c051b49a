package intelligence

import (
	"context"
	"strings"
	"unicode"
)

// maxExtractiveLen caps the fallback summary length when no sentence
// boundary is found near the start of the text.
const maxExtractiveLen = 200

// Extractive summarizes by taking the first sentence of the text. It never
// fails and needs no external services.
type Extractive struct{}

// Summarize returns the first sentence, or a truncated prefix when the text
// has no early sentence boundary.
func (Extractive) Summarize(_ context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Sentence ends at punctuation followed by space or end of text.
		rest := text[i+1:]
		if rest == "" || unicode.IsSpace(rune(rest[0])) {
			return strings.TrimSpace(text[:i+1]), nil
		}
	}

	if len(text) > maxExtractiveLen {
		return strings.TrimSpace(text[:maxExtractiveLen]) + "...", nil
	}
	return text, nil
}
