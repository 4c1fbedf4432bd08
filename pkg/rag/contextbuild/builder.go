package contextbuild

import (
	"strings"

	"mortgage-rag-be/pkg/rag/source"
)

// DefaultMaxChars bounds the concatenated context handed to the model.
const DefaultMaxChars = 3500

const delimiter = "\n\n---\n\n"

// Build concatenates source texts, in ranked order, into a compact context
// string for the LLM. Each source contributes its full text (snippet when
// the full text is empty); empty sources are skipped and do not count
// toward the budget. The source that would overflow the budget is cut to
// exactly fill the remainder rather than dropped. The returned string is
// never longer than maxChars, delimiters included.
func Build(sources []source.Source, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var b strings.Builder
	for _, s := range sources {
		text := strings.TrimSpace(s.FullText)
		if text == "" {
			text = strings.TrimSpace(s.Snippet)
		}
		if text == "" {
			continue
		}

		cost := len(text)
		if b.Len() > 0 {
			cost += len(delimiter)
		}
		if b.Len()+cost > maxChars {
			remaining := maxChars - b.Len()
			if b.Len() > 0 {
				remaining -= len(delimiter)
			}
			if remaining <= 0 {
				break
			}
			text = text[:remaining]
		}

		if b.Len() > 0 {
			b.WriteString(delimiter)
		}
		b.WriteString(text)

		if b.Len() >= maxChars {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
