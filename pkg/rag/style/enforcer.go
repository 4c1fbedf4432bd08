package style

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"mortgage-rag-be/pkg/llm"
)

// Mode selects the target answer length.
type Mode string

const (
	ModeShort    Mode = "short"
	ModeDetailed Mode = "detailed"
)

const (
	shortMinSentences = 4
	shortMaxSentences = 5
	detailedMin       = 10
	maxRewrites       = 2
)

var detailedTriggers = []string{
	"detailed", "in detail", "elaborate", "comprehensive",
	"long answer", "in depth", "thorough", "deep dive",
}

var shortTriggers = []string{
	"short", "brief", "concise", "quick", "summary",
	"summarize", "tl;dr", "tldr", "one liner",
}

// ResolveMode inspects the user's prompt for length cues. A detailed cue
// beats a short one when both appear; with no cue the answer stays short.
func ResolveMode(prompt string) Mode {
	p := strings.ToLower(prompt)
	for _, t := range detailedTriggers {
		if strings.Contains(p, t) {
			return ModeDetailed
		}
	}
	for _, t := range shortTriggers {
		if strings.Contains(p, t) {
			return ModeShort
		}
	}
	return ModeShort
}

var sentenceSplit = regexp.MustCompile(`[.!?]+\s+`)

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}

// SentenceCount counts sentences by splitting on terminal punctuation
// followed by whitespace. Fragments with no letters or digits (stray
// punctuation, list bullets) are not counted.
func SentenceCount(text string) int {
	n := 0
	for _, frag := range sentenceSplit.Split(strings.TrimSpace(text), -1) {
		if hasAlphanumeric(frag) {
			n++
		}
	}
	return n
}

func accepts(mode Mode, count int) bool {
	if mode == ModeDetailed {
		return count >= detailedMin
	}
	return count >= shortMinSentences && count <= shortMaxSentences
}

func rewriteInstruction(mode Mode) string {
	if mode == ModeDetailed {
		return fmt.Sprintf("Rewrite the answer below so it contains at least %d sentences. Keep every fact, expand with relevant detail, and do not invent information that is not already present. Explain clearly in complete sentences; no bullet lists, no headings, no citation markers or URLs.", detailedMin)
	}
	return fmt.Sprintf("Rewrite the answer below so it contains exactly %d to %d sentences. Keep the most important facts and cut the rest. Keep it crisp; no bullet lists, no headings, no citation markers or URLs.", shortMinSentences, shortMaxSentences)
}

// Enforcer rewrites answers that miss the sentence budget for their mode.
type Enforcer struct {
	Provider llm.Provider
	Logger   *log.Logger
}

func NewEnforcer(provider llm.Provider, logger *log.Logger) *Enforcer {
	return &Enforcer{Provider: provider, Logger: logger}
}

// Enforce returns the answer reshaped to the mode's sentence budget. The
// user's prompt rides along in each rewrite request so the model keeps the
// answer on topic. It attempts at most two rewrites; if neither lands in
// budget, or a rewrite call fails, the best available text is returned.
// It never fails the turn.
func (e *Enforcer) Enforce(ctx context.Context, answer, userPrompt string, mode Mode) string {
	current := answer
	count := SentenceCount(current)
	if accepts(mode, count) {
		return current
	}

	for attempt := 1; attempt <= maxRewrites; attempt++ {
		if e.Logger != nil {
			e.Logger.Printf("[style] mode=%s sentences=%d attempt=%d rewriting", mode, count, attempt)
		}
		prompt := rewriteInstruction(mode) + "\n\nUser prompt:\n" + userPrompt + "\n\nAnswer:\n" + current
		rewritten, err := e.Provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
		if err != nil {
			if e.Logger != nil {
				e.Logger.Printf("[style] rewrite failed: %v", err)
			}
			return current
		}
		rewritten = strings.TrimSpace(rewritten)
		if rewritten == "" {
			return current
		}
		current = rewritten
		count = SentenceCount(current)
		if accepts(mode, count) {
			return current
		}
	}
	return current
}
