package response

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"mortgage-rag-be/pkg/llm"
)

// Refusal is the canned reply for questions outside the mortgage domain
// and for turns where the model produced nothing usable.
const Refusal = "I don't know."

const systemPrompt = `You are a mortgage industry assistant. Answer only questions about the U.S. mortgage industry: lending, origination, underwriting, servicing, securitization, housing finance agencies, and mortgage regulation.

Rules:
- Ground every statement in the provided context. If the context does not cover the question, say "I don't know."
- Never answer questions outside the mortgage industry.
- Be factual and neutral. Do not give personalized financial advice.`

const titleContract = `Return a JSON object with exactly two keys:
  "answer": your answer to the question,
  "session_title": a title for this conversation of 3 to 6 words.
Return only the JSON object, no markdown fences and no other text.`

// Result is one generated turn.
type Result struct {
	Answer       string
	SessionTitle string
}

// Generator produces grounded answers, asking for a session title on the
// first turn of a conversation.
type Generator struct {
	Provider llm.Provider
	Logger   *log.Logger

	// Prompt overrides the default mortgage assistant system prompt.
	Prompt string
}

func NewGenerator(provider llm.Provider, logger *log.Logger) *Generator {
	return &Generator{Provider: provider, Logger: logger}
}

// Generate runs one turn. When firstTurn is set the model is asked for the
// JSON contract and the title is parsed out; when parsing fails the raw
// text becomes the answer and the title stays empty.
func (g *Generator) Generate(ctx context.Context, question, contextText string, history []llm.Message, firstTurn bool) (Result, error) {
	sys := g.Prompt
	if sys == "" {
		sys = systemPrompt
	}
	if firstTurn {
		sys += "\n\n" + titleContract
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: sys})
	messages = append(messages, history...)

	var user strings.Builder
	if contextText != "" {
		user.WriteString("Context:\n")
		user.WriteString(contextText)
		user.WriteString("\n\n")
	}
	user.WriteString("Question: ")
	user.WriteString(question)
	messages = append(messages, llm.Message{Role: "user", Content: user.String()})

	raw, err := g.Provider.Chat(ctx, messages)
	if err != nil {
		return Result{}, fmt.Errorf("llm chat: %w", err)
	}
	raw = strings.TrimSpace(raw)

	if firstTurn {
		if res, ok := parseTitled(raw); ok {
			if res.Answer == "" {
				res.Answer = Refusal
			}
			return res, nil
		}
		if g.Logger != nil {
			g.Logger.Printf("[response] first-turn JSON parse failed, using raw text")
		}
	}

	if raw == "" {
		raw = Refusal
	}
	return Result{Answer: raw}, nil
}

type titledPayload struct {
	Answer       string `json:"answer"`
	SessionTitle string `json:"session_title"`
}

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// parseTitled decodes the {answer, session_title} contract. The raw text
// is tried as-is first; models that wrap the object in prose or fences get
// a second chance via the outermost brace span. A decoded object with an
// empty answer still counts as a parse, so the title survives and the
// caller substitutes the refusal.
func parseTitled(raw string) (Result, bool) {
	var p titledPayload
	if strings.HasPrefix(raw, "{") {
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return Result{Answer: strings.TrimSpace(p.Answer), SessionTitle: clampTitle(p.SessionTitle)}, true
		}
	}
	if m := jsonObject.FindString(raw); m != "" {
		if err := json.Unmarshal([]byte(m), &p); err == nil {
			return Result{Answer: strings.TrimSpace(p.Answer), SessionTitle: clampTitle(p.SessionTitle)}, true
		}
	}
	return Result{}, false
}

func clampTitle(title string) string {
	title = strings.TrimSpace(title)
	if runes := []rune(title); len(runes) > 60 {
		title = strings.TrimSpace(string(runes[:60]))
	}
	return title
}
