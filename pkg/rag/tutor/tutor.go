package tutor

import (
	"context"
	"log"

	"mortgage-rag-be/pkg/llm"
	"mortgage-rag-be/pkg/rag/contextbuild"
	"mortgage-rag-be/pkg/rag/response"
	"mortgage-rag-be/pkg/rag/source"
	"mortgage-rag-be/pkg/vectorstore"
)

const (
	kbTopK = 5

	// Namespace of the curated mortgage knowledge base inside the
	// document index.
	KBNamespace = "mortgage_kb"
)

const tutorPrompt = `You are a mortgage industry tutor. Explain concepts from the U.S. mortgage industry clearly, starting from the fundamentals and building up.

Rules:
- Teach from the provided context. If it does not cover the question, say "I don't know."
- Define industry terms and acronyms the first time you use them.
- Prefer concrete examples over abstract definitions.
- Stay inside the mortgage industry. Do not give personalized financial advice.`

// Tutor answers concept questions from the curated knowledge base
// namespace, in a teaching register.
type Tutor struct {
	Index     vectorstore.Index
	Generator *response.Generator
	Logger    *log.Logger
}

func New(index vectorstore.Index, provider llm.Provider, logger *log.Logger) *Tutor {
	gen := response.NewGenerator(provider, logger)
	gen.Prompt = tutorPrompt
	return &Tutor{Index: index, Generator: gen, Logger: logger}
}

// Retrieve pulls the top knowledge base passages for the query vector.
// A lookup failure degrades to an empty result so the tutor can still
// answer from the model's general knowledge of its refusal rules.
func (t *Tutor) Retrieve(ctx context.Context, vector []float32) []source.Source {
	if t.Index == nil || len(vector) == 0 {
		return nil
	}
	matches, err := t.Index.Query(ctx, vector, kbTopK, vectorstore.Filter{"namespace": KBNamespace})
	if err != nil {
		if t.Logger != nil {
			t.Logger.Printf("[tutor] kb lookup failed: %v", err)
		}
		return nil
	}
	sources := make([]source.Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, source.FromMatch(m, source.OriginMortgageKB))
	}
	return sources
}

// Answer runs one tutor turn: knowledge base retrieval, then generation
// over the retrieved passages.
func (t *Tutor) Answer(ctx context.Context, question string, vector []float32, history []llm.Message, firstTurn bool) (response.Result, []source.Source, error) {
	sources := t.Retrieve(ctx, vector)
	contextText := contextbuild.Build(sources, contextbuild.DefaultMaxChars)
	res, err := t.Generator.Generate(ctx, question, contextText, history, firstTurn)
	if err != nil {
		return response.Result{}, nil, err
	}
	return res, sources, nil
}
