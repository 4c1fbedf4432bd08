package tutor

import (
	"context"
	"errors"
	"testing"

	"mortgage-rag-be/pkg/llm"
	"mortgage-rag-be/pkg/vectorstore"
)

type fakeProvider struct {
	reply    string
	lastChat []llm.Message
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastChat = history
	return f.reply, nil
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.reply, nil
}

type fakeIndex struct {
	matches    []vectorstore.Match
	err        error
	lastFilter vectorstore.Filter
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	f.lastFilter = filter
	return f.matches, f.err
}

func (f *fakeIndex) Upsert(ctx context.Context, records []vectorstore.Record) error {
	return nil
}

func TestAnswer(t *testing.T) {
	ctx := context.Background()
	vec := []float32{0.1}

	t.Run("retrieves from the kb namespace", func(t *testing.T) {
		idx := &fakeIndex{matches: []vectorstore.Match{
			{Score: 0.9, Metadata: map[string]interface{}{"title": "DTI", "text": "Debt to income compares obligations to income."}},
		}}
		p := &fakeProvider{reply: "DTI compares debt to income."}
		tut := New(idx, p, nil)

		res, sources, err := tut.Answer(ctx, "what is DTI", vec, nil, false)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if idx.lastFilter["namespace"] != KBNamespace {
			t.Errorf("filter = %v", idx.lastFilter)
		}
		if len(sources) != 1 {
			t.Fatalf("sources = %d, want 1", len(sources))
		}
		if res.Answer != "DTI compares debt to income." {
			t.Errorf("Answer = %q", res.Answer)
		}
	})

	t.Run("kb lookup failure degrades to no sources", func(t *testing.T) {
		idx := &fakeIndex{err: errors.New("index down")}
		p := &fakeProvider{reply: "I don't know."}
		tut := New(idx, p, nil)

		res, sources, err := tut.Answer(ctx, "what is DTI", vec, nil, false)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if len(sources) != 0 {
			t.Error("expected no sources")
		}
		if res.Answer == "" {
			t.Error("answer should still be produced")
		}
	})

	t.Run("uses the teaching prompt", func(t *testing.T) {
		p := &fakeProvider{reply: "ok"}
		tut := New(&fakeIndex{}, p, nil)
		if _, _, err := tut.Answer(ctx, "q", vec, nil, false); err != nil {
			t.Fatalf("err = %v", err)
		}
		if p.lastChat[0].Content != tutorPrompt {
			t.Errorf("system prompt = %q", p.lastChat[0].Content)
		}
	})
}
