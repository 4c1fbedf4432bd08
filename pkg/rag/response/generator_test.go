package response

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"mortgage-rag-be/pkg/llm"
)

type fakeProvider struct {
	reply    string
	err      error
	lastChat []llm.Message
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastChat = history
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("first turn parses JSON contract", func(t *testing.T) {
		f := &fakeProvider{reply: `{"answer": "Escrow holds taxes and insurance.", "session_title": "Escrow basics"}`}
		g := NewGenerator(f, nil)
		res, err := g.Generate(ctx, "what is escrow", "ctx", nil, true)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if res.Answer != "Escrow holds taxes and insurance." {
			t.Errorf("Answer = %q", res.Answer)
		}
		if res.SessionTitle != "Escrow basics" {
			t.Errorf("SessionTitle = %q", res.SessionTitle)
		}
	})

	t.Run("first turn recovers JSON inside fences", func(t *testing.T) {
		f := &fakeProvider{reply: "```json\n{\"answer\": \"Yes.\", \"session_title\": \"Rates\"}\n```"}
		g := NewGenerator(f, nil)
		res, err := g.Generate(ctx, "q", "", nil, true)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if res.Answer != "Yes." || res.SessionTitle != "Rates" {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("first turn unparseable falls back to raw text", func(t *testing.T) {
		f := &fakeProvider{reply: "Plain prose answer with no JSON."}
		g := NewGenerator(f, nil)
		res, err := g.Generate(ctx, "q", "", nil, true)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if res.Answer != "Plain prose answer with no JSON." {
			t.Errorf("Answer = %q", res.Answer)
		}
		if res.SessionTitle != "" {
			t.Errorf("SessionTitle = %q, want empty", res.SessionTitle)
		}
	})

	t.Run("first turn empty answer becomes refusal and keeps the title", func(t *testing.T) {
		f := &fakeProvider{reply: `{"answer": "", "session_title": "Escrow Basics Overview"}`}
		g := NewGenerator(f, nil)
		res, err := g.Generate(ctx, "what is escrow", "", nil, true)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if res.Answer != Refusal {
			t.Errorf("Answer = %q, want %q", res.Answer, Refusal)
		}
		if res.SessionTitle != "Escrow Basics Overview" {
			t.Errorf("SessionTitle = %q, want kept", res.SessionTitle)
		}
	})

	t.Run("later turns take text verbatim", func(t *testing.T) {
		f := &fakeProvider{reply: `{"answer": "should not be parsed"}`}
		g := NewGenerator(f, nil)
		res, err := g.Generate(ctx, "q", "", nil, false)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if res.Answer != `{"answer": "should not be parsed"}` {
			t.Errorf("Answer = %q", res.Answer)
		}
	})

	t.Run("empty reply becomes refusal", func(t *testing.T) {
		f := &fakeProvider{reply: "   "}
		g := NewGenerator(f, nil)
		res, err := g.Generate(ctx, "q", "", nil, false)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if res.Answer != Refusal {
			t.Errorf("Answer = %q, want %q", res.Answer, Refusal)
		}
	})

	t.Run("title clamped to 60 characters", func(t *testing.T) {
		long := strings.Repeat("t", 80)
		f := &fakeProvider{reply: `{"answer": "a", "session_title": "` + long + `"}`}
		g := NewGenerator(f, nil)
		res, err := g.Generate(ctx, "q", "", nil, true)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if len(res.SessionTitle) != 60 {
			t.Errorf("len(SessionTitle) = %d, want 60", len(res.SessionTitle))
		}
	})

	t.Run("title clamp does not split multibyte runes", func(t *testing.T) {
		long := strings.Repeat("é", 70)
		f := &fakeProvider{reply: `{"answer": "a", "session_title": "` + long + `"}`}
		g := NewGenerator(f, nil)
		res, err := g.Generate(ctx, "q", "", nil, true)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if !utf8.ValidString(res.SessionTitle) {
			t.Error("clamped title is not valid UTF-8")
		}
		if n := utf8.RuneCountInString(res.SessionTitle); n != 60 {
			t.Errorf("title runes = %d, want 60", n)
		}
	})

	t.Run("provider error propagates", func(t *testing.T) {
		f := &fakeProvider{err: errors.New("upstream")}
		g := NewGenerator(f, nil)
		if _, err := g.Generate(ctx, "q", "", nil, false); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("context and history are threaded into the chat", func(t *testing.T) {
		f := &fakeProvider{reply: "ok"}
		g := NewGenerator(f, nil)
		history := []llm.Message{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
		}
		if _, err := g.Generate(ctx, "next question", "some context", history, false); err != nil {
			t.Fatalf("err = %v", err)
		}
		if len(f.lastChat) != 4 {
			t.Fatalf("messages = %d, want 4", len(f.lastChat))
		}
		if f.lastChat[0].Role != "system" {
			t.Errorf("first role = %q, want system", f.lastChat[0].Role)
		}
		last := f.lastChat[3].Content
		if !strings.Contains(last, "Context:\nsome context") || !strings.Contains(last, "Question: next question") {
			t.Errorf("user message = %q", last)
		}
	})

	t.Run("custom prompt replaces the default", func(t *testing.T) {
		f := &fakeProvider{reply: "ok"}
		g := NewGenerator(f, nil)
		g.Prompt = "You are a mortgage tutor."
		if _, err := g.Generate(ctx, "q", "", nil, false); err != nil {
			t.Fatalf("err = %v", err)
		}
		if f.lastChat[0].Content != "You are a mortgage tutor." {
			t.Errorf("system = %q", f.lastChat[0].Content)
		}
	})
}
