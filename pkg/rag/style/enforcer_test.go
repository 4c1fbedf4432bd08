package style

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mortgage-rag-be/pkg/llm"
)

// fakeProvider returns queued responses, counts calls, and keeps the
// prompts it was sent.
type fakeProvider struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.next()
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.next()
}

func (f *fakeProvider) next() (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r, nil
}

func sentences(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += "This is a sentence. "
	}
	return out
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		prompt string
		want   Mode
	}{
		{"give me a detailed breakdown of escrow", ModeDetailed},
		{"explain this in depth", ModeDetailed},
		{"quick summary please", ModeShort},
		{"tl;dr on rate locks", ModeShort},
		{"what is PMI", ModeShort},
		{"a short but comprehensive answer", ModeDetailed}, // detailed cue wins
	}
	for _, tt := range tests {
		if got := ResolveMode(tt.prompt); got != tt.want {
			t.Errorf("ResolveMode(%q) = %q, want %q", tt.prompt, got, tt.want)
		}
	}
}

func TestSentenceCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single", "One sentence here.", 1},
		{"three", "One. Two! Three?", 3},
		{"no trailing space needed at end", "First one. Second one.", 2},
		{"punctuation only fragments ignored", "Real sentence. ... !!", 1},
		{"decimal points do not split", "Rates hit 6.5 percent today. They held.", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SentenceCount(tt.text); got != tt.want {
				t.Errorf("SentenceCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEnforce(t *testing.T) {
	ctx := context.Background()

	t.Run("in budget makes no model call", func(t *testing.T) {
		f := &fakeProvider{}
		e := NewEnforcer(f, nil)
		in := sentences(4)
		if got := e.Enforce(ctx, in, "", ModeShort); got != in {
			t.Errorf("answer changed: %q", got)
		}
		if f.calls != 0 {
			t.Errorf("calls = %d, want 0", f.calls)
		}
	})

	t.Run("single rewrite lands in budget", func(t *testing.T) {
		f := &fakeProvider{responses: []string{sentences(5)}}
		e := NewEnforcer(f, nil)
		got := e.Enforce(ctx, sentences(1), "", ModeShort)
		if SentenceCount(got) != 5 {
			t.Errorf("sentences = %d, want 5", SentenceCount(got))
		}
		if f.calls != 1 {
			t.Errorf("calls = %d, want 1", f.calls)
		}
	})

	t.Run("stops after two rewrites", func(t *testing.T) {
		f := &fakeProvider{responses: []string{sentences(2), sentences(2), sentences(2)}}
		e := NewEnforcer(f, nil)
		e.Enforce(ctx, sentences(1), "", ModeShort)
		if f.calls != 2 {
			t.Errorf("calls = %d, want 2", f.calls)
		}
	})

	t.Run("detailed needs ten sentences", func(t *testing.T) {
		f := &fakeProvider{responses: []string{sentences(10)}}
		e := NewEnforcer(f, nil)
		got := e.Enforce(ctx, sentences(4), "", ModeDetailed)
		if SentenceCount(got) != 10 {
			t.Errorf("sentences = %d, want 10", SentenceCount(got))
		}
	})

	t.Run("rewrite failure returns current text", func(t *testing.T) {
		f := &fakeProvider{err: errors.New("model down")}
		e := NewEnforcer(f, nil)
		in := sentences(1)
		if got := e.Enforce(ctx, in, "", ModeShort); got != in {
			t.Errorf("answer changed on failure: %q", got)
		}
	})

	t.Run("empty rewrite returns current text", func(t *testing.T) {
		f := &fakeProvider{responses: []string{"  "}}
		e := NewEnforcer(f, nil)
		in := sentences(1)
		if got := e.Enforce(ctx, in, "", ModeShort); got != in {
			t.Errorf("answer changed on empty rewrite: %q", got)
		}
	})

	t.Run("rewrite request carries the user prompt and style rules", func(t *testing.T) {
		f := &fakeProvider{responses: []string{sentences(4)}}
		e := NewEnforcer(f, nil)
		e.Enforce(ctx, sentences(1), "what is an escrow analysis", ModeShort)
		if len(f.prompts) != 1 {
			t.Fatalf("prompts = %d, want 1", len(f.prompts))
		}
		p := f.prompts[0]
		if !strings.Contains(p, "User prompt:\nwhat is an escrow analysis") {
			t.Errorf("rewrite request missing the user prompt: %q", p)
		}
		for _, rule := range []string{"no bullet lists", "no headings", "no citation markers or URLs"} {
			if !strings.Contains(p, rule) {
				t.Errorf("rewrite request missing rule %q", rule)
			}
		}
	})

	t.Run("out of budget after retries returns last attempt", func(t *testing.T) {
		f := &fakeProvider{responses: []string{sentences(1), sentences(2)}}
		e := NewEnforcer(f, nil)
		got := e.Enforce(ctx, sentences(20), "", ModeShort)
		if SentenceCount(got) != 2 {
			t.Errorf("sentences = %d, want the second rewrite", SentenceCount(got))
		}
	})
}
