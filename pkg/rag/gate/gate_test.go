package gate

import (
	"testing"
)

func TestIsInDomain(t *testing.T) {
	g := New()

	tests := []struct {
		name   string
		prompt string
		want   bool
	}{
		{
			name:   "plain mortgage question",
			prompt: "What are current mortgage rates?",
			want:   true,
		},
		{
			name:   "acronym match",
			prompt: "Explain how TRID timing works for a purchase",
			want:   true,
		},
		{
			name:   "case insensitive",
			prompt: "what does FHFA do",
			want:   true,
		},
		{
			name:   "multi word phrase",
			prompt: "I want a home loan for a condo",
			want:   true,
		},
		{
			name:   "phrase split across extra whitespace",
			prompt: "looking for a home\t loan",
			want:   true,
		},
		{
			name:   "substring is not a word match",
			prompt: "the escrowed funds were substantial",
			want:   false,
		},
		{
			name:   "unrelated question",
			prompt: "What is the best pasta recipe?",
			want:   false,
		},
		{
			name:   "empty prompt",
			prompt: "",
			want:   false,
		},
		{
			name:   "generic finance words do not pass",
			prompt: "what is the yield on treasuries and current pricing",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsInDomain(tt.prompt); got != tt.want {
				t.Errorf("IsInDomain(%q) = %v, want %v", tt.prompt, got, tt.want)
			}
		})
	}
}
