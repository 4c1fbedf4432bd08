package dto

import "testing"

func TestChatRequestQuestion(t *testing.T) {
	tests := []struct {
		name string
		req  ChatRequest
		want string
	}{
		{"query preferred", ChatRequest{Query: "q", Message: "m"}, "q"},
		{"message fallback", ChatRequest{Message: "m"}, "m"},
		{"whitespace trimmed", ChatRequest{Query: "  hello  "}, "hello"},
		{"blank query falls through", ChatRequest{Query: "  ", Message: "m"}, "m"},
		{"both empty", ChatRequest{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Question(); got != tt.want {
				t.Errorf("Question() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatRequestScope(t *testing.T) {
	tests := []struct {
		scope        string
		wantWeb      bool
		wantInternal bool
	}{
		{"hybrid", true, true},
		{"HYBRID", true, true},
		{" hybrid ", true, true},
		{"web", true, false},
		{"internal", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		r := ChatRequest{Scope: tt.scope}
		if got := r.WantsWeb(); got != tt.wantWeb {
			t.Errorf("WantsWeb(%q) = %v, want %v", tt.scope, got, tt.wantWeb)
		}
		if got := r.WantsInternal(); got != tt.wantInternal {
			t.Errorf("WantsInternal(%q) = %v, want %v", tt.scope, got, tt.wantInternal)
		}
	}
}
