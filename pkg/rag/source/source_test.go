package source

import (
	"strings"
	"testing"
	"unicode/utf8"

	"mortgage-rag-be/pkg/vectorstore"
	"mortgage-rag-be/pkg/websearch"
)

func score(v float64) *float64 {
	return &v
}

func TestFromMatch(t *testing.T) {
	t.Run("full metadata", func(t *testing.T) {
		s := FromMatch(vectorstore.Match{
			ID:    "doc-1",
			Score: 0.91,
			Metadata: map[string]interface{}{
				"title":        "Servicing Handbook",
				"section":      "Escrow Analysis",
				"source":       "docs/servicing/handbook.md",
				"access_level": "internal",
				"text":         "Servicers run an annual escrow analysis.",
			},
		}, OriginDocs)

		if s.ID != "doc-1" {
			t.Errorf("ID = %q, want doc-1", s.ID)
		}
		if s.Title != "Servicing Handbook" {
			t.Errorf("Title = %q", s.Title)
		}
		if s.AccessLevel != "internal" {
			t.Errorf("AccessLevel = %q, want internal", s.AccessLevel)
		}
		if s.Score == nil || *s.Score != 0.91 {
			t.Errorf("Score = %v, want 0.91", s.Score)
		}
		if s.Snippet == "" {
			t.Error("Snippet should be derived from text")
		}
	})

	t.Run("missing fields fall back", func(t *testing.T) {
		s := FromMatch(vectorstore.Match{Score: 0.5}, OriginDocs)

		if s.Title != strings.ToUpper(OriginDocs) {
			t.Errorf("Title = %q, want uppercased origin", s.Title)
		}
		if s.SourcePath != OriginDocs {
			t.Errorf("SourcePath = %q, want origin", s.SourcePath)
		}
		if s.ID == "" {
			t.Error("ID should be synthesized when absent")
		}
	})

	t.Run("unknown access level coerces to internal", func(t *testing.T) {
		s := FromMatch(vectorstore.Match{
			Metadata: map[string]interface{}{"access_level": "secret"},
		}, OriginChat)
		if s.AccessLevel != "internal" {
			t.Errorf("AccessLevel = %q, want internal", s.AccessLevel)
		}
	})

	t.Run("long text truncates into snippet", func(t *testing.T) {
		long := strings.Repeat("x", SnippetLen+100)
		s := FromMatch(vectorstore.Match{
			Metadata: map[string]interface{}{"text": long},
		}, OriginDocs)
		if len(s.Snippet) != SnippetLen {
			t.Errorf("len(Snippet) = %d, want %d", len(s.Snippet), SnippetLen)
		}
		if s.FullText != long {
			t.Error("FullText should keep the whole text")
		}
	})

	t.Run("snippet truncation does not split multibyte runes", func(t *testing.T) {
		long := strings.Repeat("ñ", SnippetLen+50)
		s := FromMatch(vectorstore.Match{
			Metadata: map[string]interface{}{"text": long},
		}, OriginDocs)
		if !utf8.ValidString(s.Snippet) {
			t.Error("snippet is not valid UTF-8")
		}
		if n := utf8.RuneCountInString(s.Snippet); n != SnippetLen {
			t.Errorf("snippet runes = %d, want %d", n, SnippetLen)
		}
	})
}

func TestFromWebResult(t *testing.T) {
	s := FromWebResult(websearch.Result{
		Title:   "Rates tick up",
		Link:    "https://www.example.com/rates",
		Snippet: "Mortgage rates rose this week.",
	}, 0)

	if s.Origin != OriginWeb {
		t.Errorf("Origin = %q, want %q", s.Origin, OriginWeb)
	}
	if s.AccessLevel != "public" {
		t.Errorf("AccessLevel = %q, want public", s.AccessLevel)
	}
	if s.Section != "example.com" {
		t.Errorf("Section = %q, want example.com", s.Section)
	}
	if s.Score != nil {
		t.Error("web results carry no similarity score")
	}
	if s.ID != "https://www.example.com/rates" {
		t.Errorf("ID = %q, want the URL", s.ID)
	}
}

func TestDomainFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.housingwire.com/articles/abc", "housingwire.com"},
		{"http://Example.COM/x", "example.com"},
		{"https://blog.example.org", "blog.example.org"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		if got := DomainFromURL(tt.in); got != tt.want {
			t.Errorf("DomainFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedupeAndRank(t *testing.T) {
	t.Run("duplicates collapse", func(t *testing.T) {
		a := Source{Origin: OriginDocs, SourcePath: "a.md", Section: "s", Snippet: "same", Score: score(0.9)}
		b := Source{Origin: OriginDocs, SourcePath: "a.md", Section: "s", Snippet: "same", Score: score(0.4)}
		out := DedupeAndRank([]Source{a, b}, 6)
		if len(out) != 1 {
			t.Fatalf("len = %d, want 1", len(out))
		}
		if *out[0].Score != 0.9 {
			t.Errorf("kept score = %v, want the first occurrence", *out[0].Score)
		}
	})

	t.Run("internal before web regardless of score", func(t *testing.T) {
		web := Source{Origin: OriginWeb, SourcePath: "https://w", Snippet: "w"}
		doc := Source{Origin: OriginDocs, SourcePath: "d.md", Snippet: "d", Score: score(0.1)}
		out := DedupeAndRank([]Source{web, doc}, 6)
		if out[0].Origin != OriginDocs {
			t.Errorf("first origin = %q, want docs", out[0].Origin)
		}
	})

	t.Run("score descending within band", func(t *testing.T) {
		low := Source{Origin: OriginDocs, SourcePath: "low.md", Snippet: "l", Score: score(0.2)}
		high := Source{Origin: OriginDocs, SourcePath: "high.md", Snippet: "h", Score: score(0.8)}
		none := Source{Origin: OriginChat, SourcePath: "none.md", Snippet: "n"}
		out := DedupeAndRank([]Source{low, none, high}, 6)
		if out[0].SourcePath != "high.md" || out[1].SourcePath != "low.md" || out[2].SourcePath != "none.md" {
			t.Errorf("order = %q, %q, %q", out[0].SourcePath, out[1].SourcePath, out[2].SourcePath)
		}
	})

	t.Run("truncates to cap", func(t *testing.T) {
		var srcs []Source
		for i := 0; i < 10; i++ {
			srcs = append(srcs, Source{
				Origin:     OriginDocs,
				SourcePath: strings.Repeat("a", i+1) + ".md",
				Snippet:    strings.Repeat("b", i+1),
			})
		}
		out := DedupeAndRank(srcs, 0)
		if len(out) != DefaultMaxSources {
			t.Errorf("len = %d, want %d", len(out), DefaultMaxSources)
		}
	})

	t.Run("ties keep input order", func(t *testing.T) {
		a := Source{Origin: OriginDocs, SourcePath: "a.md", Snippet: "a", Score: score(0.5)}
		b := Source{Origin: OriginDocs, SourcePath: "b.md", Snippet: "b", Score: score(0.5)}
		out := DedupeAndRank([]Source{a, b}, 6)
		if out[0].SourcePath != "a.md" {
			t.Errorf("first = %q, want a.md", out[0].SourcePath)
		}
	})
}
