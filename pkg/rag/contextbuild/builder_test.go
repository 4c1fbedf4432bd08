package contextbuild

import (
	"strings"
	"testing"

	"mortgage-rag-be/pkg/rag/source"
)

func src(text string) source.Source {
	return source.Source{FullText: text}
}

func TestBuild(t *testing.T) {
	t.Run("joins sources with delimiter", func(t *testing.T) {
		got := Build([]source.Source{src("alpha"), src("beta")}, 100)
		want := "alpha" + delimiter + "beta"
		if got != want {
			t.Errorf("Build = %q, want %q", got, want)
		}
	})

	t.Run("empty sources are skipped", func(t *testing.T) {
		got := Build([]source.Source{src(""), src("  "), src("alpha")}, 100)
		if got != "alpha" {
			t.Errorf("Build = %q, want alpha", got)
		}
	})

	t.Run("snippet used when full text empty", func(t *testing.T) {
		got := Build([]source.Source{{Snippet: "from snippet"}}, 100)
		if got != "from snippet" {
			t.Errorf("Build = %q", got)
		}
	})

	t.Run("never exceeds budget including delimiters", func(t *testing.T) {
		sources := []source.Source{
			src(strings.Repeat("a", 40)),
			src(strings.Repeat("b", 40)),
			src(strings.Repeat("c", 40)),
		}
		for _, max := range []int{10, 41, 50, 87, 88, 200} {
			got := Build(sources, max)
			if len(got) > max {
				t.Errorf("maxChars=%d: len = %d", max, len(got))
			}
		}
	})

	t.Run("overflowing source is cut to fill the remainder", func(t *testing.T) {
		sources := []source.Source{
			src(strings.Repeat("a", 40)),
			src(strings.Repeat("b", 40)),
		}
		max := 60
		got := Build(sources, max)
		if len(got) != max {
			t.Errorf("len = %d, want exactly %d", len(got), max)
		}
		if !strings.HasSuffix(got, "bbb") {
			t.Errorf("second source should be truncated in, got suffix %q", got[len(got)-5:])
		}
	})

	t.Run("source dropped when no room remains after delimiter", func(t *testing.T) {
		first := strings.Repeat("a", 40)
		got := Build([]source.Source{src(first), src("b")}, 40+len(delimiter))
		if got != first {
			t.Errorf("Build = %q, want first source only", got)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		sources := []source.Source{src("one"), src("two"), src("three")}
		a := Build(sources, 50)
		b := Build(sources, 50)
		if a != b {
			t.Error("same input produced different output")
		}
	})

	t.Run("zero maxChars uses default", func(t *testing.T) {
		long := strings.Repeat("x", DefaultMaxChars+500)
		got := Build([]source.Source{src(long)}, 0)
		if len(got) != DefaultMaxChars {
			t.Errorf("len = %d, want %d", len(got), DefaultMaxChars)
		}
	})
}
