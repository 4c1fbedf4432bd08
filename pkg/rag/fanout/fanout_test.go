package fanout

import (
	"context"
	"errors"
	"testing"

	"mortgage-rag-be/pkg/rag/gate"
	"mortgage-rag-be/pkg/vectorstore"
	"mortgage-rag-be/pkg/websearch"
)

type fakeIndex struct {
	matches    []vectorstore.Match
	err        error
	calls      int
	lastFilter vectorstore.Filter
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	f.calls++
	f.lastFilter = filter
	return f.matches, f.err
}

func (f *fakeIndex) Upsert(ctx context.Context, records []vectorstore.Record) error {
	return nil
}

type fakeSearcher struct {
	results []websearch.Result
	err     error
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, num int, recency string) ([]websearch.Result, error) {
	f.calls++
	return f.results, f.err
}

func match(title string) vectorstore.Match {
	return vectorstore.Match{
		Score:    0.8,
		Metadata: map[string]interface{}{"title": title, "text": title},
	}
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()
	vec := []float32{0.1, 0.2}

	t.Run("all branches contribute", func(t *testing.T) {
		docs := &fakeIndex{matches: []vectorstore.Match{match("doc")}}
		chat := &fakeIndex{matches: []vectorstore.Match{match("turn")}}
		web := &fakeSearcher{results: []websearch.Result{{Title: "news", Link: "https://x.com/a"}}}
		r := NewRetriever(docs, chat, web, gate.New(), nil)

		res := r.Retrieve(ctx, Request{
			Query:           "mortgage rates today",
			Vector:          vec,
			UserID:          "u1",
			IncludeInternal: true,
			IncludeWeb:      true,
		})

		if !res.Docs.Requested || !res.Chat.Requested || !res.Web.Requested {
			t.Fatalf("requested = %v/%v/%v", res.Docs.Requested, res.Chat.Requested, res.Web.Requested)
		}
		if got := len(res.Merged()); got != 3 {
			t.Errorf("merged = %d, want 3", got)
		}
	})

	t.Run("web skipped when caller opts out", func(t *testing.T) {
		web := &fakeSearcher{}
		r := NewRetriever(&fakeIndex{}, &fakeIndex{}, web, gate.New(), nil)
		res := r.Retrieve(ctx, Request{Query: "mortgage rates", Vector: vec, IncludeInternal: true, IncludeWeb: false})
		if res.Web.Requested {
			t.Error("web branch should not launch")
		}
		if web.calls != 0 {
			t.Errorf("searcher calls = %d, want 0", web.calls)
		}
	})

	t.Run("web skipped when query fails domain gate", func(t *testing.T) {
		web := &fakeSearcher{}
		r := NewRetriever(&fakeIndex{}, &fakeIndex{}, web, gate.New(), nil)
		res := r.Retrieve(ctx, Request{Query: "best pizza in town", Vector: vec, IncludeInternal: true, IncludeWeb: true})
		if res.Web.Requested {
			t.Error("web branch should not launch")
		}
		if web.calls != 0 {
			t.Errorf("searcher calls = %d, want 0", web.calls)
		}
	})

	t.Run("web-only scope skips semantic branches", func(t *testing.T) {
		docs := &fakeIndex{}
		chat := &fakeIndex{}
		web := &fakeSearcher{results: []websearch.Result{{Title: "hit", Link: "https://x.com/a"}}}
		r := NewRetriever(docs, chat, web, gate.New(), nil)

		res := r.Retrieve(ctx, Request{Query: "mortgage rates", Vector: vec, IncludeWeb: true})

		if res.Docs.Requested || res.Chat.Requested {
			t.Error("semantic branches should not launch")
		}
		if docs.calls != 0 || chat.calls != 0 {
			t.Error("indexes should not be queried")
		}
		if len(res.Web.Sources) != 1 {
			t.Errorf("web sources = %d, want 1", len(res.Web.Sources))
		}
	})

	t.Run("semantic branches skipped without a vector", func(t *testing.T) {
		docs := &fakeIndex{}
		chat := &fakeIndex{}
		r := NewRetriever(docs, chat, nil, gate.New(), nil)
		res := r.Retrieve(ctx, Request{Query: "mortgage", IncludeInternal: true})
		if res.Docs.Requested || res.Chat.Requested {
			t.Error("semantic branches should not launch without a vector")
		}
		if docs.calls != 0 || chat.calls != 0 {
			t.Error("indexes should not be queried")
		}
	})

	t.Run("branch failure is swallowed and others still land", func(t *testing.T) {
		docs := &fakeIndex{err: errors.New("index down")}
		chat := &fakeIndex{matches: []vectorstore.Match{match("turn")}}
		r := NewRetriever(docs, chat, nil, gate.New(), nil)

		res := r.Retrieve(ctx, Request{Query: "mortgage", Vector: vec, UserID: "u1", IncludeInternal: true})

		if res.Docs.Err == nil {
			t.Error("docs error should be recorded")
		}
		if len(res.Docs.Sources) != 0 {
			t.Error("failed branch must contribute no sources")
		}
		if len(res.Chat.Sources) != 1 {
			t.Errorf("chat sources = %d, want 1", len(res.Chat.Sources))
		}
	})

	t.Run("chat branch scopes to the user", func(t *testing.T) {
		chat := &fakeIndex{}
		r := NewRetriever(&fakeIndex{}, chat, nil, gate.New(), nil)
		r.Retrieve(ctx, Request{Query: "mortgage", Vector: vec, UserID: "u42", IncludeInternal: true})
		if chat.lastFilter["user_id"] != "u42" {
			t.Errorf("filter = %v, want user_id=u42", chat.lastFilter)
		}
	})

	t.Run("docs branch scopes to the namespace", func(t *testing.T) {
		docs := &fakeIndex{}
		r := NewRetriever(docs, &fakeIndex{}, nil, gate.New(), nil)
		r.Retrieve(ctx, Request{Query: "mortgage", Vector: vec, Namespace: "mortgage_kb", IncludeInternal: true})
		if docs.lastFilter["namespace"] != "mortgage_kb" {
			t.Errorf("filter = %v, want namespace=mortgage_kb", docs.lastFilter)
		}
	})
}
