package fanout

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"mortgage-rag-be/pkg/rag/gate"
	"mortgage-rag-be/pkg/rag/source"
	"mortgage-rag-be/pkg/vectorstore"
	"mortgage-rag-be/pkg/websearch"
)

const (
	docsTopK = 3
	chatTopK = 6
	webNum   = 5

	// Each branch gets its own deadline so one slow upstream cannot
	// stall the whole turn.
	branchTimeout = 10 * time.Second
)

// Request carries everything a retrieval pass needs. Vector drives the
// two semantic branches, Query drives web search, and IncludeWeb is the
// caller's half of the double web gate. IncludeInternal turns the two
// semantic branches off for web-only scopes.
type Request struct {
	Query           string
	Vector          []float32
	UserID          string
	Namespace       string
	IncludeInternal bool
	IncludeWeb      bool
}

// Outcome records what happened on one branch. A branch that was never
// launched has Requested false; a launched branch that failed keeps its
// error here and contributes no sources.
type Outcome struct {
	Requested bool
	Sources   []source.Source
	Err       error
}

// Result holds the per-branch outcomes of one fan-out.
type Result struct {
	Docs Outcome
	Chat Outcome
	Web  Outcome
}

// Merged returns all branch sources in branch order, before ranking.
func (r Result) Merged() []source.Source {
	out := make([]source.Source, 0, len(r.Docs.Sources)+len(r.Chat.Sources)+len(r.Web.Sources))
	out = append(out, r.Docs.Sources...)
	out = append(out, r.Chat.Sources...)
	out = append(out, r.Web.Sources...)
	return out
}

// Retriever fans a query out across the document index, the chat history
// index, and web search.
type Retriever struct {
	Docs   vectorstore.Index
	Chat   vectorstore.Index
	Web    websearch.Searcher
	Gate   *gate.Gate
	Logger *log.Logger
}

func NewRetriever(docs, chat vectorstore.Index, web websearch.Searcher, g *gate.Gate, logger *log.Logger) *Retriever {
	return &Retriever{Docs: docs, Chat: chat, Web: web, Gate: g, Logger: logger}
}

// Retrieve runs the enabled branches concurrently and waits for all of
// them. Branch failures are recorded, logged, and swallowed: retrieval
// degrades to whatever subset succeeded and never fails the turn. The web
// branch runs only when the caller asked for it AND the query passes the
// domain gate.
func (r *Retriever) Retrieve(ctx context.Context, req Request) Result {
	var res Result
	g, ctx := errgroup.WithContext(ctx)

	if r.Docs != nil && req.IncludeInternal && len(req.Vector) > 0 {
		res.Docs.Requested = true
		g.Go(func() error {
			bctx, cancel := context.WithTimeout(ctx, branchTimeout)
			defer cancel()
			var filter vectorstore.Filter
			if req.Namespace != "" {
				filter = vectorstore.Filter{"namespace": req.Namespace}
			}
			matches, err := r.Docs.Query(bctx, req.Vector, docsTopK, filter)
			if err != nil {
				res.Docs.Err = err
				r.logf("docs branch failed: %v", err)
				return nil
			}
			for _, m := range matches {
				res.Docs.Sources = append(res.Docs.Sources, source.FromMatch(m, source.OriginDocs))
			}
			return nil
		})
	}

	if r.Chat != nil && req.IncludeInternal && len(req.Vector) > 0 {
		res.Chat.Requested = true
		g.Go(func() error {
			bctx, cancel := context.WithTimeout(ctx, branchTimeout)
			defer cancel()
			var filter vectorstore.Filter
			if req.UserID != "" {
				filter = vectorstore.Filter{"user_id": req.UserID}
			}
			matches, err := r.Chat.Query(bctx, req.Vector, chatTopK, filter)
			if err != nil {
				res.Chat.Err = err
				r.logf("chat history branch failed: %v", err)
				return nil
			}
			for _, m := range matches {
				res.Chat.Sources = append(res.Chat.Sources, source.FromMatch(m, source.OriginChat))
			}
			return nil
		})
	}

	if r.Web != nil && req.IncludeWeb && r.Gate != nil && r.Gate.IsInDomain(req.Query) {
		res.Web.Requested = true
		g.Go(func() error {
			bctx, cancel := context.WithTimeout(ctx, branchTimeout)
			defer cancel()
			results, err := r.Web.Search(bctx, req.Query, webNum, "")
			if err != nil {
				res.Web.Err = err
				r.logf("web branch failed: %v", err)
				return nil
			}
			for i, w := range results {
				res.Web.Sources = append(res.Web.Sources, source.FromWebResult(w, i))
			}
			return nil
		})
	}

	_ = g.Wait()
	return res
}

func (r *Retriever) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf("[fanout] "+format, args...)
	}
}
