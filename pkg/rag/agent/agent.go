package agent

import (
	"context"
	"log"
	"strings"

	"mortgage-rag-be/pkg/embedding"
	"mortgage-rag-be/pkg/llm"
	"mortgage-rag-be/pkg/rag/contextbuild"
	"mortgage-rag-be/pkg/rag/fanout"
	"mortgage-rag-be/pkg/rag/gate"
	"mortgage-rag-be/pkg/rag/history"
	"mortgage-rag-be/pkg/rag/response"
	"mortgage-rag-be/pkg/rag/source"
	"mortgage-rag-be/pkg/rag/style"
	"mortgage-rag-be/pkg/rag/tutor"
)

// Agent identifiers accepted in chat requests.
const (
	AgentDefault       = ""
	AgentMortgageTutor = "mortgage_tutor"
	AgentIndustryNews  = "industry_news"
)

var refusalFollowUps = []string{
	"ask a mortgage industry question",
	"try: mortgage rates, FHFA/GSE updates, underwriting, servicing, TRID/HMDA, MBS",
}

var answerFollowUps = []string{
	"give me a short view on this",
	"give me a detailed view on this",
	"ask a follow-up question",
}

// Request is one user turn handed to the orchestrator.
type Request struct {
	Query           string
	Agent           string
	IncludeInternal bool
	IncludeWeb      bool
	StrictCitations bool
	UserID          string
	SessionID       string
	History         []llm.Message
	FirstTurn       bool
}

// Response is the orchestrated result of one turn.
type Response struct {
	Answer       string
	SessionTitle string
	Sources      []source.Source
	FollowUps    []string
	Refused      bool
}

// NewsBriefer produces industry news briefs. Wired from the news package;
// nil when the news pipeline is not configured.
type NewsBriefer interface {
	Brief(ctx context.Context, query string) (string, []source.Source, error)
}

// Agent routes each turn to the right pipeline: the grounded Q&A flow by
// default, the knowledge base tutor for concept questions, the news
// pipeline for industry updates. Every route sits behind the domain gate.
type Agent struct {
	Gate      *gate.Gate
	Embedder  embedding.EmbeddingProvider
	Retriever *fanout.Retriever
	Generator *response.Generator
	Enforcer  *style.Enforcer
	Tutor     *tutor.Tutor
	News      NewsBriefer
	History   *history.Writer
	Logger    *log.Logger
}

// Ask runs one turn end to end. Out-of-domain questions are refused
// before any retrieval or model call is made.
func (a *Agent) Ask(ctx context.Context, req Request) (Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" || !a.Gate.IsInDomain(query) {
		a.logf("gate refused query session=%s", req.SessionID)
		return Response{
			Answer:    response.Refusal,
			FollowUps: refusalFollowUps,
			Refused:   true,
		}, nil
	}

	var resp Response
	var err error
	switch strings.ToLower(strings.TrimSpace(req.Agent)) {
	case "mortgage", "mortgage_tutor", "mortgage-agent":
		resp, err = a.askTutor(ctx, req, query)
	case "industry", "industry_news", "industry_current_affairs", "current_affairs":
		resp, err = a.askNews(ctx, query)
	default:
		resp, err = a.askRAG(ctx, req, query)
	}
	if err != nil {
		return Response{}, err
	}

	if a.History != nil && !resp.Refused {
		a.History.Write(ctx, history.Turn{
			SessionID:    req.SessionID,
			UserID:       req.UserID,
			Agent:        req.Agent,
			Question:     query,
			Answer:       resp.Answer,
			SessionTitle: resp.SessionTitle,
			Sources:      resp.Sources,
		})
	}
	return resp, nil
}

func (a *Agent) askRAG(ctx context.Context, req Request, query string) (Response, error) {
	var vector []float32
	if req.IncludeInternal {
		vector = a.embed(query)
	}

	result := a.Retriever.Retrieve(ctx, fanout.Request{
		Query:           query,
		Vector:          vector,
		UserID:          req.UserID,
		IncludeInternal: req.IncludeInternal,
		IncludeWeb:      req.IncludeWeb,
	})
	sources := source.DedupeAndRank(result.Merged(), source.DefaultMaxSources)
	contextText := contextbuild.Build(sources, contextbuild.DefaultMaxChars)
	if req.StrictCitations && contextText != "" {
		contextText += "\n\nInstruction: name the title of every source you rely on in your answer."
	}

	gen, err := a.Generator.Generate(ctx, query, contextText, req.History, req.FirstTurn)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Answer:       a.enforce(ctx, gen.Answer, query),
		SessionTitle: gen.SessionTitle,
		Sources:      sources,
		FollowUps:    answerFollowUps,
	}, nil
}

// enforce applies the sentence budget to every non-refusal answer.
func (a *Agent) enforce(ctx context.Context, answer, query string) string {
	if answer == response.Refusal || a.Enforcer == nil {
		return answer
	}
	return a.Enforcer.Enforce(ctx, answer, query, style.ResolveMode(query))
}

func (a *Agent) askTutor(ctx context.Context, req Request, query string) (Response, error) {
	if a.Tutor == nil {
		return a.askRAG(ctx, req, query)
	}
	vector := a.embed(query)
	gen, sources, err := a.Tutor.Answer(ctx, query, vector, req.History, req.FirstTurn)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Answer:       a.enforce(ctx, gen.Answer, query),
		SessionTitle: gen.SessionTitle,
		Sources:      sources,
		FollowUps:    answerFollowUps,
	}, nil
}

func (a *Agent) askNews(ctx context.Context, query string) (Response, error) {
	if a.News == nil {
		return Response{Answer: response.Refusal, FollowUps: refusalFollowUps, Refused: true}, nil
	}
	brief, sources, err := a.News.Brief(ctx, query)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Answer:    a.enforce(ctx, brief, query),
		Sources:   sources,
		FollowUps: answerFollowUps,
	}, nil
}

// embed turns the query into a vector for the semantic branches. On
// failure the turn continues without them.
func (a *Agent) embed(query string) []float32 {
	if a.Embedder == nil {
		return nil
	}
	res, err := a.Embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		a.logf("query embedding failed: %v", err)
		return nil
	}
	return res.Embedding.Values
}

func (a *Agent) logf(format string, args ...interface{}) {
	if a.Logger != nil {
		a.Logger.Printf("[agent] "+format, args...)
	}
}
