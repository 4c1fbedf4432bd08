package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"mortgage-rag-be/pkg/llm"
	"mortgage-rag-be/pkg/rag/source"
	"mortgage-rag-be/pkg/websearch"
)

const (
	resultsPerQuery    = 20
	maxFetchCandidates = 40
	maxItemsForLLM     = 30
	minNewsItems       = 10
	fetchConcurrency   = 6

	cacheTTL = 15 * time.Minute
)

// OutOfScope is returned for prompts that never mention an industry topic.
const OutOfScope = "This agent answers U.S. mortgage and housing industry current affairs only."

// Item is one dated, clustered news article candidate.
type Item struct {
	ID        int
	Title     string
	Link      string
	Domain    string
	Published time.Time
	Snippet   string
	Cluster   string
}

// freshnessScore ranks items: preferred outlets score higher, and so do
// articles published within the last week.
func freshnessScore(item Item, now time.Time) int {
	score := 0
	if preferredDomains[item.Domain] {
		score += 2
	}
	age := int(now.Sub(item.Published).Hours() / 24)
	switch {
	case age <= 7:
		score += 2
	case age <= 30:
		score += 1
	}
	return score
}

// Pipeline assembles cited industry news briefs: fan out topic searches,
// filter and date the hits, then have the model write a bullet report
// over the numbered articles.
type Pipeline struct {
	Search websearch.Searcher
	LLM    llm.Provider
	Cache  *redis.Client
	HTTP   *http.Client
	Logger *log.Logger

	now func() time.Time
}

func NewPipeline(search websearch.Searcher, provider llm.Provider, cache *redis.Client, logger *log.Logger) *Pipeline {
	return &Pipeline{
		Search: search,
		LLM:    provider,
		Cache:  cache,
		HTTP:   &http.Client{Timeout: fetchTimeout},
		Logger: logger,
		now:    time.Now,
	}
}

type cachedBrief struct {
	Report  string          `json:"report"`
	Sources []source.Source `json:"sources"`
}

// Brief runs the full news pipeline for one prompt. Briefs are cached per
// (window, consumer-intent) pair since the underlying searches ignore the
// prompt's exact wording.
func (p *Pipeline) Brief(ctx context.Context, prompt string) (string, []source.Source, error) {
	if !IsIndustryQuestion(prompt) {
		return OutOfScope, nil, nil
	}

	windowDays := ExtractDays(prompt)
	consumer := IsConsumerIntent(prompt)

	cacheKey := fmt.Sprintf("news:brief:%d:%t", windowDays, consumer)
	if cached, ok := p.cacheGet(ctx, cacheKey); ok {
		return cached.Report, cached.Sources, nil
	}

	now := p.now().UTC()
	cutoff := now.AddDate(0, 0, -windowDays)
	recency := "qdr:m"
	if windowDays <= 7 {
		recency = "qdr:w"
	}

	candidates := p.collectCandidates(ctx, recency)
	items := p.buildItems(ctx, candidates, cutoff, now)

	if len(items) < minNewsItems {
		return fmt.Sprintf("Insufficient recent mortgage industry news in the last %d days.", windowDays), nil, nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		si, sj := freshnessScore(items[i], now), freshnessScore(items[j], now)
		if si != sj {
			return si > sj
		}
		return items[i].Published.After(items[j].Published)
	})
	if len(items) > maxItemsForLLM {
		items = items[:maxItemsForLLM]
	}

	report, err := p.writeReport(ctx, items, consumer)
	if err != nil {
		return "", nil, err
	}

	sources := make([]source.Source, 0, len(items))
	for _, it := range items {
		sources = append(sources, source.Source{
			ID:          fmt.Sprintf("%d", it.ID),
			Title:       it.Title,
			Section:     it.Cluster,
			SourcePath:  it.Link,
			AccessLevel: "public",
			Snippet:     it.Snippet,
			Origin:      source.OriginWeb,
		})
	}

	p.cacheSet(ctx, cacheKey, cachedBrief{Report: report, Sources: sources})
	return report, sources, nil
}

type candidate struct {
	Title   string
	Link    string
	Snippet string
	Domain  string
	Date    time.Time
}

// collectCandidates fans the topic expansions out against web search and
// drops hits from denied domains. Failed searches are logged and skipped.
func (p *Pipeline) collectCandidates(ctx context.Context, recency string) []candidate {
	results := make([][]websearch.Result, len(topicExpansions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, topic := range topicExpansions {
		i, topic := i, topic
		g.Go(func() error {
			query := topic + " mortgage housing United States"
			hits, err := p.Search.Search(gctx, query, resultsPerQuery, recency)
			if err != nil {
				p.logf("search %q failed: %v", topic, err)
				return nil
			}
			results[i] = hits
			return nil
		})
	}
	_ = g.Wait()

	var candidates []candidate
	for _, hits := range results {
		for _, r := range hits {
			if r.Link == "" {
				continue
			}
			domain := source.DomainFromURL(r.Link)
			if isDenied(domain) {
				continue
			}
			title := r.Title
			if title == "" {
				title = "Untitled"
			}
			c := candidate{
				Title:   title,
				Link:    r.Link,
				Snippet: r.Snippet,
				Domain:  domain,
			}
			if t, ok := tryParseDate(r.Date); ok {
				c.Date = t
			}
			candidates = append(candidates, c)
			if len(candidates) >= maxFetchCandidates {
				return candidates
			}
		}
	}
	return candidates
}

func isDenied(domain string) bool {
	for _, d := range deniedDomains {
		if strings.Contains(domain, d) {
			return true
		}
	}
	return false
}

// buildItems enriches undated candidates by fetching their pages for a
// publish timestamp, then keeps everything inside the recency window.
// Candidates that stay undated are assumed current rather than dropped.
func (p *Pipeline) buildItems(ctx context.Context, candidates []candidate, cutoff, now time.Time) []Item {
	var mu sync.Mutex
	dates := make(map[string]time.Time)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, c := range candidates {
		if !c.Date.IsZero() {
			continue
		}
		link := c.Link
		g.Go(func() error {
			if t, ok := fetchPublishedDate(gctx, p.HTTP, link); ok {
				mu.Lock()
				dates[link] = t
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	items := make([]Item, 0, len(candidates))
	for idx, c := range candidates {
		published := c.Date
		if published.IsZero() {
			published = dates[c.Link]
		}
		if published.IsZero() {
			published = now
		}
		if published.Before(cutoff) {
			continue
		}
		items = append(items, Item{
			ID:        idx + 1,
			Title:     c.Title,
			Link:      c.Link,
			Domain:    c.Domain,
			Published: published,
			Snippet:   c.Snippet,
			Cluster:   classifyCluster(c.Title, c.Snippet),
		})
	}
	return items
}

// writeReport asks the model for a bullet brief over the numbered
// articles. A report with no [n] citations gets one retry with a sharper
// reminder; after that the last attempt stands.
func (p *Pipeline) writeReport(ctx context.Context, items []Item, consumerIntent bool) (string, error) {
	var ctxLines []string
	for _, it := range items {
		ctxLines = append(ctxLines, fmt.Sprintf("[%d] (%s | %s | %s) %s - %s",
			it.ID, it.Published.Format("2006-01-02"), it.Domain, it.Cluster, it.Title, it.Snippet))
	}

	task := "Write a current-affairs brief summarizing recent mortgage and housing industry developments."
	if consumerIntent {
		task = "Reframe the user's question as industry-level reporting about refinancing conditions."
	}

	prompt := fmt.Sprintf(`You are a professional financial journalist covering the U.S. mortgage and housing industry.

IMPORTANT CONTEXT:
The news below is VERIFIED, RECENT, and CURRENT.

ABSOLUTE RULES:
- Use ONLY the news provided.
- Cite every factual statement using square brackets like [1].
- DO NOT speculate.
- DO NOT give personal or financial advice.
- DO NOT say whether something is "good" or "bad" for an individual.
- DO NOT write disclaimers or meta commentary.

TASK:
%s

FORMAT:
- Bullet points only
- Every bullet MUST include at least one citation

NEWS ARTICLES:
%s`, task, strings.Join(ctxLines, "\n"))

	report, err := p.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("news report: %w", err)
	}
	report = strings.TrimSpace(report)

	if !strings.Contains(report, "[") {
		p.logf("report missing citations, retrying")
		retry, err := p.LLM.Generate(ctx, prompt+"\nREMINDER: Every bullet must include citations like [1].")
		if err == nil && strings.TrimSpace(retry) != "" {
			report = strings.TrimSpace(retry)
		}
	}
	return report, nil
}

func (p *Pipeline) cacheGet(ctx context.Context, key string) (cachedBrief, bool) {
	if p.Cache == nil {
		return cachedBrief{}, false
	}
	raw, err := p.Cache.Get(ctx, key).Result()
	if err != nil {
		return cachedBrief{}, false
	}
	var brief cachedBrief
	if err := json.Unmarshal([]byte(raw), &brief); err != nil {
		return cachedBrief{}, false
	}
	return brief, true
}

func (p *Pipeline) cacheSet(ctx context.Context, key string, brief cachedBrief) {
	if p.Cache == nil {
		return
	}
	raw, err := json.Marshal(brief)
	if err != nil {
		return
	}
	if err := p.Cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		p.logf("cache set failed: %v", err)
	}
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Printf("[news] "+format, args...)
	}
}
