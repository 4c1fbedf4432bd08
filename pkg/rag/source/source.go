package source

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"

	"mortgage-rag-be/pkg/vectorstore"
	"mortgage-rag-be/pkg/websearch"
)

// Origin identifies where a retrieval hit came from.
const (
	OriginDocs       = "pinecone"
	OriginChat       = "chathistory"
	OriginWeb        = "web"
	OriginMortgageKB = "mortgage_kb"
)

const (
	// SnippetLen is how much of a hit's text becomes the preview snippet
	// when the metadata carries no snippet of its own.
	SnippetLen = 220

	webSnippetLen = 240

	// dedupeKeySnippetLen bounds the snippet portion of the uniqueness key.
	dedupeKeySnippetLen = 120

	// DefaultMaxSources is the ranked-list cap handed to the context builder.
	DefaultMaxSources = 6
)

// Source is a normalized retrieval hit, regardless of origin. It lives for
// one request only: built from raw results, used to assemble the model
// context, and reported back to the caller.
type Source struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Section     string   `json:"section"`
	SourcePath  string   `json:"source"`
	AccessLevel string   `json:"accessLevel"`
	Snippet     string   `json:"snippet"`
	FullText    string   `json:"fullText"`
	Origin      string   `json:"origin"`
	Score       *float64 `json:"score,omitempty"`
}

// metaString walks an ordered list of alternate field names and returns the
// first non-empty string value. Index metadata is not consistent about field
// naming, so every attribute extraction goes through this.
func metaString(md map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := md[k]; ok && v != nil {
			s := strings.TrimSpace(fmt.Sprintf("%v", v))
			if s != "" {
				return s
			}
		}
	}
	return ""
}

// FromMatch converts a vector-index match into a Source. Missing metadata
// fields fall back through alternates; an absent id is synthesized from a
// hash of the identifying fields.
func FromMatch(m vectorstore.Match, origin string) Source {
	md := m.Metadata
	if md == nil {
		md = map[string]interface{}{}
	}

	title := metaString(md, "title", "document_title", "filename")
	if title == "" {
		title = strings.ToUpper(origin)
	}
	section := metaString(md, "section", "heading", "chunk_id")
	srcPath := metaString(md, "source", "path")
	if srcPath == "" {
		srcPath = origin
	}

	text := metaString(md, "text", "content", "chunk", "page_content")
	snippet := metaString(md, "snippet")
	if snippet == "" && text != "" {
		snippet = truncate(text, SnippetLen)
	}

	accessLevel := strings.ToLower(metaString(md, "accessLevel", "access_level"))
	if accessLevel == "" {
		if origin == OriginWeb {
			accessLevel = "public"
		} else {
			accessLevel = "internal"
		}
	}
	if accessLevel != "public" {
		accessLevel = "internal"
	}

	id := strings.TrimSpace(m.ID)
	if id == "" {
		id = synthesizeID(origin, title, srcPath, snippet)
	}

	score := m.Score
	return Source{
		ID:          id,
		Title:       title,
		Section:     section,
		SourcePath:  srcPath,
		AccessLevel: accessLevel,
		Snippet:     snippet,
		FullText:    text,
		Origin:      origin,
		Score:       &score,
	}
}

// FromWebResult converts a web-search hit into a Source. Web hits carry no
// similarity score and are always public.
func FromWebResult(item websearch.Result, i int) Source {
	url := strings.TrimSpace(item.Link)
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Web result"
	}
	snippet := strings.TrimSpace(item.Snippet)

	domain := "web"
	if url != "" {
		domain = DomainFromURL(url)
	}

	id := url
	if id == "" {
		id = fmt.Sprintf("web:%d:%s", i, synthesizeID(OriginWeb, title, "", snippet))
	}

	srcPath := url
	if srcPath == "" {
		srcPath = "web"
	}

	return Source{
		ID:          id,
		Title:       title,
		Section:     domain,
		SourcePath:  srcPath,
		AccessLevel: "public",
		Snippet:     truncate(snippet, webSnippetLen),
		FullText:    snippet,
		Origin:      OriginWeb,
	}
}

var domainRx = regexp.MustCompile(`https?://([^/]+)/?`)

// DomainFromURL extracts the host part of a URL, lowercased and without a
// leading "www.", or returns the input when it does not look like a URL.
func DomainFromURL(url string) string {
	m := domainRx.FindStringSubmatch(url)
	if m == nil {
		return url
	}
	return strings.ToLower(strings.TrimPrefix(m[1], "www."))
}

func synthesizeID(origin string, parts ...string) string {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%s:%d", origin, h.Sum64())
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// DedupeAndRank collapses duplicate sources and orders the rest: internal
// origins before web, then similarity score descending (missing score sorts
// last within its band). Ties keep input order, so callers must append in
// deterministic retrieval order. The result is truncated to maxSources.
func DedupeAndRank(sources []Source, maxSources int) []Source {
	if maxSources <= 0 {
		maxSources = DefaultMaxSources
	}

	seen := make(map[string]bool, len(sources))
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		key := strings.ToLower(s.Origin) + "\x00" +
			s.SourcePath + "\x00" +
			s.Section + "\x00" +
			truncate(s.Snippet, dedupeKeySnippetLen)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := rankPriority(out[i]), rankPriority(out[j])
		if pi != pj {
			return pi < pj
		}
		return rankScore(out[i]) > rankScore(out[j])
	})

	if len(out) > maxSources {
		out = out[:maxSources]
	}
	return out
}

func rankPriority(s Source) int {
	switch strings.ToLower(s.Origin) {
	case OriginDocs, OriginChat, OriginMortgageKB:
		return 0
	default:
		return 1
	}
}

func rankScore(s Source) float64 {
	if s.Score == nil {
		return -1.0
	}
	return *s.Score
}
