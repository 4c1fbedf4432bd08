package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const serperEndpoint = "https://google.serper.dev/search"

// hardMaxResults is the most the provider will return per request.
const hardMaxResults = 20

// SerperClient implements Searcher over the Serper.dev Google Search API.
type SerperClient struct {
	ApiKey string
	GL     string // country code, e.g. "us"
	HL     string // language code, e.g. "en"
	Client *http.Client

	endpoint string
}

var _ Searcher = &SerperClient{}

func NewSerperClient(apiKey, gl, hl string) *SerperClient {
	return &SerperClient{
		ApiKey: apiKey,
		GL:     gl,
		HL:     hl,
		Client: &http.Client{
			Timeout: 20 * time.Second,
		},
		endpoint: serperEndpoint,
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	GL  string `json:"gl,omitempty"`
	HL  string `json:"hl,omitempty"`
	TBS string `json:"tbs,omitempty"`
}

type serperOrganicItem struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
	Date     string `json:"date"`
}

type serperResponse struct {
	Organic []serperOrganicItem `json:"organic"`
}

func (s *SerperClient) Search(ctx context.Context, query string, num int, recency string) ([]Result, error) {
	if s.ApiKey == "" {
		return nil, fmt.Errorf("missing SERPER_API_KEY")
	}
	if num <= 0 {
		num = 5
	}
	if num > hardMaxResults {
		num = hardMaxResults
	}

	payload := serperRequest{
		Q:   query,
		Num: num,
		GL:  s.GL,
		HL:  s.HL,
		TBS: recency,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := s.endpoint
	if endpoint == "" {
		endpoint = serperEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper error: status %d, body %s", res.StatusCode, string(resBody))
	}

	var parsed serperResponse
	if err := json.Unmarshal(resBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	out := make([]Result, 0, num)
	for i, item := range parsed.Organic {
		if i >= num {
			break
		}
		out = append(out, Result{
			Title:    item.Title,
			Link:     item.Link,
			Snippet:  item.Snippet,
			Position: item.Position,
			Date:     item.Date,
			Source:   "serper",
		})
	}
	return out, nil
}
