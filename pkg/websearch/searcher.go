package websearch

import "context"

// Result is one organic web-search hit. Date is the provider's publish
// date string when it reports one, otherwise empty.
type Result struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
	Date     string `json:"date,omitempty"`
	Source   string `json:"source"`
}

// MaxResults caps result counts on the public search endpoint. Internal
// callers may request more, up to the provider's own limit.
const MaxResults = 10

// Searcher is the contract for a live web-search backend.
type Searcher interface {
	// Search runs a query and returns up to num organic results. The
	// optional recency filter accepts provider time-bound codes such as
	// "qdr:w" (past week) or "qdr:m" (past month); empty means no bound.
	Search(ctx context.Context, query string, num int, recency string) ([]Result, error)
}
