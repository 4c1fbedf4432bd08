// Package vectorstore defines the contract the retrieval pipeline uses to
// talk to similarity indexes. Implementations live next to the storage they
// wrap; the pipeline only sees this interface.
package vectorstore

import "context"

// Filter narrows a query to records whose metadata matches every key.
// A nil filter matches everything.
type Filter map[string]string

// Match is one scored hit from an index query. Score is cosine similarity,
// higher is closer.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]interface{}
}

// Record is one row to be written into an index.
type Record struct {
	ID       string
	Vector   []float32
	Metadata map[string]interface{}
}

// Index is a queryable vector store.
type Index interface {
	Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error)
	Upsert(ctx context.Context, records []Record) error
}
