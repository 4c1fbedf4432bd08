package dto

import "mortgage-rag-be/pkg/websearch"

type WebSearchRequest struct {
	Query string `json:"query" validate:"required"`
	Num   int    `json:"num"`
	// Recency takes provider time-bound codes, e.g. "qdr:w" or "qdr:m".
	Recency string `json:"recency"`
}

type WebSearchResponse struct {
	Results []websearch.Result `json:"results"`
}
