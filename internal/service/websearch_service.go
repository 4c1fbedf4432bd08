package service

import (
	"context"

	"mortgage-rag-be/internal/dto"
	"mortgage-rag-be/internal/pkg/serverutils"
	"mortgage-rag-be/pkg/websearch"
)

type IWebSearchService interface {
	Search(ctx context.Context, req *dto.WebSearchRequest) (*dto.WebSearchResponse, error)
}

type webSearchService struct {
	searcher websearch.Searcher
}

func NewWebSearchService(searcher websearch.Searcher) IWebSearchService {
	return &webSearchService{searcher: searcher}
}

func (s *webSearchService) Search(ctx context.Context, req *dto.WebSearchRequest) (*dto.WebSearchResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	num := req.Num
	if num <= 0 || num > websearch.MaxResults {
		num = 5
	}

	results, err := s.searcher.Search(ctx, req.Query, num, req.Recency)
	if err != nil {
		return nil, serverutils.Upstreamf("web search: %v", err)
	}
	if results == nil {
		results = []websearch.Result{}
	}
	return &dto.WebSearchResponse{Results: results}, nil
}
