package contract

import (
	"context"

	"github.com/google/uuid"

	"mortgage-rag-be/internal/entity"
	"mortgage-rag-be/internal/repository/specification"
)

// ScoredDocumentEmbedding pairs an embedding row with its cosine
// similarity against a query vector.
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Similarity float64
}

type DocumentEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.DocumentEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByNamespace(ctx context.Context, namespace string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, namespace string) ([]*ScoredDocumentEmbedding, error)
}
