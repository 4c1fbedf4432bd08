package contract

import (
	"context"

	"github.com/google/uuid"

	"mortgage-rag-be/internal/entity"
)

type ScoredChatHistoryEmbedding struct {
	Embedding  *entity.ChatHistoryEmbedding
	Similarity float64
}

type ChatHistoryEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ChatHistoryEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ChatHistoryEmbedding) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*ScoredChatHistoryEmbedding, error)
}
