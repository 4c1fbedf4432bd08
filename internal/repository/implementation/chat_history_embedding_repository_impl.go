package implementation

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"mortgage-rag-be/internal/entity"
	"mortgage-rag-be/internal/mapper"
	"mortgage-rag-be/internal/model"
	"mortgage-rag-be/internal/repository/contract"
)

type ChatHistoryEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingMapper
}

func NewChatHistoryEmbeddingRepository(db *gorm.DB) contract.ChatHistoryEmbeddingRepository {
	return &ChatHistoryEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingMapper(),
	}
}

func (r *ChatHistoryEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ChatHistoryEmbedding) error {
	m := r.mapper.ChatHistoryToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ChatHistoryToEntity(m)
	return nil
}

func (r *ChatHistoryEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ChatHistoryEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.ChatHistoryEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ChatHistoryToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ChatHistoryToEntity(m)
	}
	return nil
}

func (r *ChatHistoryEmbeddingRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("chat_session_id = ?", sessionId).Delete(&model.ChatHistoryEmbedding{}).Error
}

func (r *ChatHistoryEmbeddingRepositoryImpl) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("user_id = ?", userId).Delete(&model.ChatHistoryEmbedding{}).Error
}

// SearchSimilarWithScore scopes the search to one user's history. Data
// isolation depends on this filter, not on the caller.
func (r *ChatHistoryEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*contract.ScoredChatHistoryEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.ChatHistoryEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("chat_history_embeddings").
		Select("chat_history_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("user_id = ?", userId).
		Where("chat_history_embeddings.deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChatHistoryEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChatHistoryEmbedding{
			Embedding:  r.mapper.ChatHistoryToEntity(&res.ChatHistoryEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
