package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"mortgage-rag-be/internal/entity"
	"mortgage-rag-be/internal/repository/contract"
	"mortgage-rag-be/pkg/vectorstore"
)

// DocumentIndex adapts the document embedding repository to the vector
// index contract used by the retrieval pipeline.
type DocumentIndex struct {
	repo contract.DocumentEmbeddingRepository
}

var _ vectorstore.Index = &DocumentIndex{}

func NewDocumentIndex(repo contract.DocumentEmbeddingRepository) *DocumentIndex {
	return &DocumentIndex{repo: repo}
}

func (d *DocumentIndex) Query(ctx context.Context, vector []float32, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	namespace := ""
	if filter != nil {
		namespace = filter["namespace"]
	}

	scored, err := d.repo.SearchSimilarWithScore(ctx, vector, topK, namespace)
	if err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, 0, len(scored))
	for _, s := range scored {
		e := s.Embedding
		matches = append(matches, vectorstore.Match{
			ID:    e.Id.String(),
			Score: s.Similarity,
			Metadata: map[string]interface{}{
				"title":        e.Title,
				"section":      e.Section,
				"source":       e.SourcePath,
				"access_level": e.AccessLevel,
				"text":         e.Content,
				"namespace":    e.Namespace,
				"chunk_id":     fmt.Sprintf("%d", e.ChunkIndex),
			},
		})
	}
	return matches, nil
}

func (d *DocumentIndex) Upsert(ctx context.Context, records []vectorstore.Record) error {
	embeddings := make([]*entity.DocumentEmbedding, 0, len(records))
	for _, r := range records {
		md := r.Metadata
		if md == nil {
			md = map[string]interface{}{}
		}
		embeddings = append(embeddings, &entity.DocumentEmbedding{
			Namespace:      mdString(md, "namespace", "default"),
			Title:          mdString(md, "title", ""),
			Section:        mdString(md, "section", ""),
			SourcePath:     mdString(md, "source", ""),
			AccessLevel:    mdString(md, "access_level", "public"),
			Content:        mdString(md, "text", ""),
			EmbeddingValue: r.Vector,
		})
	}
	return d.repo.CreateBulk(ctx, embeddings)
}

// ChatHistoryIndex adapts the chat history embedding repository. Queries
// always carry a user_id filter so one user's turns never surface for
// another.
type ChatHistoryIndex struct {
	repo contract.ChatHistoryEmbeddingRepository
}

var _ vectorstore.Index = &ChatHistoryIndex{}

func NewChatHistoryIndex(repo contract.ChatHistoryEmbeddingRepository) *ChatHistoryIndex {
	return &ChatHistoryIndex{repo: repo}
}

func (c *ChatHistoryIndex) Query(ctx context.Context, vector []float32, topK int, filter vectorstore.Filter) ([]vectorstore.Match, error) {
	var userId uuid.UUID
	if filter != nil && filter["user_id"] != "" {
		parsed, err := uuid.Parse(filter["user_id"])
		if err != nil {
			return nil, fmt.Errorf("invalid user_id filter: %w", err)
		}
		userId = parsed
	}
	if userId == uuid.Nil {
		return nil, fmt.Errorf("chat history query requires a user_id filter")
	}

	scored, err := c.repo.SearchSimilarWithScore(ctx, vector, topK, userId)
	if err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, 0, len(scored))
	for _, s := range scored {
		e := s.Embedding
		matches = append(matches, vectorstore.Match{
			ID:    e.Id.String(),
			Score: s.Similarity,
			Metadata: map[string]interface{}{
				"title":   "Conversation memory",
				"section": e.Role,
				"source":  e.ChatSessionId.String(),
				"text":    e.Content,
			},
		})
	}
	return matches, nil
}

func (c *ChatHistoryIndex) Upsert(ctx context.Context, records []vectorstore.Record) error {
	embeddings := make([]*entity.ChatHistoryEmbedding, 0, len(records))
	for _, r := range records {
		md := r.Metadata
		if md == nil {
			md = map[string]interface{}{}
		}
		userId, err := uuid.Parse(mdString(md, "user_id", ""))
		if err != nil {
			return fmt.Errorf("invalid user_id on record: %w", err)
		}
		sessionId, err := uuid.Parse(mdString(md, "session_id", ""))
		if err != nil {
			return fmt.Errorf("invalid session_id on record: %w", err)
		}
		messageId, err := uuid.Parse(mdString(md, "message_id", ""))
		if err != nil {
			return fmt.Errorf("invalid message_id on record: %w", err)
		}
		embeddings = append(embeddings, &entity.ChatHistoryEmbedding{
			UserId:         userId,
			ChatSessionId:  sessionId,
			ChatMessageId:  messageId,
			Role:           mdString(md, "role", ""),
			Content:        mdString(md, "text", ""),
			EmbeddingValue: r.Vector,
		})
	}
	return c.repo.CreateBulk(ctx, embeddings)
}

func mdString(md map[string]interface{}, key, fallback string) string {
	if v, ok := md[key]; ok && v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
