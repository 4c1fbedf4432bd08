package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentEmbedding struct {
	Id             uuid.UUID
	Namespace      string
	Title          string
	Section        string
	SourcePath     string
	AccessLevel    string
	Content        string
	ChunkIndex     int
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

type ChatHistoryEmbedding struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ChatSessionId  uuid.UUID
	ChatMessageId  uuid.UUID
	Role           string
	Content        string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
