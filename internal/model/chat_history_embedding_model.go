package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChatHistoryEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChatSessionId  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChatMessageId  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Role           string          `gorm:"type:varchar(50);not null"`
	Content        string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (ChatHistoryEmbedding) TableName() string {
	return "chat_history_embeddings"
}
