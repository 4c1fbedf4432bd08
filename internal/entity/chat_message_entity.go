package entity

import (
	"time"

	"github.com/google/uuid"

	"mortgage-rag-be/pkg/rag/source"
)

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	Agent         string
	Sources       []source.Source
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
