package unitofwork

import (
	"context"

	"mortgage-rag-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
	ChatHistoryEmbeddingRepository() contract.ChatHistoryEmbeddingRepository
}
