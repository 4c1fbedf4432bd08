package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"mortgage-rag-be/internal/dto"
	"mortgage-rag-be/internal/entity"
	"mortgage-rag-be/internal/repository/specification"
	"mortgage-rag-be/internal/repository/unitofwork"
	"mortgage-rag-be/pkg/embedding"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService indexes completed chat turns into the semantic history
// store, off the request path. A turn that fails to index is retried; the
// user-facing answer was already delivered.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexTurnMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing chat turn for session %s", payload.ChatSessionId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	msgRepo := uow.ChatMessageRepository()

	var newEmbeddings []*entity.ChatHistoryEmbedding
	for _, messageId := range []uuid.UUID{payload.QuestionMessageId, payload.AnswerMessageId} {
		chatMsg, err := msgRepo.FindOne(ctx, specification.ByID{ID: messageId})
		if err != nil {
			log.Printf("[ERROR] Failed to get message %s: %v", messageId, err)
			msg.Nack() // Nack for retriable errors
			return
		}
		if chatMsg == nil {
			log.Printf("[WARN] Message not found, skipping: %s", messageId)
			continue // Message deleted between persist and index
		}

		res, err := cs.embeddingProvider.Generate(chatMsg.Content, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to embed message %s: %v", messageId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.ChatHistoryEmbedding{
			Id:             uuid.New(),
			UserId:         payload.UserId,
			ChatSessionId:  payload.ChatSessionId,
			ChatMessageId:  chatMsg.Id,
			Role:           chatMsg.Role,
			Content:        chatMsg.Content,
			EmbeddingValue: res.Embedding.Values,
			CreatedAt:      time.Now(),
		})
	}

	if len(newEmbeddings) == 0 {
		msg.Ack()
		return
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ChatHistoryEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		log.Printf("[ERROR] Failed to create history embeddings: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Indexed %d messages for session %s", len(newEmbeddings), payload.ChatSessionId)
	msg.Ack()
}
