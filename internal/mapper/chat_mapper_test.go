package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mortgage-rag-be/internal/entity"
	"mortgage-rag-be/internal/model"
	"mortgage-rag-be/pkg/rag/source"
)

func TestChatSessionRoundTrip(t *testing.T) {
	m := NewChatMapper()
	now := time.Now()

	ent := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Title:     "Escrow basics",
		Preview:   "how does escrow work",
		CreatedAt: now,
		UpdatedAt: &now,
	}

	back := m.ChatSessionToEntity(m.ChatSessionToModel(ent))

	assert.Equal(t, ent.Id, back.Id)
	assert.Equal(t, ent.UserId, back.UserId)
	assert.Equal(t, ent.Title, back.Title)
	assert.Equal(t, ent.Preview, back.Preview)
	assert.False(t, back.IsDeleted)
}

func TestChatSessionDeletedAt(t *testing.T) {
	m := NewChatMapper()
	now := time.Now()

	mod := &model.ChatSession{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Title:     "t",
		DeletedAt: gorm.DeletedAt{Time: now, Valid: true},
	}

	ent := m.ChatSessionToEntity(mod)
	assert.True(t, ent.IsDeleted)
	assert.NotNil(t, ent.DeletedAt)
}

func TestChatMessageSources(t *testing.T) {
	m := NewChatMapper()

	t.Run("sources survive the round trip", func(t *testing.T) {
		sc := 0.7
		ent := &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: uuid.New(),
			Role:          "assistant",
			Content:       "answer",
			Agent:         "mortgage_tutor",
			Sources: []source.Source{
				{ID: "1", Title: "Servicing Handbook", AccessLevel: "internal", Origin: "pinecone", Score: &sc},
			},
		}

		back := m.ChatMessageToEntity(m.ChatMessageToModel(ent))

		assert.Len(t, back.Sources, 1)
		assert.Equal(t, "Servicing Handbook", back.Sources[0].Title)
		assert.Equal(t, "mortgage_tutor", back.Agent)
	})

	t.Run("unreadable sources degrade to none", func(t *testing.T) {
		mod := &model.ChatMessage{
			Id:      uuid.New(),
			Role:    "assistant",
			Content: "answer",
			Sources: datatypes.JSON([]byte("not json")),
		}
		ent := m.ChatMessageToEntity(mod)
		assert.Nil(t, ent.Sources)
		assert.Equal(t, "answer", ent.Content)
	})

	t.Run("nil input maps to nil", func(t *testing.T) {
		assert.Nil(t, m.ChatMessageToEntity(nil))
		assert.Nil(t, m.ChatMessageToModel(nil))
	})
}
