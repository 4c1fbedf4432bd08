package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"mortgage-rag-be/internal/entity"
	"mortgage-rag-be/internal/repository/contract"
	"mortgage-rag-be/internal/repository/specification"
	"mortgage-rag-be/internal/repository/unitofwork"
	"mortgage-rag-be/pkg/store"
)

// fakeSessionRepo serves canned sessions and records the specifications
// each query was built with. Unlisted methods come from the embedded nil
// interface and must not be called.
type fakeSessionRepo struct {
	contract.ChatSessionRepository
	session   *entity.ChatSession
	sessions  []*entity.ChatSession
	lastSpecs []specification.Specification
}

func (f *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	return f.session, nil
}

func (f *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	f.lastSpecs = specs
	return f.sessions, nil
}

type fakeMessageRepo struct {
	contract.ChatMessageRepository
	messages  []*entity.ChatMessage
	lastSpecs []specification.Specification
}

func (f *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	f.lastSpecs = specs
	return f.messages, nil
}

type fakeUow struct {
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository               { return nil }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return u.sessions }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return u.messages }
func (u *fakeUow) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return nil
}
func (u *fakeUow) ChatHistoryEmbeddingRepository() contract.ChatHistoryEmbeddingRepository {
	return nil
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func pageLimit(specs []specification.Specification) (int, bool) {
	for _, s := range specs {
		if p, ok := s.(specification.Pagination); ok {
			return p.Limit, true
		}
	}
	return 0, false
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	updated := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	repo := &fakeSessionRepo{sessions: []*entity.ChatSession{{
		Id:        uuid.New(),
		UserId:    uid,
		Title:     "Escrow basics",
		Preview:   "Escrow holds funds for taxes.",
		UpdatedAt: &updated,
	}}}
	svc := NewChatService(&fakeFactory{uow: &fakeUow{sessions: repo}}, nil, store.NewSessionStore(), nil)

	out, err := svc.Sessions(ctx, uid.String())
	if err != nil {
		t.Fatalf("err = %v", err)
	}

	limit, ok := pageLimit(repo.lastSpecs)
	if !ok {
		t.Fatal("session listing issued no pagination")
	}
	if limit != maxSessionList {
		t.Errorf("limit = %d, want %d", limit, maxSessionList)
	}
	if len(out) != 1 {
		t.Fatalf("sessions = %d, want 1", len(out))
	}
	if out[0].UpdatedAt == nil || !out[0].UpdatedAt.Equal(updated) {
		t.Errorf("UpdatedAt = %v, want %v", out[0].UpdatedAt, updated)
	}
}

func TestMessages(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	sid := uuid.New()

	sessionRepo := &fakeSessionRepo{session: &entity.ChatSession{Id: sid, UserId: uid}}
	messageRepo := &fakeMessageRepo{messages: []*entity.ChatMessage{{
		Id:            uuid.New(),
		ChatSessionId: sid,
		Role:          "assistant",
		Content:       "Escrow holds funds for taxes.",
	}}}
	svc := NewChatService(
		&fakeFactory{uow: &fakeUow{sessions: sessionRepo, messages: messageRepo}},
		nil, store.NewSessionStore(), nil,
	)

	out, err := svc.Messages(ctx, uid.String(), sid.String())
	if err != nil {
		t.Fatalf("err = %v", err)
	}

	limit, ok := pageLimit(messageRepo.lastSpecs)
	if !ok {
		t.Fatal("message listing issued no pagination")
	}
	if limit != maxMessageList {
		t.Errorf("limit = %d, want %d", limit, maxMessageList)
	}
	if len(out) != 1 {
		t.Fatalf("messages = %d, want 1", len(out))
	}
}

func TestMessagesOwnership(t *testing.T) {
	ctx := context.Background()
	sessionRepo := &fakeSessionRepo{session: &entity.ChatSession{Id: uuid.New(), UserId: uuid.New()}}
	svc := NewChatService(
		&fakeFactory{uow: &fakeUow{sessions: sessionRepo, messages: &fakeMessageRepo{}}},
		nil, store.NewSessionStore(), nil,
	)

	if _, err := svc.Messages(ctx, uuid.New().String(), sessionRepo.session.Id.String()); err == nil {
		t.Error("expected not-found for another user's session")
	}
}
