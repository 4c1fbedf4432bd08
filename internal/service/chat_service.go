package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"mortgage-rag-be/internal/constant"
	"mortgage-rag-be/internal/dto"
	"mortgage-rag-be/internal/entity"
	"mortgage-rag-be/internal/pkg/serverutils"
	"mortgage-rag-be/internal/repository/specification"
	"mortgage-rag-be/internal/repository/unitofwork"
	"mortgage-rag-be/pkg/llm"
	"mortgage-rag-be/pkg/rag/agent"
	"mortgage-rag-be/pkg/rag/history"
	"mortgage-rag-be/pkg/store"
)

const (
	// maxSessionList caps the session list endpoint at the most recent
	// sessions; older ones stay reachable by id.
	maxSessionList = 50
	// maxMessageList caps one session's message listing.
	maxMessageList = 400
)

type IChatService interface {
	Ask(ctx context.Context, userId string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	Sessions(ctx context.Context, userId string) ([]dto.ChatSessionResponse, error)
	Messages(ctx context.Context, userId, sessionId string) ([]dto.ChatMessageResponse, error)
	DeleteSession(ctx context.Context, userId, sessionId string) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	agent      *agent.Agent
	sessions   *store.SessionStore
	publisher  IPublisherService
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	ragAgent *agent.Agent,
	sessions *store.SessionStore,
	publisher IPublisherService,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		agent:      ragAgent,
		sessions:   sessions,
		publisher:  publisher,
	}
}

func (s *chatService) Ask(ctx context.Context, userId string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	question := req.Question()
	if question == "" {
		return nil, serverutils.InvalidInputf("query is required")
	}
	uid, err := uuid.Parse(userId)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", serverutils.ErrUnauthorized)
	}

	session, firstTurn, err := s.resolveSession(ctx, uid, req.ChatSessionId, question)
	if err != nil {
		return nil, err
	}

	msgHistory := s.loadHistory(ctx, session.Id)

	resp, err := s.agent.Ask(ctx, agent.Request{
		Query:           question,
		Agent:           req.Agent,
		IncludeInternal: req.WantsInternal(),
		IncludeWeb:      req.WantsWeb(),
		StrictCitations: req.StrictCitations,
		UserID:          uid.String(),
		SessionID:       session.Id.String(),
		History:         msgHistory,
		FirstTurn:       firstTurn,
	})
	if err != nil {
		return nil, serverutils.Upstreamf("%v", err)
	}

	if !resp.Refused {
		s.sessions.AppendTurn(session.Id.String(), question, resp.Answer)
	}

	title := session.Title
	if firstTurn && resp.SessionTitle != "" {
		title = resp.SessionTitle
	}

	return &dto.ChatResponse{
		Answer:        resp.Answer,
		ChatSessionId: session.Id.String(),
		SessionTitle:  title,
		Agent:         req.Agent,
		Sources:       resp.Sources,
		FollowUps:     resp.FollowUps,
	}, nil
}

// resolveSession loads an existing session (enforcing ownership) or
// creates a fresh one. The first turn is the one that sees an empty
// session.
func (s *chatService) resolveSession(ctx context.Context, userId uuid.UUID, sessionId, question string) (*entity.ChatSession, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessionRepo := uow.ChatSessionRepository()

	if sessionId != "" {
		id, err := uuid.Parse(sessionId)
		if err != nil {
			return nil, false, serverutils.InvalidInputf("invalid chat_session_id")
		}
		session, err := sessionRepo.FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, false, err
		}
		if session == nil || session.UserId != userId {
			return nil, false, serverutils.NotFoundf("chat session %s", sessionId)
		}
		count, err := uow.ChatMessageRepository().Count(ctx, specification.ByChatSessionID{ChatSessionID: id})
		if err != nil {
			return nil, false, err
		}
		return session, count == 0, nil
	}

	session := &entity.ChatSession{
		UserId:  userId,
		Title:   constant.DefaultSessionTitle,
		Preview: truncateRunes(question, constant.SessionPreviewLen),
	}
	if err := sessionRepo.Create(ctx, session); err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// loadHistory prefers the in-memory cache and falls back to the database,
// reseeding the cache on a miss. History failures degrade to an empty
// history rather than failing the turn.
func (s *chatService) loadHistory(ctx context.Context, sessionId uuid.UUID) []llm.Message {
	if msgs, ok := s.sessions.History(sessionId.String()); ok {
		return msgs
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		log.Printf("[WARN] Failed to load chat history for %s: %v", sessionId, err)
		return nil
	}

	msgs := make([]llm.Message, 0, len(stored))
	for _, m := range stored {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	s.sessions.Seed(sessionId.String(), msgs)
	return msgs
}

func (s *chatService) Sessions(ctx context.Context, userId string) ([]dto.ChatSessionResponse, error) {
	uid, err := uuid.Parse(userId)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", serverutils.ErrUnauthorized)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: uid},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: maxSessionList},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, dto.ChatSessionResponse{
			Id:        session.Id.String(),
			Title:     session.Title,
			Preview:   session.Preview,
			UpdatedAt: session.UpdatedAt,
		})
	}
	return out, nil
}

func (s *chatService) Messages(ctx context.Context, userId, sessionId string) ([]dto.ChatMessageResponse, error) {
	uid, err := uuid.Parse(userId)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", serverutils.ErrUnauthorized)
	}
	sid, err := uuid.Parse(sessionId)
	if err != nil {
		return nil, serverutils.InvalidInputf("invalid session id")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sid})
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != uid {
		return nil, serverutils.NotFoundf("chat session %s", sessionId)
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sid},
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: maxMessageList},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.ChatMessageResponse{
			Id:        m.Id.String(),
			Role:      m.Role,
			Content:   m.Content,
			Agent:     m.Agent,
			Sources:   m.Sources,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId, sessionId string) error {
	uid, err := uuid.Parse(userId)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", serverutils.ErrUnauthorized)
	}
	sid, err := uuid.Parse(sessionId)
	if err != nil {
		return serverutils.InvalidInputf("invalid session id")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sid})
	if err != nil {
		return err
	}
	if session == nil || session.UserId != uid {
		return serverutils.NotFoundf("chat session %s", sessionId)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, sid); err != nil {
		return err
	}
	if err := uow.ChatHistoryEmbeddingRepository().DeleteBySessionId(ctx, sid); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sid); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.sessions.Forget(sid.String())
	return nil
}

// TurnRecorder persists completed question/answer turns and kicks off
// async semantic indexing. It sits behind the best-effort history writer,
// so its errors never reach the user.
type TurnRecorder struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
}

var _ history.Recorder = &TurnRecorder{}

func NewTurnRecorder(uowFactory unitofwork.RepositoryFactory, publisher IPublisherService) *TurnRecorder {
	return &TurnRecorder{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (r *TurnRecorder) RecordTurn(ctx context.Context, turn history.Turn) error {
	sessionId, err := uuid.Parse(turn.SessionID)
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}
	userId, err := uuid.Parse(turn.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	msgRepo := uow.ChatMessageRepository()

	questionMsg := &entity.ChatMessage{
		ChatSessionId: sessionId,
		Role:          constant.ChatMessageRoleUser,
		Content:       turn.Question,
		Agent:         turn.Agent,
	}
	if err := msgRepo.Create(ctx, questionMsg); err != nil {
		return err
	}

	answerMsg := &entity.ChatMessage{
		ChatSessionId: sessionId,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       turn.Answer,
		Agent:         turn.Agent,
		Sources:       turn.Sources,
	}
	if err := msgRepo.Create(ctx, answerMsg); err != nil {
		return err
	}

	sessionRepo := uow.ChatSessionRepository()
	session, err := sessionRepo.FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session != nil {
		session.Preview = truncateRunes(turn.Answer, constant.SessionPreviewLen)
		if turn.SessionTitle != "" {
			session.Title = turn.SessionTitle
		}
		if err := sessionRepo.Update(ctx, session); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	payload, err := json.Marshal(dto.PublishIndexTurnMessage{
		UserId:            userId,
		ChatSessionId:     sessionId,
		QuestionMessageId: questionMsg.Id,
		AnswerMessageId:   answerMsg.Id,
	})
	if err != nil {
		return err
	}
	if err := r.publisher.Publish(ctx, payload); err != nil {
		log.Printf("[WARN] Failed to publish turn indexing event: %v", err)
	}
	return nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
