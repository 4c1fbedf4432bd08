package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"mortgage-rag-be/pkg/rag/source"
)

type ChatRequest struct {
	// Query and Message are aliases; clients send either.
	Query   string `json:"query"`
	Message string `json:"message"`

	// Agent picks the pipeline: "" (grounded Q&A), "mortgage_tutor",
	// "industry_news".
	Agent string `json:"agent"`

	// Scope picks retrieval breadth: "internal" (indexed data only, the
	// default), "web" (live search only), or "hybrid" (both).
	Scope string `json:"scope"`

	StrictCitations bool   `json:"strict_citations"`
	ChatSessionId   string `json:"chat_session_id"`
}

// Question returns the effective prompt, preferring query over message.
func (r *ChatRequest) Question() string {
	if q := strings.TrimSpace(r.Query); q != "" {
		return q
	}
	return strings.TrimSpace(r.Message)
}

// WantsWeb reports whether the request opted into live web retrieval.
func (r *ChatRequest) WantsWeb() bool {
	s := strings.ToLower(strings.TrimSpace(r.Scope))
	return s == "web" || s == "hybrid"
}

// WantsInternal reports whether indexed retrieval should run. Everything
// except an explicit web-only scope includes it.
func (r *ChatRequest) WantsInternal() bool {
	return strings.ToLower(strings.TrimSpace(r.Scope)) != "web"
}

type ChatResponse struct {
	Answer        string          `json:"answer"`
	ChatSessionId string          `json:"chat_session_id"`
	SessionTitle  string          `json:"session_title,omitempty"`
	Agent         string          `json:"agent,omitempty"`
	Sources       []source.Source `json:"sources"`
	FollowUps     []string        `json:"follow_ups"`
}

type ChatSessionResponse struct {
	Id        string     `json:"id"`
	Title     string     `json:"title"`
	Preview   string     `json:"preview"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ChatMessageResponse struct {
	Id        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Agent     string          `json:"agent,omitempty"`
	Sources   []source.Source `json:"sources,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// PublishIndexTurnMessage is the payload of the async semantic indexing
// event emitted after a turn is persisted.
type PublishIndexTurnMessage struct {
	UserId            uuid.UUID `json:"user_id"`
	ChatSessionId     uuid.UUID `json:"chat_session_id"`
	QuestionMessageId uuid.UUID `json:"question_message_id"`
	AnswerMessageId   uuid.UUID `json:"answer_message_id"`
}
