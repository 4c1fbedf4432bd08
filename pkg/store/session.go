package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"mortgage-rag-be/pkg/llm"
)

const (
	sessionTTL      = 30 * time.Minute
	cleanupInterval = 10 * time.Minute

	// maxTurns bounds how much recent history rides along per session.
	maxTurns = 10
)

// SessionStore keeps the recent conversation of each active session in
// memory so follow-up turns do not need a database read to rebuild model
// history. It is a hot cache, not the system of record; entries expire on
// their own and are rebuilt from the database when missing.
type SessionStore struct {
	cache *gocache.Cache
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		cache: gocache.New(sessionTTL, cleanupInterval),
	}
}

// History returns the cached messages for a session, oldest first, and
// whether the session was present at all.
func (s *SessionStore) History(sessionID string) ([]llm.Message, bool) {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, false
	}
	msgs, ok := v.([]llm.Message)
	return msgs, ok
}

// AppendTurn records one question/answer pair, trimming the history to
// the most recent turns and refreshing the session's TTL.
func (s *SessionStore) AppendTurn(sessionID, question, answer string) {
	msgs, _ := s.History(sessionID)
	msgs = append(msgs,
		llm.Message{Role: "user", Content: question},
		llm.Message{Role: "assistant", Content: answer},
	)
	if len(msgs) > maxTurns*2 {
		msgs = msgs[len(msgs)-maxTurns*2:]
	}
	s.cache.Set(sessionID, msgs, sessionTTL)
}

// Seed replaces a session's cached history, used after reloading it from
// the database.
func (s *SessionStore) Seed(sessionID string, msgs []llm.Message) {
	if len(msgs) > maxTurns*2 {
		msgs = msgs[len(msgs)-maxTurns*2:]
	}
	s.cache.Set(sessionID, msgs, sessionTTL)
}

// Forget drops a session from the cache.
func (s *SessionStore) Forget(sessionID string) {
	s.cache.Delete(sessionID)
}
