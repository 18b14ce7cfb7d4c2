package agent

import (
	"sync"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// SessionStore keeps per-session conversation history in memory. History
// excludes the system prompt, which the agent re-applies on every turn.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]openai.ChatCompletionMessage
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]openai.ChatCompletionMessage),
	}
}

func (s *SessionStore) NewSession() string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()

	return id
}

func (s *SessionStore) History(id string) []openai.ChatCompletionMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[id]
	out := make([]openai.ChatCompletionMessage, len(history))
	copy(out, history)
	return out
}

func (s *SessionStore) Replace(id string, history []openai.ChatCompletionMessage) {
	s.mu.Lock()
	s.sessions[id] = history
	s.mu.Unlock()
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
