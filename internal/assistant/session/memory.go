package session

import (
	"context"
	"sync"

	"github.com/littledragon/assistant/internal/assistant/domain"
)

// MemoryStore keeps sessions in process memory. State is lost on restart;
// suitable for development and single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
}

type memorySession struct {
	userID   string
	messages []domain.Message
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memorySession)}
}

func (s *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	id := NewSessionID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &memorySession{userID: userID}
	return id, nil
}

func (s *MemoryStore) CreateWithID(_ context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		return nil
	}
	s.sessions[sessionID] = &memorySession{userID: userID}
	return nil
}

func (s *MemoryStore) Owner(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrNotFound
	}
	return sess.userID, nil
}

func (s *MemoryStore) Messages(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]domain.Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, msgs ...domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	sess.messages = append(sess.messages, msgs...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
