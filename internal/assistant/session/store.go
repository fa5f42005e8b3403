// Package session stores per-conversation message history. A session belongs
// to exactly one user and holds an ordered transcript of messages.
package session

import (
	"context"
	"errors"

	"github.com/littledragon/assistant/internal/assistant/domain"
	"github.com/littledragon/assistant/pkg/idx"
)

var ErrNotFound = errors.New("session: not found")

// Store is the conversation history backend. Implementations must keep
// message order stable and append atomically: either all messages in one
// Append call land, or none do.
type Store interface {
	// Create registers an empty session for a user and returns its id.
	Create(ctx context.Context, userID string) (string, error)

	// CreateWithID registers an empty session under a caller-chosen id.
	// Creating an id that already exists is a no-op; ownership of the
	// existing session is untouched.
	CreateWithID(ctx context.Context, userID, sessionID string) error

	// Owner returns the user a session belongs to, or ErrNotFound.
	Owner(ctx context.Context, sessionID string) (string, error)

	// Messages returns the full transcript in insertion order, or
	// ErrNotFound when the session does not exist.
	Messages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Append adds messages to the end of an existing session's transcript.
	Append(ctx context.Context, sessionID string, msgs ...domain.Message) error

	Close() error
}

// NewSessionID mints a fresh session identifier.
func NewSessionID() string {
	return idx.New().String()
}
