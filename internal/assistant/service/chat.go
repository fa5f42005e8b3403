package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/littledragon/assistant/internal/assistant/domain"
	"github.com/littledragon/assistant/internal/assistant/memory"
	"github.com/littledragon/assistant/internal/assistant/provider"
	"github.com/littledragon/assistant/internal/assistant/session"
	"github.com/littledragon/assistant/pkg/slogx"
)

// Recaller is the optional long-term memory hook. Nil disables recall.
type Recaller interface {
	Remember(ctx context.Context, userID string, msg domain.Message) error
	Search(ctx context.Context, userID, query string, limit int) ([]domain.Message, error)
}

var _ Recaller = (*memory.Recall)(nil)

// ChatService turns user messages into assistant replies. History is
// persisted per session; the upstream provider only ever sees a bounded
// suffix of it. A failed completion leaves the transcript untouched.
type ChatService struct {
	Sessions     session.Store
	Provider     provider.Completer
	Memory       Recaller
	ContextLimit int
}

// EnsureSession resolves the session for a request. An empty id creates a
// fresh session; a non-empty id must exist and belong to the user.
func (s *ChatService) EnsureSession(ctx context.Context, userID, sessionID string) (string, error) {
	if sessionID == "" {
		id, err := s.Sessions.Create(ctx, userID)
		if err != nil {
			return "", err
		}
		slogx.FromContext(ctx).Info("session created",
			slog.String("session_id", id),
			slog.String("user_id", userID),
		)
		return id, nil
	}

	owner, err := s.Sessions.Owner(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	if owner != userID {
		return "", ErrSessionForbidden
	}
	return sessionID, nil
}

// EnsureOwnedSession is EnsureSession for transports that derive the session
// id from the caller's identity: a missing session is created under the
// supplied id instead of failing.
func (s *ChatService) EnsureOwnedSession(ctx context.Context, userID, sessionID string) (string, error) {
	id, err := s.EnsureSession(ctx, userID, sessionID)
	if !errors.Is(err, ErrSessionNotFound) {
		return id, err
	}
	if err := s.Sessions.CreateWithID(ctx, userID, sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

// History returns a session's transcript after an ownership check.
func (s *ChatService) History(ctx context.Context, userID, sessionID string) ([]domain.Message, error) {
	if _, err := s.EnsureSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.Sessions.Messages(ctx, sessionID)
}

// Send runs one blocking chat turn and returns the full reply. Both the
// user message and the reply are appended together after the provider
// succeeds.
func (s *ChatService) Send(ctx context.Context, userID, sessionID, content string) (string, error) {
	userMsg := domain.UserMessage(content)
	window, err := s.buildContext(ctx, userID, sessionID, userMsg)
	if err != nil {
		return "", err
	}

	reply, err := s.Provider.Complete(ctx, window)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamProvider, err)
	}

	if err := s.commitTurn(ctx, userID, sessionID, userMsg, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// Stream runs one chat turn, calling emit for each reply fragment as it
// arrives. The transcript is only appended once the whole stream completed,
// so a mid-stream failure leaves history unchanged.
func (s *ChatService) Stream(ctx context.Context, userID, sessionID, content string, emit func(fragment string) error) error {
	userMsg := domain.UserMessage(content)
	window, err := s.buildContext(ctx, userID, sessionID, userMsg)
	if err != nil {
		return err
	}

	chunks, err := s.Provider.Stream(ctx, window)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamProvider, err)
	}

	var reply strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			return fmt.Errorf("%w: %v", ErrUpstreamProvider, chunk.Err)
		}
		reply.WriteString(chunk.Text)
		if err := emit(chunk.Text); err != nil {
			return err
		}
	}

	return s.commitTurn(ctx, userID, sessionID, userMsg, reply.String())
}

// buildContext checks ownership and assembles the provider context: recalled
// long-term memories first (when enabled), then the recent history window
// ending with the new message.
func (s *ChatService) buildContext(ctx context.Context, userID, sessionID string, userMsg domain.Message) ([]domain.Message, error) {
	history, err := s.Sessions.Messages(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	window := session.Window(history, userMsg, s.ContextLimit)
	if s.Memory == nil {
		return window, nil
	}

	recalled, err := s.Memory.Search(ctx, userID, userMsg.Content, memory.DefaultRecallLimit)
	if err != nil {
		// Recall is best-effort; the chat still works without it.
		slogx.FromContext(ctx).Warn("memory search failed", slog.Any("error", err))
		return window, nil
	}
	if len(recalled) == 0 {
		return window, nil
	}

	var sb strings.Builder
	sb.WriteString("Relevant context from earlier conversations:\n")
	for _, m := range recalled {
		fmt.Fprintf(&sb, "- %s: %s\n", m.Role, m.Content)
	}

	out := make([]domain.Message, 0, len(window)+1)
	out = append(out, domain.Message{Role: domain.RoleSystem, Content: sb.String()})
	out = append(out, window...)
	return out, nil
}

func (s *ChatService) commitTurn(ctx context.Context, userID, sessionID string, userMsg domain.Message, reply string) error {
	assistantMsg := domain.AssistantMessage(reply)
	if err := s.Sessions.Append(ctx, sessionID, userMsg, assistantMsg); err != nil {
		return err
	}

	if s.Memory != nil {
		for _, m := range []domain.Message{userMsg, assistantMsg} {
			if err := s.Memory.Remember(ctx, userID, m); err != nil {
				slogx.FromContext(ctx).Warn("memory store failed", slog.Any("error", err))
				break
			}
		}
	}
	return nil
}
