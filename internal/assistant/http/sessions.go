package http

import (
	"net/http"

	"github.com/littledragon/assistant/internal/assistant/domain"
	"github.com/littledragon/assistant/pkg/httpx"
)

type sessionMessagesResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []domain.Message `json:"messages"`
}

func (rt *Router) handleSessionMessages() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.PathValue("id")
		if sessionID == "" {
			writeBadRequest(w, "session id is required")
			return
		}

		subject, _ := httpx.SubjectFromContext(r.Context())
		messages, err := rt.Chat.History(r.Context(), subject, sessionID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if messages == nil {
			messages = []domain.Message{}
		}

		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, sessionMessagesResponse{
			SessionID: sessionID,
			Messages:  messages,
		})
	})
}
