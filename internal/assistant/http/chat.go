package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/littledragon/assistant/pkg/httpx"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// resolveChatSession applies the configured transport and returns the session
// id to use for this turn, creating one when needed.
func (rt *Router) resolveChatSession(r *http.Request, bodySessionID, subject string) (string, error) {
	sessionID, derived := rt.Transport.Resolve(r, bodySessionID)
	if derived {
		return rt.Chat.EnsureOwnedSession(r.Context(), subject, sessionID)
	}
	return rt.Chat.EnsureSession(r.Context(), subject, sessionID)
}

func (rt *Router) handleChat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "Malformed JSON body")
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeBadRequest(w, "message is required")
			return
		}

		subject, _ := httpx.SubjectFromContext(r.Context())
		sessionID, err := rt.resolveChatSession(r, req.SessionID, subject)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		reply, err := rt.Chat.Send(r.Context(), subject, sessionID, req.Message)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		httpx.NoCache(w)
		rt.Transport.Attach(w, sessionID)
		httpx.WriteJSON(w, http.StatusOK, chatResponse{
			Response:  reply,
			SessionID: sessionID,
		})
	})
}
