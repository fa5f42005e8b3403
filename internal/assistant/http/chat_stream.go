package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/littledragon/assistant/pkg/httpx"
	"github.com/littledragon/assistant/pkg/slogx"
)

func (rt *Router) handleChatStream() http.Handler {
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

		rt.Transport.Attach(w, sessionID)
		w.Header().Set("X-Session-ID", sessionID)

		sse, err := httpx.NewSSEWriter(w)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "Streaming unsupported")
			return
		}

		err = rt.Chat.Stream(r.Context(), subject, sessionID, req.Message, sse.Send)
		if err != nil {
			// Headers are gone; signal the failure in-band and end the stream.
			slogx.FromContext(r.Context()).Error("chat stream failed", slog.Any("error", err))
			_ = sse.SendEvent("error", "stream failed")
			return
		}

		_ = sse.SendEvent("done", "")
	})
}
