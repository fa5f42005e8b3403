package http

import (
	"encoding/json"
	"net/http"

	"github.com/littledragon/assistant/pkg/httpx"
)

func (rt *Router) handleMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ := httpx.SubjectFromContext(r.Context())

		user, err := rt.Users.GetByEmail(r.Context(), subject)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, userResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		})
	})
}

type userByEmailRequest struct {
	Email string `json:"email"`
}

func (rt *Router) handleUserByEmail() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req userByEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "Malformed JSON body")
			return
		}
		if req.Email == "" {
			writeBadRequest(w, "email is required")
			return
		}

		user, err := rt.Users.GetByEmail(r.Context(), req.Email)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, userResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		})
	})
}
