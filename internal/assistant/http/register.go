package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/littledragon/assistant/pkg/httpx"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (rt *Router) handleRegister() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "Malformed JSON body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)
		switch {
		case req.Username == "":
			writeBadRequest(w, "username is required")
			return
		case req.Email == "" || !strings.Contains(req.Email, "@"):
			writeBadRequest(w, "a valid email is required")
			return
		case len(req.Password) < 8:
			writeBadRequest(w, "password must be at least 8 characters")
			return
		}

		user, err := rt.Users.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusCreated, userResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Email:    user.Email,
		})
	})
}
