package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/littledragon/assistant/pkg/httpx"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (rt *Router) handleLogin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "Malformed JSON body")
			return
		}

		user, err := rt.Users.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		// The token subject is the account email, matching what /me and the
		// chat endpoints resolve back to a user.
		token, err := rt.Tokens.Issue(r.Context(), user.Email)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, tokenResponse{
			AccessToken: token.Token,
			TokenType:   token.TokenType,
			ExpiresIn:   int64(time.Until(token.ExpiresAt).Seconds()),
		})
	})
}
