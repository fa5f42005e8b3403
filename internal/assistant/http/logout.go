package http

import (
	"net/http"

	"github.com/littledragon/assistant/pkg/httpx"
)

func (rt *Router) handleLogout() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := httpx.TokenFromContext(r.Context())
		if !ok {
			// Authn middleware guarantees a token; this is a wiring bug.
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
			return
		}

		if err := rt.Tokens.Revoke(r.Context(), token); err != nil {
			writeServiceError(w, err)
			return
		}

		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"detail": "Successfully logged out"})
	})
}
