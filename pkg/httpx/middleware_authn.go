package httpx

import (
	"context"
	"net/http"
	"strings"
)

// TokenValidator checks an access token and returns the subject it was
// issued for.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (subject string, err error)
}

// RequireAuth rejects requests that do not carry a valid bearer token. The
// 401 body is intentionally generic: callers must not be able to tell a
// missing token from an expired or revoked one.
func RequireAuth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			subject, err := validator.Validate(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := WithSubject(r.Context(), subject)
			ctx = WithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer`)
	WriteError(w, http.StatusUnauthorized,
		"could_not_validate_credentials",
		"Could not validate credentials",
	)
}
