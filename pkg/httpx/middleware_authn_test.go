package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/littledragon/assistant/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	subject string
	err     error
	seen    string
}

func (s *stubValidator) Validate(_ context.Context, token string) (string, error) {
	s.seen = token
	return s.subject, s.err
}

func TestRequireAuthPassesSubjectAndToken(t *testing.T) {
	t.Parallel()

	v := &stubValidator{subject: "a@example.com"}
	var gotSubject, gotToken string
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = httpx.SubjectFromContext(r.Context())
		gotToken, _ = httpx.TokenFromContext(r.Context())
	}), httpx.RequireAuth(v))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "tok-123", v.seen)
	require.Equal(t, "a@example.com", gotSubject)
	require.Equal(t, "tok-123", gotToken)
}

func TestRequireAuthRejectsUniformly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		err    error
	}{
		{name: "missing header"},
		{name: "not bearer", header: "Basic abc"},
		{name: "empty bearer", header: "Bearer "},
		{name: "rejected token", header: "Bearer bad", err: errors.New("expired")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := httpx.Chain(okHandler(), httpx.RequireAuth(&stubValidator{err: tc.err}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.Equal(t, http.StatusUnauthorized, rr.Code)
			require.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			require.Contains(t, rr.Body.String(), "could_not_validate_credentials")
		})
	}
}
