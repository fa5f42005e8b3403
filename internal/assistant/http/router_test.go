package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	assistanthttp "github.com/littledragon/assistant/internal/assistant/http"
	"github.com/littledragon/assistant/internal/assistant/domain"
	"github.com/littledragon/assistant/internal/assistant/provider"
	"github.com/littledragon/assistant/internal/assistant/service"
	"github.com/littledragon/assistant/internal/assistant/session"
	"github.com/littledragon/assistant/internal/assistant/store/drivers/sqlite"
	"github.com/littledragon/assistant/pkg/jwtx"
)

// echoCompleter replies with a fixed string for every completion.
type echoCompleter struct {
	reply string
}

func (e *echoCompleter) Complete(context.Context, []domain.Message) (string, error) {
	return e.reply, nil
}

func (e *echoCompleter) Stream(context.Context, []domain.Message) (<-chan provider.Chunk, error) {
	out := make(chan provider.Chunk)
	go func() {
		defer close(out)
		for _, word := range strings.SplitAfter(e.reply, " ") {
			out <- provider.Chunk{Text: word}
		}
	}()
	return out, nil
}

func newTestServer(t *testing.T, transport assistanthttp.TransportMode) *httptest.Server {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	signer, err := jwtx.NewHS256([]byte("test-secret"), "assistant-test")
	require.NoError(t, err)

	sessTransport, err := assistanthttp.NewSessionTransport(transport, 3600)
	require.NoError(t, err)

	router := &assistanthttp.Router{
		Users: &service.UserService{Store: st},
		Tokens: &service.TokenService{
			Signer:    signer,
			Store:     st,
			Issuer:    "assistant-test",
			AccessTTL: 30 * time.Minute,
		},
		Chat: &service.ChatService{
			Sessions:     session.NewMemoryStore(),
			Provider:     &echoCompleter{reply: "echo reply"},
			ContextLimit: 10,
		},
		Store:     st,
		Transport: sessTransport,
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerAndLogin(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret-pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret-pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	require.Equal(t, "bearer", body["token_type"])
	return token
}
