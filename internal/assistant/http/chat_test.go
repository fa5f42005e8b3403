package http_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	assistanthttp "github.com/littledragon/assistant/internal/assistant/http"
)

func TestChatCreatesAndReusesSession(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, assistanthttp.TransportBody)
	token := registerAndLogin(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/chat", token, map[string]string{
		"message": "hello",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decodeBody[map[string]any](t, resp)
	require.Equal(t, "echo reply", first["response"])
	sessionID, _ := first["session_id"].(string)
	require.NotEmpty(t, sessionID)

	// A second turn in the same session accumulates history.
	resp = doJSON(t, http.MethodPost, srv.URL+"/v1/chat", token, map[string]string{
		"message":    "how are you?",
		"session_id": sessionID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decodeBody[map[string]any](t, resp)
	require.Equal(t, sessionID, second["session_id"])

	resp = doJSON(t, http.MethodGet, srv.URL+"/v1/sessions/"+sessionID+"/messages", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeBody[map[string]any](t, resp)
	messages, _ := history["messages"].([]any)
	require.Len(t, messages, 4)
}

func TestChatRejectsUnknownSession(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, assistanthttp.TransportBody)
	token := registerAndLogin(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/chat", token, map[string]string{
		"message":    "hello",
		"session_id": "does-not-exist",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/v1/sessions/does-not-exist/messages", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, assistanthttp.TransportBody)
	token := registerAndLogin(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/chat", token, map[string]string{
		"message": "   ",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestChatStreamEmitsSSE(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, assistanthttp.TransportBody)
	token := registerAndLogin(t, srv)

	raw, err := json.Marshal(map[string]string{"message": "hello"})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/chat/stream", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	sessionID := resp.Header.Get("X-Session-ID")
	require.NotEmpty(t, sessionID)

	var fragments []string
	var sawDone bool
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "event: done":
			sawDone = true
		case strings.HasPrefix(line, "data: "):
			fragments = append(fragments, strings.TrimPrefix(line, "data: "))
		}
	}
	require.True(t, sawDone, "stream must end with a done event")

	// The concatenated fragments equal the blocking reply, minus the done
	// event's empty data line.
	require.Equal(t, "echo reply", strings.Join(fragments[:len(fragments)-1], ""))

	// The streamed turn is committed to history.
	histResp := doJSON(t, http.MethodGet, srv.URL+"/v1/sessions/"+sessionID+"/messages", token, nil)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	history := decodeBody[map[string]any](t, histResp)
	messages, _ := history["messages"].([]any)
	require.Len(t, messages, 2)
}

func TestChatCookieTransport(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, assistanthttp.TransportCookie)
	token := registerAndLogin(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/chat", token, map[string]string{
		"message": "hello",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	sessionID, _ := body["session_id"].(string)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "chat must set the session cookie")
	require.Equal(t, sessionID, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, 3600, cookie.MaxAge)

	// Replaying the cookie continues the same session.
	raw, err := json.Marshal(map[string]string{"message": "again"})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/chat", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(cookie)

	again, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	reply := decodeBody[map[string]any](t, again)
	require.Equal(t, sessionID, reply["session_id"])
}

func TestChatAuthTransport(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, assistanthttp.TransportAuth)
	token := registerAndLogin(t, srv)

	// Two chat calls without any session id land in the same per-user
	// conversation.
	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodPost, srv.URL+"/v1/chat", token, map[string]string{
			"message": "hello",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		require.Equal(t, "alice@example.com", body["session_id"])
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/v1/sessions/alice@example.com/messages", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeBody[map[string]any](t, resp)
	messages, _ := history["messages"].([]any)
	require.Len(t, messages, 4)
}

func TestSessionIsolationBetweenUsers(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, assistanthttp.TransportBody)
	token := registerAndLogin(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/v1/chat", token, map[string]string{
		"message": "my secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	sessionID, _ := body["session_id"].(string)

	// A second account cannot read or continue the first user's session.
	resp = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/register", "", map[string]string{
		"username": "mallory",
		"email":    "mallory@example.com",
		"password": "s3cret-pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "", map[string]string{
		"email":    "mallory@example.com",
		"password": "s3cret-pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody[map[string]any](t, resp)
	malloryToken, _ := login["access_token"].(string)

	resp = doJSON(t, http.MethodGet, srv.URL+"/v1/sessions/"+sessionID+"/messages", malloryToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/v1/chat", malloryToken, map[string]string{
		"message":    "peek",
		"session_id": sessionID,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
