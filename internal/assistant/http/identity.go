package http

import (
	"fmt"
	"net/http"

	"github.com/littledragon/assistant/pkg/httpx"
)

// TransportMode names the ways a session id can travel between client and
// server. One mode is chosen at startup and applies to all chat endpoints.
type TransportMode string

const (
	// TransportCookie carries the session id in an http-only cookie.
	TransportCookie TransportMode = "cookie"
	// TransportBody carries the session id in the request/response JSON.
	TransportBody TransportMode = "body"
	// TransportAuth derives the session id from the authenticated subject,
	// giving each user one implicit conversation.
	TransportAuth TransportMode = "auth"
)

const sessionCookieName = "session_id"

// SessionTransport resolves the session id for a chat request and attaches
// a newly minted id to the response.
type SessionTransport interface {
	// Resolve extracts the session id. Empty means "create a new session".
	// derived reports whether the id comes from the caller's identity and
	// should be created on first use rather than rejected.
	Resolve(r *http.Request, bodySessionID string) (id string, derived bool)

	// Attach advertises the session id on the response. Must be called
	// before the body is written.
	Attach(w http.ResponseWriter, sessionID string)
}

// NewSessionTransport builds the transport for a mode.
func NewSessionTransport(mode TransportMode, cookieMaxAge int) (SessionTransport, error) {
	switch mode {
	case TransportCookie, "":
		return &cookieTransport{maxAge: cookieMaxAge}, nil
	case TransportBody:
		return bodyTransport{}, nil
	case TransportAuth:
		return authTransport{}, nil
	default:
		return nil, fmt.Errorf("unknown session transport %q", mode)
	}
}

type cookieTransport struct {
	maxAge int
}

func (c *cookieTransport) Resolve(r *http.Request, _ string) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	return cookie.Value, false
}

func (c *cookieTransport) Attach(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   c.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type bodyTransport struct{}

func (bodyTransport) Resolve(_ *http.Request, bodySessionID string) (string, bool) {
	return bodySessionID, false
}

func (bodyTransport) Attach(http.ResponseWriter, string) {}

type authTransport struct{}

func (authTransport) Resolve(r *http.Request, _ string) (string, bool) {
	subject, _ := httpx.SubjectFromContext(r.Context())
	return subject, true
}

func (authTransport) Attach(http.ResponseWriter, string) {}
