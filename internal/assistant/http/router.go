package http

import (
	"net/http"

	"github.com/littledragon/assistant/internal/assistant/service"
	"github.com/littledragon/assistant/internal/assistant/store"
	"github.com/littledragon/assistant/internal/assistant/weather"
	"github.com/littledragon/assistant/pkg/httpx"
)

// Router owns the API surface and the service handles behind it.
type Router struct {
	Users     *service.UserService
	Tokens    *service.TokenService
	Chat      *service.ChatService
	Weather   *weather.Client
	Store     store.Store
	Transport SessionTransport

	mux *http.ServeMux
}

// ApplyRoutes registers every endpoint on an internal mux. Credential
// endpoints sit behind the strict limiter, chat behind the moderate one.
func (rt *Router) ApplyRoutes() {
	mux := http.NewServeMux()

	authn := httpx.RequireAuth(rt.Tokens)
	strictIP := httpx.RateLimitByIP(httpx.StrictRateLimit)
	moderateUser := httpx.RateLimitBySubject(httpx.ModerateRateLimit)
	lenientUser := httpx.RateLimitBySubject(httpx.LenientRateLimit)

	mux.Handle("POST /v1/auth/register", httpx.Chain(rt.handleRegister(), strictIP))
	mux.Handle("POST /v1/auth/login", httpx.Chain(rt.handleLogin(), strictIP))
	mux.Handle("POST /v1/auth/logout", httpx.Chain(rt.handleLogout(), authn, lenientUser))
	mux.Handle("GET /v1/auth/me", httpx.Chain(rt.handleMe(), authn, lenientUser))
	mux.Handle("POST /v1/auth/user-by-email", httpx.Chain(rt.handleUserByEmail(), authn, lenientUser))

	mux.Handle("POST /v1/chat", httpx.Chain(rt.handleChat(), authn, moderateUser))
	mux.Handle("POST /v1/chat/stream", httpx.Chain(rt.handleChatStream(), authn, moderateUser))
	mux.Handle("GET /v1/sessions/{id}/messages", httpx.Chain(rt.handleSessionMessages(), authn, lenientUser))

	mux.Handle("GET /v1/weather", httpx.Chain(rt.handleWeather(), authn, lenientUser))

	mux.Handle("GET /livez", rt.handleLivez())
	mux.Handle("GET /readyz", rt.handleReadyz())

	rt.mux = mux
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}
