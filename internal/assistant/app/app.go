// Package app assembles the assistant service: configuration, storage,
// providers, HTTP surface and lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	assistanthttp "github.com/littledragon/assistant/internal/assistant/http"
	"github.com/littledragon/assistant/internal/assistant/memory"
	"github.com/littledragon/assistant/internal/assistant/provider"
	"github.com/littledragon/assistant/internal/assistant/service"
	"github.com/littledragon/assistant/internal/assistant/session"
	"github.com/littledragon/assistant/internal/assistant/store"
	"github.com/littledragon/assistant/internal/assistant/store/drivers/sqlite"
	"github.com/littledragon/assistant/internal/assistant/weather"
	"github.com/littledragon/assistant/pkg/httpx"
	"github.com/littledragon/assistant/pkg/jwtx"
	"github.com/littledragon/assistant/pkg/slogx"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application owns every long-lived component of the service.
type Application struct {
	cfg    Config
	logger *slog.Logger

	store        store.Store
	sessions     session.Store
	recall       *memory.Recall
	server       *http.Server
	housekeeping *service.HousekeepingService
}

// New wires the application from configuration. Nothing is served yet; call
// Run to start.
func New(ctx context.Context, cfg Config) (*Application, error) {
	logger := slogx.New(slogx.Config{
		Service: "assistant",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	st, err := sqlite.Open(cfg.DatabaseFile)
	if err != nil {
		return nil, err
	}
	if err := st.ApplyMigrations(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	signer, err := jwtx.NewHS256([]byte(cfg.SessionSecret), cfg.TokenIssuer)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	sessions, err := session.NewStore(ctx, session.Config{
		Type:          cfg.SessionStore,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		TTL:           cfg.SessionTTL,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	apiKey := cfg.OpenAIAPIKey
	if cfg.Provider == provider.BackendAnthropic {
		apiKey = cfg.AnthropicAPIKey
	}
	completer, err := provider.New(cfg.Provider, apiKey, provider.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxCompletionTokens,
	})
	if err != nil {
		_ = st.Close()
		_ = sessions.Close()
		return nil, err
	}

	app := &Application{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		sessions: sessions,
	}

	chat := &service.ChatService{
		Sessions:     sessions,
		Provider:     completer,
		ContextLimit: cfg.ContextLimit,
	}

	if cfg.ContextStrategy == "recall" {
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("recall context strategy needs OPENAI_API_KEY for embeddings")
		}
		recall, err := memory.NewRecall(ctx, memory.Config{
			Host:       cfg.QdrantHost,
			Port:       cfg.QdrantPort,
			APIKey:     cfg.QdrantAPIKey,
			UseTLS:     cfg.QdrantUseTLS,
			Collection: cfg.QdrantCollection,
		}, memory.NewOpenAIEmbedder(cfg.OpenAIAPIKey))
		if err != nil {
			_ = st.Close()
			_ = sessions.Close()
			return nil, err
		}
		app.recall = recall
		chat.Memory = recall
	}

	transport, err := assistanthttp.NewSessionTransport(cfg.SessionTransport, cfg.CookieMaxAge)
	if err != nil {
		return nil, err
	}

	router := &assistanthttp.Router{
		Users: &service.UserService{Store: st},
		Tokens: &service.TokenService{
			Signer:    signer,
			Store:     st,
			Issuer:    cfg.TokenIssuer,
			AccessTTL: cfg.AccessTokenTTL,
		},
		Chat:      chat,
		Store:     st,
		Transport: transport,
	}
	if cfg.OpenWeatherAPIKey != "" {
		router.Weather = weather.NewClient(cfg.OpenWeatherAPIKey)
	}
	router.ApplyRoutes()

	app.housekeeping = &service.HousekeepingService{
		Store:        st,
		Interval:     cfg.HousekeepingInterval,
		PruneRevoked: cfg.PruneRevokedTokens,
	}

	app.server = &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           httpx.Chain(router, slogx.HTTPMiddleware(logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// Run serves until the context is cancelled or a termination signal arrives,
// then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hkCtx := slogx.WithContext(ctx, a.logger)
	go a.housekeeping.Run(hkCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Shutdown drains in-flight requests and closes every backend.
func (a *Application) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)

	if a.recall != nil {
		if cerr := a.recall.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if cerr := a.sessions.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := a.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
