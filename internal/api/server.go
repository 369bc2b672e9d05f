package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"hitscan-arena/internal/hud"

	"github.com/go-chi/chi/v5"
)

// ServerOptions configures NewServer
type ServerOptions struct {
	HUD         *hud.Renderer
	ShooterAuth bool     // issue and require shooter control tokens
	CORSOrigins []string // nil = localhost only
}

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with WebSocket hub for real-time updates.
type Server struct {
	engine      EngineInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *KeyedLimiter
	tokens      *ShooterTokens
	httpServer  *http.Server
}

// NewServer creates a new API server.
//
// Background workers do NOT start until Start() is called, so the server
// can be constructed in tests and driven through Router().
func NewServer(engine EngineInterface, opts ServerOptions) *Server {
	s := &Server{
		engine:      engine,
		rateLimiter: NewKeyedLimiter(DefaultRateLimitConfig),
	}
	if opts.ShooterAuth {
		s.tokens = NewShooterTokens()
	}
	s.wsHub = NewWebSocketHub(engine, s.tokens)

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		HUD:         opts.HUD,
		Tokens:      s.tokens,
		RateLimiter: s.rateLimiter,
		CORSOrigins: opts.CORSOrigins,
	})

	// WebSocket routes need the wsHub instance
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// Hub returns the WebSocket hub so main can route engine callbacks and
// audio frames to it
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Start begins the HTTP server AND starts background workers.
// It blocks until the server stops; http.ErrServerClosed is not an error.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("🎯 WebSocket: ws://localhost%s/ws (add ?audio=1 for cue audio)", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of the listener and background workers.
func (s *Server) Stop(ctx context.Context) error {
	s.wsHub.Stop()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
