package api

import (
	"net/http"

	"hitscan-arena/internal/game"
	"hitscan-arena/internal/hud"
	"hitscan-arena/internal/weapon"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the engine methods used by the API.
// Keep this minimal - only include methods the API layer actually calls.
type EngineInterface interface {
	// GetState returns a fresh copy of the arena state
	GetState() game.ArenaSnapshot
	// GetSnapshot returns the latest lock-free immutable snapshot (preferred for polling)
	GetSnapshot() *game.ArenaSnapshot
	GetStats() game.EngineStats
	GetEventLogStats() game.EventLogStats
	GetLeaderboard(n int) []game.LeaderboardEntry
	GetArmory() *game.Armory

	AddShooter(name string, opts game.ShooterOptions) (game.ShooterSnapshot, error)
	RemoveShooter(id string) bool
	GetShooter(id string) (game.ShooterSnapshot, bool)
	SetInput(id string, fire, reload bool) error
	Aim(id string, yaw, pitch float64) error
	AimAt(id string, p weapon.Vec3) error

	AddTarget(opts game.TargetOptions) (game.TargetSnapshot, error)
	RemoveTarget(id string) bool
	GetTarget(id string) (game.TargetSnapshot, bool)
	AddObstacle(a, b weapon.Vec3) (game.ObstacleSnapshot, error)
}

var _ EngineInterface = (*game.Engine)(nil)

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
//	cfg := api.RouterConfig{
//	    Engine: engine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	ts := httptest.NewServer(api.NewRouter(cfg))
type RouterConfig struct {
	// Engine is the arena engine (required)
	Engine EngineInterface

	// HUD renders /hud.png. If nil, a default renderer is created.
	HUD *hud.Renderer

	// Tokens enables shooter control tokens when non-nil. Input, aim and
	// leave then require the token returned by POST /api/shooters.
	Tokens *ShooterTokens

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *KeyedLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, only localhost is allowed.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler dependencies for the router
type routerHandlers struct {
	engine EngineInterface
	hud    *hud.Renderer
	tokens *ShooterTokens
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// It has no side effects beyond the rate limiter's cleanup goroutine when
// one is created here, so it is safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewKeyedLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		engine: cfg.Engine,
		hud:    cfg.HUD,
		tokens: cfg.Tokens,
	}
	if h.hud == nil {
		h.hud = hud.NewRenderer(hud.DefaultConfig())
	}

	r.Route("/api", func(r chi.Router) {
		// Arena state
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/leaderboard", h.handleGetLeaderboard)
		r.Get("/presets", h.handleGetPresets)

		// Shooters
		r.Post("/shooters", h.handleShooterJoin)
		r.Route("/shooters/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetShooter)
			r.Get("/hud.png", h.handleShooterHUD)

			// Control routes need the shooter's token when auth is on
			r.Group(func(r chi.Router) {
				if h.tokens != nil {
					r.Use(h.tokens.RequireShooter(shooterIDParam))
				}
				r.Delete("/", h.handleShooterLeave)
				r.Post("/input", h.handleShooterInput)
				r.Post("/aim", h.handleShooterAim)
			})
		})

		// World setup
		r.Post("/targets", h.handleAddTarget)
		r.Get("/targets/{id}", h.handleGetTarget)
		r.Delete("/targets/{id}", h.handleRemoveTarget)
		r.Post("/obstacles", h.handleAddObstacle)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	return r
}

func shooterIDParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}
