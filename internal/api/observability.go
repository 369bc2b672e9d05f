package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"time"

	"hitscan-arena/internal/game"
	"hitscan-arena/internal/weapon"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (no per-shooter labels to prevent DoS)
var (
	// Engine metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_tick_duration_seconds",
		Help:    "Time spent in an arena tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
	})

	shooterCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_shooters",
		Help: "Current number of shooters",
	})

	effectCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_effects",
		Help: "Live muzzle flashes and impact markers",
	})

	shotsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_shots_fired_total",
		Help: "Shots fired by result",
	}, []string{"result"}) // Bounded: "hit", "miss"

	damageApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_damage_applied_total",
		Help: "Damage applied to targets",
	})

	reloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_reloads_total",
		Help: "Reload transitions",
	}, []string{"phase"}) // Bounded: "started", "finished"

	targetsDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_targets_destroyed_total",
		Help: "Targets brought to zero HP",
	})

	clockViolations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_clock_violations_total",
		Help: "Weapon steps that saw time go backwards",
	})

	// Event log metrics
	eventLogTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "event_log_events",
		Help: "Total events logged",
	})

	eventLogDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "event_log_dropped",
		Help: "Events dropped due to rate limiting or buffer full",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter, origin or token check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "token", "command_rate", "ws_total_limit", "ws_ip_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "WebSocket messages by direction",
	}, []string{"direction"}) // Bounded: "out", "in", "audio"
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // MUST be localhost in production
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060", // Localhost only - NEVER expose externally
	}
}

// StartDebugServer starts the internal observability server
// CRITICAL: This MUST bind to localhost only to prevent pprof-based DoS
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if !isLoopbackAddr(cfg.ListenAddr) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		log.Println("⚠️ Debug server forced to localhost for security")
		cfg.ListenAddr = "127.0.0.1:6060"
	}

	handler := debugHandler(cfg)

	go func() {
		log.Printf("📊 Debug server starting on %s", cfg.ListenAddr)
		log.Printf("   - pprof:   http://%s/debug/pprof/", cfg.ListenAddr)
		log.Printf("   - metrics: http://%s/metrics", cfg.ListenAddr)

		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

func debugHandler(cfg ObservabilityConfig) http.Handler {
	mux := http.NewServeMux()

	// pprof endpoints for profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.BasicAuthUser != "" {
		return basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}
	return mux
}

func isLoopbackAddr(addr string) bool {
	for _, prefix := range []string{"127.0.0.1:", "localhost:", "[::1]:"} {
		if len(addr) > len(prefix) && addr[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records latency and status per route pattern
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, endpoint, status, time.Since(start))
	})
}

// MetricsCallbacks returns engine callbacks that feed the arena metrics
func MetricsCallbacks() game.Callbacks {
	return game.Callbacks{
		OnShot: func(_ game.ShooterSnapshot, shot weapon.ShotResult) {
			if shot.Hit {
				shotsFired.WithLabelValues("hit").Inc()
			} else {
				shotsFired.WithLabelValues("miss").Inc()
			}
			if shot.Applied {
				damageApplied.Add(shot.Damage)
			}
		},
		OnReload: func(_ game.ShooterSnapshot, outcome weapon.Outcome) {
			if outcome == weapon.OutcomeReloadStarted {
				reloads.WithLabelValues("started").Inc()
			} else {
				reloads.WithLabelValues("finished").Inc()
			}
		},
		OnDestroyed: func(game.ShooterSnapshot, game.TargetSnapshot) {
			targetsDestroyed.Inc()
		},
		OnClockViolation: func(string) {
			clockViolations.Inc()
		},
		OnTick: func(_ uint64, took time.Duration) {
			RecordTick(took)
		},
	}
}

// ChainCallbacks returns callbacks that invoke each set in order
func ChainCallbacks(sets ...game.Callbacks) game.Callbacks {
	var out game.Callbacks
	for _, cb := range sets {
		if cb.OnJoin != nil {
			prev := out.OnJoin
			out.OnJoin = func(s game.ShooterSnapshot) {
				if prev != nil {
					prev(s)
				}
				cb.OnJoin(s)
			}
		}
		if cb.OnShot != nil {
			prev := out.OnShot
			out.OnShot = func(s game.ShooterSnapshot, shot weapon.ShotResult) {
				if prev != nil {
					prev(s, shot)
				}
				cb.OnShot(s, shot)
			}
		}
		if cb.OnReload != nil {
			prev := out.OnReload
			out.OnReload = func(s game.ShooterSnapshot, o weapon.Outcome) {
				if prev != nil {
					prev(s, o)
				}
				cb.OnReload(s, o)
			}
		}
		if cb.OnDestroyed != nil {
			prev := out.OnDestroyed
			out.OnDestroyed = func(s game.ShooterSnapshot, t game.TargetSnapshot) {
				if prev != nil {
					prev(s, t)
				}
				cb.OnDestroyed(s, t)
			}
		}
		if cb.OnClockViolation != nil {
			prev := out.OnClockViolation
			out.OnClockViolation = func(id string) {
				if prev != nil {
					prev(id)
				}
				cb.OnClockViolation(id)
			}
		}
		if cb.OnTick != nil {
			prev := out.OnTick
			out.OnTick = func(tick uint64, took time.Duration) {
				if prev != nil {
					prev(tick, took)
				}
				cb.OnTick(tick, took)
			}
		}
	}
	return out
}

// RecordTick records tick timing for metrics
func RecordTick(duration time.Duration) {
	tickDuration.Observe(duration.Seconds())
}

// UpdateArenaGauges updates the gauges read from a snapshot
func UpdateArenaGauges(snap *game.ArenaSnapshot) {
	shooterCount.Set(float64(snap.ShooterCount))
	effectCount.Set(float64(len(snap.Effects)))
}

// UpdateEventLogStats mirrors the event log counters
func UpdateEventLogStats(stats game.EventLogStats) {
	eventLogTotal.Set(float64(stats.Total))
	eventLogDropped.Set(float64(stats.Dropped))
}

// RecordConnectionRejected increments the rejection counter
// reason must be one of: "rate_limit", "origin", "token", "command_rate", "ws_total_limit", "ws_ip_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments the WebSocket message counter
func IncrementWSMessages(direction string) {
	wsMessagesTotal.WithLabelValues(direction).Inc()
}
