package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"hitscan-arena/internal/game"
	"hitscan-arena/internal/hud"
	"hitscan-arena/internal/weapon"

	"github.com/go-chi/chi/v5"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.GetState())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	// Lock-free snapshot for the counts, engine counters for totals
	snapshot := h.engine.GetSnapshot()
	writeJSON(w, map[string]interface{}{
		"tick":         snapshot.TickNumber,
		"now":          snapshot.Now,
		"shooterCount": snapshot.ShooterCount,
		"liveTargets":  snapshot.LiveTargets,
		"engine":       h.engine.GetStats(),
		"eventLog":     h.engine.GetEventLogStats(),
	})
}

func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, 100)
	}
	writeJSON(w, h.engine.GetLeaderboard(limit))
}

func (h *routerHandlers) handleGetPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.GetArmory().GetAllWeapons())
}

type joinResponse struct {
	game.ShooterSnapshot
	Token string `json:"token,omitempty"`
}

func (h *routerHandlers) handleShooterJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string       `json:"name"`
		Preset   string       `json:"preset"`
		Color    string       `json:"color"`
		Position *weapon.Vec3 `json:"position"`
		Yaw      float64      `json:"yaw"`
		Pitch    float64      `json:"pitch"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(req.Name) > 64 {
		writeError(w, "Name too long", http.StatusBadRequest)
		return
	}

	shooter, err := h.engine.AddShooter(req.Name, game.ShooterOptions{
		WeaponID: req.Preset,
		Color:    req.Color,
		Position: req.Position,
		Yaw:      req.Yaw,
		Pitch:    req.Pitch,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := joinResponse{ShooterSnapshot: shooter}
	if h.tokens != nil {
		resp.Token = h.tokens.Issue(shooter.ID)
	}
	writeJSONStatus(w, http.StatusCreated, resp)
}

func (h *routerHandlers) handleGetShooter(w http.ResponseWriter, r *http.Request) {
	shooter, ok := h.engine.GetShooter(shooterIDParam(r))
	if !ok {
		writeError(w, game.ErrShooterNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, shooter)
}

func (h *routerHandlers) handleShooterLeave(w http.ResponseWriter, r *http.Request) {
	if !h.engine.RemoveShooter(shooterIDParam(r)) {
		writeError(w, game.ErrShooterNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleShooterInput(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fire   bool `json:"fire"`
		Reload bool `json:"reload"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.engine.SetInput(shooterIDParam(r), req.Fire, req.Reload); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleShooterAim(w http.ResponseWriter, r *http.Request) {
	// Either view angles or a world point to look at
	var req struct {
		Yaw    float64      `json:"yaw"`
		Pitch  float64      `json:"pitch"`
		Target *weapon.Vec3 `json:"target"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	id := shooterIDParam(r)
	var err error
	if req.Target != nil {
		err = h.engine.AimAt(id, *req.Target)
	} else {
		err = h.engine.Aim(id, req.Yaw, req.Pitch)
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}

	shooter, _ := h.engine.GetShooter(id)
	writeJSON(w, map[string]float64{"yaw": shooter.Yaw, "pitch": shooter.Pitch})
}

func (h *routerHandlers) handleShooterHUD(w http.ResponseWriter, r *http.Request) {
	shooter, ok := h.engine.GetShooter(shooterIDParam(r))
	if !ok {
		writeError(w, game.ErrShooterNotFound.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-HUD-Label", hud.Label(shooter))
	if err := h.hud.EncodePNG(w, shooter); err != nil {
		log.Printf("❌ HUD encode failed: %v", err)
	}
}

func (h *routerHandlers) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		X            float64 `json:"x"`
		Y            float64 `json:"y"`
		Z            float64 `json:"z"`
		Radius       float64 `json:"radius"`
		HP           float64 `json:"hp"`
		RespawnDelay float64 `json:"respawnDelay"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Radius < 0 || req.HP < 0 || req.RespawnDelay < 0 {
		writeError(w, "radius, hp and respawnDelay must not be negative", http.StatusBadRequest)
		return
	}

	target, err := h.engine.AddTarget(game.TargetOptions{
		Name:         req.Name,
		Position:     weapon.Vec3{X: req.X, Y: req.Y, Z: req.Z},
		Radius:       req.Radius,
		HP:           req.HP,
		RespawnDelay: req.RespawnDelay,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, target)
}

func (h *routerHandlers) handleGetTarget(w http.ResponseWriter, r *http.Request) {
	target, ok := h.engine.GetTarget(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, game.ErrTargetNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, target)
}

func (h *routerHandlers) handleRemoveTarget(w http.ResponseWriter, r *http.Request) {
	if !h.engine.RemoveTarget(chi.URLParam(r, "id")) {
		writeError(w, game.ErrTargetNotFound.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleAddObstacle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Min weapon.Vec3 `json:"min"`
		Max weapon.Vec3 `json:"max"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	obstacle, err := h.engine.AddObstacle(req.Min, req.Max)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, obstacle)
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeEngineError maps engine sentinel errors to HTTP status codes
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrShooterNotFound), errors.Is(err, game.ErrTargetNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, game.ErrUnknownWeapon):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, game.ErrLimitReached):
		writeError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		writeError(w, err.Error(), http.StatusInternalServerError)
	}
}
