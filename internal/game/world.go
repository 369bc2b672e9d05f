package game

import (
	"sort"

	"hitscan-arena/internal/game/spatial"
	"hitscan-arena/internal/weapon"
)

// Shooter bodies are spheres so they can block and absorb shots.
const (
	ShooterBodyRadius = 0.6
	ShooterBodyCenter = 0.9 // height above the shooter's feet
)

// collider is one entry of the broad-phase index.
type collider struct {
	id     string
	hitbox Hitbox
}

// World answers ray queries for every weapon in the arena and resolves
// struck IDs to their damage capability.
//
// Only targets are damageable. Obstacles and shooter bodies block rays
// but resolve to no capability.
type World struct {
	width, depth float64

	targets   map[string]*Target
	obstacles map[string]*Obstacle

	grid      *spatial.Grid
	colliders []collider // index = grid entity ID
}

// NewWorld creates an empty world covering [0,width] x [0,depth] on the ground plane.
func NewWorld(width, depth, cellSize float64, maxEntities int) *World {
	return &World{
		width:     width,
		depth:     depth,
		targets:   make(map[string]*Target),
		obstacles: make(map[string]*Obstacle),
		grid:      spatial.NewGrid(width, depth, cellSize, maxEntities),
		colliders: make([]collider, 0, maxEntities),
	}
}

// Rebuild refreshes the broad-phase index. Called once per tick before any
// weapon fires. Destroyed targets are not indexed.
func (w *World) Rebuild(shooters []*Shooter) {
	w.grid.Clear()
	w.colliders = w.colliders[:0]

	for _, id := range sortedKeys(w.obstacles) {
		o := w.obstacles[id]
		w.index(o.ID, Hitbox{Type: HitboxBox, Min: o.Min, Max: o.Max})
	}
	for _, id := range sortedKeys(w.targets) {
		t := w.targets[id]
		if t.Destroyed {
			continue
		}
		w.index(t.ID, Hitbox{Type: HitboxSphere, Center: t.Center, Radius: t.Radius})
	}
	for _, s := range shooters {
		w.index(s.ID, s.Hitbox())
	}
}

func (w *World) index(id string, h Hitbox) {
	idx := uint32(len(w.colliders))
	w.colliders = append(w.colliders, collider{id: id, hitbox: h})
	minX, minZ, maxX, maxZ := h.Bounds()
	w.grid.InsertBounds(idx, minX, minZ, maxX, maxZ)
}

// CastRay returns the nearest surface along the ray within maxRange.
func (w *World) CastRay(origin, direction weapon.Vec3, maxRange float64) (weapon.HitResult, bool) {
	return w.castRay(origin, direction, maxRange, "")
}

func (w *World) castRay(origin, dir weapon.Vec3, maxRange float64, exclude string) (weapon.HitResult, bool) {
	dir = dir.Normalize()
	if dir == (weapon.Vec3{}) || maxRange < 0 {
		return weapon.HitResult{}, false
	}

	var candidates []uint32
	if w.inBounds(origin) {
		candidates = w.grid.QueryRay(origin.X, origin.Z, dir.X, dir.Z, maxRange)
	} else {
		// The grid clamps to its edges; fall back to a full scan.
		candidates = make([]uint32, len(w.colliders))
		for i := range candidates {
			candidates[i] = uint32(i)
		}
	}

	var best weapon.HitResult
	found := false

	for _, idx := range candidates {
		c := w.colliders[idx]
		if c.id == exclude {
			continue
		}
		// A target killed earlier this tick is still indexed until the next Rebuild
		if t, ok := w.targets[c.id]; ok && t.Destroyed {
			continue
		}
		dist, normal, ok := c.hitbox.Intersect(origin, dir)
		if !ok || dist > maxRange {
			continue
		}
		// Nearest wins; equal distances break ties by ID for determinism
		if found && (dist > best.Distance || (dist == best.Distance && c.id > best.EntityID)) {
			continue
		}
		best = weapon.HitResult{
			Point:    origin.Add(dir.Scale(dist)),
			Normal:   normal,
			EntityID: c.id,
			Distance: dist,
		}
		found = true
	}

	return best, found
}

func (w *World) inBounds(p weapon.Vec3) bool {
	return p.X >= 0 && p.X <= w.width && p.Z >= 0 && p.Z <= w.depth
}

// Damageable resolves live targets only.
func (w *World) Damageable(entityID string) (weapon.Damageable, bool) {
	t, ok := w.targets[entityID]
	if !ok || t.Destroyed {
		return nil, false
	}
	return t, true
}

// For returns a ray provider that ignores the given shooter's own body.
func (w *World) For(shooterID string) weapon.HitscanProvider {
	return shooterRays{world: w, self: shooterID}
}

type shooterRays struct {
	world *World
	self  string
}

func (r shooterRays) CastRay(origin, direction weapon.Vec3, maxRange float64) (weapon.HitResult, bool) {
	return r.world.castRay(origin, direction, maxRange, r.self)
}

// AddTarget registers a target. The caller guarantees a unique ID.
func (w *World) AddTarget(t *Target) { w.targets[t.ID] = t }

// RemoveTarget deletes a target, reporting whether it existed.
func (w *World) RemoveTarget(id string) bool {
	if _, ok := w.targets[id]; !ok {
		return false
	}
	delete(w.targets, id)
	return true
}

// AddObstacle registers an obstacle.
func (w *World) AddObstacle(o *Obstacle) { w.obstacles[o.ID] = o }

// GetTarget returns a target by ID.
func (w *World) GetTarget(id string) *Target { return w.targets[id] }

// TargetCount returns the number of registered targets, destroyed or not.
func (w *World) TargetCount() int { return len(w.targets) }

// ObstacleCount returns the number of registered obstacles.
func (w *World) ObstacleCount() int { return len(w.obstacles) }

// Targets returns targets sorted by ID.
func (w *World) Targets() []*Target {
	out := make([]*Target, 0, len(w.targets))
	for _, id := range sortedKeys(w.targets) {
		out = append(out, w.targets[id])
	}
	return out
}

// Obstacles returns obstacles sorted by ID.
func (w *World) Obstacles() []*Obstacle {
	out := make([]*Obstacle, 0, len(w.obstacles))
	for _, id := range sortedKeys(w.obstacles) {
		out = append(out, w.obstacles[id])
	}
	return out
}

// GetGridStats returns broad-phase statistics for profiling.
func (w *World) GetGridStats() spatial.GridStats {
	return w.grid.Stats()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	_ weapon.HitscanProvider    = (*World)(nil)
	_ weapon.DamageableResolver = (*World)(nil)
)
