package game

import (
	"math"
	"testing"

	"hitscan-arena/internal/weapon"
)

func v(x, y, z float64) weapon.Vec3 { return weapon.Vec3{X: x, Y: y, Z: z} }

// TestHitboxIntersect tests the closed-form ray tests
func TestHitboxIntersect(t *testing.T) {
	sphere := Hitbox{Type: HitboxSphere, Center: v(0, 0, 10), Radius: 2}
	box := Hitbox{Type: HitboxBox, Min: v(-1, -1, 5), Max: v(1, 1, 6)}

	tests := []struct {
		name       string
		hitbox     Hitbox
		origin     weapon.Vec3
		dir        weapon.Vec3
		wantHit    bool
		wantDist   float64
		wantNormal weapon.Vec3
	}{
		{"sphere head on", sphere, v(0, 0, 0), v(0, 0, 1), true, 8, v(0, 0, -1)},
		{"sphere behind", sphere, v(0, 0, 0), v(0, 0, -1), false, 0, weapon.Vec3{}},
		{"sphere grazing miss", sphere, v(3, 0, 0), v(0, 0, 1), false, 0, weapon.Vec3{}},
		{"inside sphere", sphere, v(0, 0, 10), v(1, 0, 0), true, 0, v(-1, 0, 0)},
		{"box front face", box, v(0, 0, 0), v(0, 0, 1), true, 5, v(0, 0, -1)},
		{"box back face", box, v(0, 0, 10), v(0, 0, -1), true, 4, v(0, 0, 1)},
		{"box side face", box, v(-5, 0, 5.5), v(1, 0, 0), true, 4, v(-1, 0, 0)},
		{"box parallel outside", box, v(2, 0, 0), v(0, 0, 1), false, 0, weapon.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, normal, ok := tt.hitbox.Intersect(tt.origin, tt.dir)
			if ok != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(dist-tt.wantDist) > 1e-9 {
				t.Errorf("Expected distance %v, got %v", tt.wantDist, dist)
			}
			if normal.Sub(tt.wantNormal).Len() > 1e-9 {
				t.Errorf("Expected normal %+v, got %+v", tt.wantNormal, normal)
			}
		})
	}
}

// TestWorldNearestHit tests that the closest surface wins
func TestWorldNearestHit(t *testing.T) {
	w := NewWorld(100, 100, 10, 16)
	near := NewTarget("near", TargetOptions{Position: v(50, 1, 30), Radius: 1})
	far := NewTarget("far", TargetOptions{Position: v(50, 1, 60), Radius: 1})
	w.AddTarget(far)
	w.AddTarget(near)
	w.Rebuild(nil)

	hit, ok := w.CastRay(v(50, 1, 10), v(0, 0, 1), 100)
	if !ok || hit.EntityID != "near" {
		t.Fatalf("Expected the near target, got %+v, %v", hit, ok)
	}
	if hit.Distance != 19 || hit.Point != v(50, 1, 29) {
		t.Errorf("Unexpected hit %+v", hit)
	}

	// Out of range
	if _, ok := w.CastRay(v(50, 1, 10), v(0, 0, 1), 18); ok {
		t.Error("Target beyond maxRange should not be hit")
	}

	// Zero range only hits from inside
	if _, ok := w.CastRay(v(50, 1, 10), v(0, 0, 1), 0); ok {
		t.Error("Zero range should miss")
	}

	// Unnormalized direction is accepted
	if hit, ok := w.CastRay(v(50, 1, 10), v(0, 0, 7), 100); !ok || hit.Distance != 19 {
		t.Errorf("Direction should be normalized, got %+v", hit)
	}
}

// TestWorldOriginOutsideGrid tests rays fired from outside the indexed area
func TestWorldOriginOutsideGrid(t *testing.T) {
	w := NewWorld(100, 100, 10, 16)
	w.AddTarget(NewTarget("t", TargetOptions{Position: v(50, 0, 5), Radius: 1}))
	w.Rebuild(nil)

	hit, ok := w.CastRay(v(50, 0, -20), v(0, 0, 1), 100)
	if !ok || hit.EntityID != "t" {
		t.Errorf("Expected hit from outside the grid, got %+v, %v", hit, ok)
	}
}

// TestWorldDamageable tests capability resolution
func TestWorldDamageable(t *testing.T) {
	w := NewWorld(100, 100, 10, 16)
	target := NewTarget("t", TargetOptions{HP: 15})
	w.AddTarget(target)
	w.AddObstacle(NewObstacle("wall", v(0, 0, 0), v(1, 1, 1)))

	d, ok := w.Damageable("t")
	if !ok {
		t.Fatal("Target should be damageable")
	}
	d.ApplyDamage("t", 10)
	if target.HP != 5 || target.Destroyed {
		t.Errorf("Expected 5 HP left, got %+v", target)
	}
	d.ApplyDamage("t", 10)
	if target.HP != 0 || !target.Destroyed {
		t.Errorf("Target should be destroyed at 0 HP, got %+v", target)
	}

	if _, ok := w.Damageable("t"); ok {
		t.Error("Destroyed targets should not resolve")
	}
	if _, ok := w.Damageable("wall"); ok {
		t.Error("Obstacles have no damage capability")
	}
	if _, ok := w.Damageable("ghost"); ok {
		t.Error("Unknown IDs should not resolve")
	}
}

// TestTargetDefaults tests zero-value options
func TestTargetDefaults(t *testing.T) {
	target := NewTarget("t1", TargetOptions{})
	if target.Radius != DefaultTargetRadius || target.HP != DefaultTargetHP || target.Name != "t1" {
		t.Errorf("Unexpected defaults %+v", target)
	}

	target.ApplyDamage("other", 50)
	if target.HP != DefaultTargetHP {
		t.Error("Damage addressed to another entity should be ignored")
	}

	target.ApplyDamage("t1", 0)
	if target.HP != DefaultTargetHP || target.Hits != 1 {
		t.Errorf("Zero damage still counts as a hit, got %+v", target)
	}
}
