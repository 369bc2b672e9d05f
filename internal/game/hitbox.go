package game

import (
	"math"

	"hitscan-arena/internal/weapon"
)

// HitboxType defines the collision shape an entity presents to rays.
type HitboxType int

const (
	HitboxSphere HitboxType = iota // targets and shooter bodies
	HitboxBox                      // axis-aligned obstacles
)

// Hitbox is a collision shape tested by the hitscan world.
// All checks are O(1) closed-form intersections.
type Hitbox struct {
	Type HitboxType

	// Sphere
	Center weapon.Vec3
	Radius float64

	// Box
	Min, Max weapon.Vec3
}

// Bounds returns the ground-plane rectangle used by the broad phase.
func (h Hitbox) Bounds() (minX, minZ, maxX, maxZ float64) {
	if h.Type == HitboxBox {
		return h.Min.X, h.Min.Z, h.Max.X, h.Max.Z
	}
	return h.Center.X - h.Radius, h.Center.Z - h.Radius,
		h.Center.X + h.Radius, h.Center.Z + h.Radius
}

// Intersect returns the entry distance and surface normal of a unit ray.
// A ray starting inside the shape hits at distance 0 facing back along dir.
func (h Hitbox) Intersect(origin, dir weapon.Vec3) (dist float64, normal weapon.Vec3, ok bool) {
	if h.Type == HitboxBox {
		return rayBox(origin, dir, h.Min, h.Max)
	}
	return raySphere(origin, dir, h.Center, h.Radius)
}

func raySphere(origin, dir, center weapon.Vec3, radius float64) (float64, weapon.Vec3, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius

	// Outside and pointing away
	if c > 0 && b > 0 {
		return 0, weapon.Vec3{}, false
	}

	disc := b*b - c
	if disc < 0 {
		return 0, weapon.Vec3{}, false
	}

	if c <= 0 {
		return 0, dir.Scale(-1), true
	}

	t := -b - math.Sqrt(disc)
	point := origin.Add(dir.Scale(t))
	return t, point.Sub(center).Scale(1 / radius), true
}

// rayBox is the slab test.
func rayBox(origin, dir, lo, hi weapon.Vec3) (float64, weapon.Vec3, bool) {
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	mn := [3]float64{lo.X, lo.Y, lo.Z}
	mx := [3]float64{hi.X, hi.Y, hi.Z}

	tNear, tFar := math.Inf(-1), math.Inf(1)
	axis := -1
	sign := 0.0

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < mn[i] || o[i] > mx[i] {
				return 0, weapon.Vec3{}, false
			}
			continue
		}

		t1 := (mn[i] - o[i]) / d[i]
		t2 := (mx[i] - o[i]) / d[i]
		s := -1.0 // entering through the min face
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}
		if t1 > tNear {
			tNear = t1
			axis = i
			sign = s
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, weapon.Vec3{}, false
		}
	}

	if tFar < 0 {
		return 0, weapon.Vec3{}, false
	}

	if tNear < 0 || axis < 0 {
		// Origin is inside the box
		return 0, dir.Scale(-1), true
	}

	var n [3]float64
	n[axis] = sign
	return tNear, weapon.Vec3{X: n[0], Y: n[1], Z: n[2]}, true
}
