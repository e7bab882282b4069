package geom

import "math"

// Ray is a half-line. Direction has unit length when built with NewRay.
type Ray struct {
	Origin    Vec
	Direction Vec
}

// NewRay returns the ray from origin towards direction.
func NewRay(origin, direction Vector) Ray {
	return Ray{Origin: origin.Fine(), Direction: direction.Fine().Unit()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectionDistance returns the distances along r's line at which it enters
// and leaves c, using the slab method. ok is false if the line misses c. A
// negative entry means the origin is outside c and the line hits it behind
// the origin, or that the origin is inside c.
func (c Cuboid) IntersectionDistance(r Ray) (entry, exit float64, ok bool) {
	if c.empty {
		return 0, 0, false
	}
	entry, exit = math.Inf(-1), math.Inf(1)
	for i := range 3 {
		o, d := r.Origin[i], r.Direction[i]
		if d == 0 {
			if o < c.min[i] || o > c.max[i] {
				return 0, 0, false
			}
			continue
		}
		near, far := (c.min[i]-o)/d, (c.max[i]-o)/d
		if near > far {
			near, far = far, near
		}
		entry = math.Max(entry, near)
		exit = math.Min(exit, far)
	}
	return entry, exit, entry <= exit
}

// RayIntersection returns the first point of c on r at or after its origin.
func (c Cuboid) RayIntersection(r Ray) (Vec, bool) {
	entry, exit, ok := c.IntersectionDistance(r)
	if !ok || exit < 0 {
		return Vec{}, false
	}
	return r.At(math.Max(entry, 0)), true
}
