package geom

import (
	"fmt"
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Vector is a 3D vector of either resolution. Pos, Vec, *MutPos and *MutVec
// implement it.
type Vector interface {
	// Coarse reports whether the vector is a block coordinate.
	Coarse() bool
	// Fine returns the vector as real coordinates.
	Fine() Vec
	// Block returns the vector floored onto the block grid.
	Block() Pos
	// Elem returns the components as reals.
	Elem() (x, y, z float64)
}

// Equal reports whether a and b have the same resolution and components.
// Mutable and immutable variants of one resolution compare equal.
func Equal(a, b Vector) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Coarse() != b.Coarse() {
		return false
	}
	if a.Coarse() {
		return a.Block() == b.Block()
	}
	return a.Fine() == b.Fine()
}

// Pos is a coarse, integer block coordinate.
type Pos cube.Pos

// P creates a Pos.
func P(x, y, z int) Pos {
	return Pos{x, y, z}
}

// PosOf converts a Dragonfly block position.
func PosOf(p cube.Pos) Pos {
	return Pos(p)
}

// Floor returns the block containing (x, y, z).
func Floor(x, y, z float64) Pos {
	return Pos{floor(x), floor(y), floor(z)}
}

// X returns the X coordinate; Y and Z likewise.
func (p Pos) X() int { return p[0] }
func (p Pos) Y() int { return p[1] }
func (p Pos) Z() int { return p[2] }

// Coarse reports true: a Pos is a block coordinate.
func (p Pos) Coarse() bool { return true }

// Fine returns the minimum corner of the block.
func (p Pos) Fine() Vec {
	return Vec{float64(p[0]), float64(p[1]), float64(p[2])}
}

// Block returns p.
func (p Pos) Block() Pos { return p }

// Elem returns the coordinates as floats.
func (p Pos) Elem() (x, y, z float64) {
	return float64(p[0]), float64(p[1]), float64(p[2])
}

// Cube returns p as a Dragonfly block position.
func (p Pos) Cube() cube.Pos {
	return cube.Pos(p)
}

// Centre returns the centre of the block.
func (p Pos) Centre() Vec {
	return Vec{float64(p[0]) + 0.5, float64(p[1]) + 0.5, float64(p[2]) + 0.5}
}

// Side returns the neighbouring block on face f.
func (p Pos) Side(f cube.Face) Pos {
	return Pos(cube.Pos(p).Side(f))
}

// Add returns p+v.
func (p Pos) Add(v Vector) Pos {
	if v.Coarse() {
		q := v.Block()
		return Pos{p[0] + q[0], p[1] + q[1], p[2] + q[2]}
	}
	return p.Fine().Add(v).Block()
}

// Sub returns p-v.
func (p Pos) Sub(v Vector) Pos {
	if v.Coarse() {
		q := v.Block()
		return Pos{p[0] - q[0], p[1] - q[1], p[2] - q[2]}
	}
	return p.Fine().Sub(v).Block()
}

// Mul scales p by s and floors the result.
func (p Pos) Mul(s float64) Pos {
	return p.Fine().Mul(s).Block()
}

// Neg returns -p.
func (p Pos) Neg() Pos {
	return Pos{-p[0], -p[1], -p[2]}
}

// Min returns the component-wise minimum of p and v.
func (p Pos) Min(v Vector) Pos {
	if v.Coarse() {
		q := v.Block()
		return Pos{min(p[0], q[0]), min(p[1], q[1]), min(p[2], q[2])}
	}
	return p.Fine().Min(v).Block()
}

// Max returns the component-wise maximum of p and v.
func (p Pos) Max(v Vector) Pos {
	if v.Coarse() {
		q := v.Block()
		return Pos{max(p[0], q[0]), max(p[1], q[1]), max(p[2], q[2])}
	}
	return p.Fine().Max(v).Block()
}

// Abs returns the component-wise absolute value.
func (p Pos) Abs() Pos {
	return Pos{abs(p[0]), abs(p[1]), abs(p[2])}
}

// Dot returns the dot product of p and v.
func (p Pos) Dot(v Vector) float64 {
	return p.Fine().Dot(v)
}

// Cross returns the cross product of p and v, floored onto the grid.
func (p Pos) Cross(v Vector) Pos {
	if v.Coarse() {
		q := v.Block()
		return Pos{
			p[1]*q[2] - p[2]*q[1],
			p[2]*q[0] - p[0]*q[2],
			p[0]*q[1] - p[1]*q[0],
		}
	}
	return p.Fine().Cross(v).Block()
}

// Len and the distance methods work on the fine value of p.
func (p Pos) Len() float64                 { return p.Fine().Len() }
func (p Pos) LenSqr() float64              { return p.Fine().LenSqr() }
func (p Pos) Distance(v Vector) float64    { return p.Fine().Distance(v) }
func (p Pos) DistanceSqr(v Vector) float64 { return p.Fine().DistanceSqr(v) }

// Unit returns the fine unit vector in the direction of p. The zero vector
// yields NaN components.
func (p Pos) Unit() Vec {
	return p.Fine().Unit()
}

// String formats p as (x, y, z).
func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p[0], p[1], p[2])
}

// Vec is a fine, real coordinate.
type Vec mgl64.Vec3

// NaN is the vector returned by derived points of an empty cuboid.
var NaN = Vec{math.NaN(), math.NaN(), math.NaN()}

// V creates a Vec.
func V(x, y, z float64) Vec {
	return Vec{x, y, z}
}

// VecOf converts an mgl64 vector.
func VecOf(v mgl64.Vec3) Vec {
	return Vec(v)
}

// X returns the X coordinate; Y and Z likewise.
func (v Vec) X() float64 { return v[0] }
func (v Vec) Y() float64 { return v[1] }
func (v Vec) Z() float64 { return v[2] }

// Coarse reports false; Fine returns v.
func (v Vec) Coarse() bool { return false }
func (v Vec) Fine() Vec    { return v }

// Block returns the block containing v.
func (v Vec) Block() Pos {
	return Floor(v[0], v[1], v[2])
}

// Elem returns the coordinates.
func (v Vec) Elem() (x, y, z float64) {
	return v[0], v[1], v[2]
}

// Mgl returns v as an mgl64 vector.
func (v Vec) Mgl() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

// Add returns v+w.
func (v Vec) Add(w Vector) Vec {
	return Vec(mgl64.Vec3(v).Add(mgl64.Vec3(w.Fine())))
}

// Sub returns v-w.
func (v Vec) Sub(w Vector) Vec {
	return Vec(mgl64.Vec3(v).Sub(mgl64.Vec3(w.Fine())))
}

// Mul scales v by s.
func (v Vec) Mul(s float64) Vec {
	return Vec(mgl64.Vec3(v).Mul(s))
}

// Neg returns -v.
func (v Vec) Neg() Vec {
	return Vec{-v[0], -v[1], -v[2]}
}

// Min returns the component-wise minimum of v and w.
func (v Vec) Min(w Vector) Vec {
	f := w.Fine()
	return Vec{math.Min(v[0], f[0]), math.Min(v[1], f[1]), math.Min(v[2], f[2])}
}

// Max returns the component-wise maximum of v and w.
func (v Vec) Max(w Vector) Vec {
	f := w.Fine()
	return Vec{math.Max(v[0], f[0]), math.Max(v[1], f[1]), math.Max(v[2], f[2])}
}

// Abs returns the component-wise absolute value.
func (v Vec) Abs() Vec {
	return Vec{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}

// Dot returns the dot product of v and w.
func (v Vec) Dot(w Vector) float64 {
	return mgl64.Vec3(v).Dot(mgl64.Vec3(w.Fine()))
}

// Cross returns the cross product of v and w.
func (v Vec) Cross(w Vector) Vec {
	return Vec(mgl64.Vec3(v).Cross(mgl64.Vec3(w.Fine())))
}

// Len returns the length of v.
func (v Vec) Len() float64    { return mgl64.Vec3(v).Len() }
// LenSqr returns the squared length of v.
func (v Vec) LenSqr() float64 { return mgl64.Vec3(v).LenSqr() }

// Distance returns the euclidean distance between v and w.
func (v Vec) Distance(w Vector) float64 {
	return v.Sub(w).Len()
}

// DistanceSqr returns the squared distance between v and w.
func (v Vec) DistanceSqr(w Vector) float64 {
	return v.Sub(w).LenSqr()
}

// Unit returns v scaled to length 1. The zero vector yields NaN components.
func (v Vec) Unit() Vec {
	return Vec(mgl64.Vec3(v).Normalize())
}

// IsNaN reports whether any component is NaN.
func (v Vec) IsNaN() bool {
	return math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2])
}

// IsFinite reports whether every component is finite.
func (v Vec) IsFinite() bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

// ApproxEqual reports whether v and w are equal within a small tolerance.
func (v Vec) ApproxEqual(w Vec) bool {
	return mgl64.Vec3(v).ApproxEqualThreshold(mgl64.Vec3(w), epsilon)
}

// String formats v as (x, y, z).
func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}

func floor(x float64) int {
	return int(math.Floor(x))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
