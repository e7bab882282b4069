package geom

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/rand/v2"

	"github.com/df-mc/dragonfly/server/block/cube"
)

// Cuboid is a closed axis-aligned box. Corners may be infinite. Cuboids are
// values and compare with ==; Empty() == Empty() holds, and the empty cuboid
// equals no other cuboid.
type Cuboid struct {
	min, max Vec
	empty    bool
}

var (
	empty     = Cuboid{empty: true}
	unbounded = Cuboid{
		min: Vec{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
		max: Vec{math.Inf(1), math.Inf(1), math.Inf(1)},
	}
)

// Empty returns the cuboid that contains nothing.
func Empty() Cuboid {
	return empty
}

// Unbounded returns the cuboid that contains everything.
func Unbounded() Cuboid {
	return unbounded
}

// Between returns the cuboid with corners a and b, in any order. A NaN
// component in either corner yields Empty().
func Between(a, b Vector) Cuboid {
	fa, fb := a.Fine(), b.Fine()
	if fa.IsNaN() || fb.IsNaN() {
		return empty
	}
	return Cuboid{min: fa.Min(fb), max: fa.Max(fb)}
}

// BlockCuboid returns the cuboid covering the blocks from a to b inclusive.
func BlockCuboid(a, b Pos) Cuboid {
	lo, hi := a.Min(b), a.Max(b)
	return Cuboid{min: lo.Fine(), max: hi.Add(Pos{1, 1, 1}).Fine()}
}

// CuboidOf converts a Dragonfly bounding box.
func CuboidOf(b cube.BBox) Cuboid {
	return Between(VecOf(b.Min()), VecOf(b.Max()))
}

// IsEmpty reports whether c is the empty cuboid.
func (c Cuboid) IsEmpty() bool {
	return c.empty
}

// IsFinite reports whether c is non-empty with finite corners.
func (c Cuboid) IsFinite() bool {
	return !c.empty && c.min.IsFinite() && c.max.IsFinite()
}

// Min returns the minimum corner, or NaN if c is empty.
func (c Cuboid) Min() Vec {
	if c.empty {
		return NaN
	}
	return c.min
}

// Max returns the maximum corner, or NaN if c is empty.
func (c Cuboid) Max() Vec {
	if c.empty {
		return NaN
	}
	return c.max
}

// Size returns the extent along each axis, or NaN if c is empty.
func (c Cuboid) Size() Vec {
	if c.empty {
		return NaN
	}
	return c.max.Sub(c.min)
}

// Centre returns the centre, or NaN if c is empty.
func (c Cuboid) Centre() Vec {
	if c.empty {
		return NaN
	}
	return c.min.Add(c.max).Mul(0.5)
}

// Volume returns the volume. It is 0 for the empty cuboid.
func (c Cuboid) Volume() float64 {
	if c.empty {
		return 0
	}
	s := c.Size()
	return s[0] * s[1] * s[2]
}

// Bounds returns c.
func (c Cuboid) Bounds() Cuboid {
	return c
}

// Contains reports whether v lies in c, boundaries included. A coarse vector is
// tested by the centre of its block.
func (c Cuboid) Contains(v Vector) bool {
	if c.empty {
		return false
	}
	var f Vec
	if v.Coarse() {
		f = v.Block().Centre()
	} else {
		f = v.Fine()
	}
	for i := range 3 {
		if f[i] < c.min[i] || f[i] > c.max[i] {
			return false
		}
	}
	return true
}

// ContainsCuboid reports whether o lies entirely in c. Every cuboid contains
// the empty cuboid.
func (c Cuboid) ContainsCuboid(o Cuboid) bool {
	if o.empty {
		return true
	}
	if c.empty {
		return false
	}
	for i := range 3 {
		if o.min[i] < c.min[i] || o.max[i] > c.max[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether c and o share at least one point.
func (c Cuboid) Intersects(o Cuboid) bool {
	return !Intersect(c, o).empty
}

// Intersect returns the intersection of all given cuboids.
func Intersect(a Cuboid, others ...Cuboid) Cuboid {
	for _, b := range others {
		if a.empty || b.empty {
			return empty
		}
		a = Cuboid{min: a.min.Max(b.min), max: a.max.Min(b.max)}
		for i := range 3 {
			if a.min[i] > a.max[i] {
				return empty
			}
		}
	}
	return a
}

// Union returns the smallest cuboid containing all given cuboids. Empty
// operands are ignored.
func Union(a Cuboid, others ...Cuboid) Cuboid {
	for _, b := range others {
		switch {
		case b.empty:
		case a.empty:
			a = b
		default:
			a = Cuboid{min: a.min.Min(b.min), max: a.max.Max(b.max)}
		}
	}
	return a
}

// Complement returns a cuboid containing original minus subtracted. Since the
// difference of two boxes is rarely a box, an axis of original is only
// shrunk when subtracted spans original on both other axes and covers one end
// of that axis. Otherwise original is returned unchanged.
func Complement(original, subtracted Cuboid) Cuboid {
	if original.empty || !original.Intersects(subtracted) {
		return original
	}
	if subtracted.ContainsCuboid(original) {
		return empty
	}
	spans := func(i int) bool {
		return subtracted.min[i] <= original.min[i] && subtracted.max[i] >= original.max[i]
	}
	out := original
	for i := range 3 {
		j, k := (i+1)%3, (i+2)%3
		if !spans(j) || !spans(k) {
			continue
		}
		switch {
		case subtracted.min[i] <= original.min[i]:
			out.min[i] = subtracted.max[i]
		case subtracted.max[i] >= original.max[i]:
			out.max[i] = subtracted.min[i]
		}
	}
	return out
}

// Translate returns c moved by v. A NaN component in v, or an infinite one
// against an infinite corner, yields Empty().
func (c Cuboid) Translate(v Vector) Cuboid {
	if c.empty {
		return c
	}
	return orEmpty(Cuboid{min: c.min.Add(v), max: c.max.Add(v)})
}

// Expand returns c grown by v on every side. Shrinking past zero size or a NaN
// component in v yields Empty().
func (c Cuboid) Expand(v Vector) Cuboid {
	if c.empty {
		return c
	}
	out := orEmpty(Cuboid{min: c.min.Sub(v), max: c.max.Add(v)})
	if out.empty {
		return out
	}
	for i := range 3 {
		if out.min[i] > out.max[i] {
			return empty
		}
	}
	return out
}

// Transform returns the smallest cuboid containing the image of c under t.
// Infinite cuboids under a non block-aligned transform become Unbounded().
func (c Cuboid) Transform(t Transform) Cuboid {
	if c.empty {
		return c
	}
	if _, ok := t.(*BlockTransform); !ok && !c.IsFinite() {
		return unbounded
	}
	out := empty
	for i := range 8 {
		corner := c.min
		for axis := range 3 {
			if i&(1<<axis) != 0 {
				corner[axis] = c.max[axis]
			}
		}
		p := t.ApplyVec(corner)
		if p.IsNaN() {
			return empty
		}
		out = Union(out, Cuboid{min: p, max: p})
	}
	return out
}

// orEmpty returns Empty() when a corner of c has a NaN component.
func orEmpty(c Cuboid) Cuboid {
	if c.min.IsNaN() || c.max.IsNaN() {
		return empty
	}
	return c
}

// MinBlock returns the lowest block overlapping c, with Y clamped to
// [0, BuildHeight).
func (c Cuboid) MinBlock() (Pos, error) {
	lo, _, err := c.blockRange()
	return lo, err
}

// MaxBlock returns the highest block overlapping c, with Y clamped to
// [0, BuildHeight).
func (c Cuboid) MaxBlock() (Pos, error) {
	_, hi, err := c.blockRange()
	return hi, err
}

// BlockVolume returns the number of blocks MinBlock..MaxBlock. It is 0 for the
// empty cuboid and for cuboids entirely outside the build height, and fails
// with ErrOutOfRange when the count does not fit in an int.
func (c Cuboid) BlockVolume() (int, error) {
	if c.empty {
		return 0, nil
	}
	lo, hi, err := c.blockRange()
	switch {
	case errors.Is(err, ErrEmpty):
		return 0, nil
	case err != nil:
		return 0, err
	}
	n := 1
	for i := range 3 {
		d := hi[i] - lo[i] + 1
		if n > math.MaxInt/d {
			return 0, fmt.Errorf("%w: %v block volume", ErrOutOfRange, c)
		}
		n *= d
	}
	return n, nil
}

// Blocks returns an iterator over the blocks MinBlock..MaxBlock, X fastest.
//
// A block is yielded when c overlaps its interior at all. This is wider than
// Contains, which tests a Pos by its block centre: a thin cuboid such as
// Between(V(0.2, 0, 0), V(0.4, 1, 1)) yields P(0, 0, 0) but does not contain it.
func (c Cuboid) Blocks() (iter.Seq[Pos], error) {
	lo, hi, err := c.blockRange()
	if errors.Is(err, ErrEmpty) {
		return func(func(Pos) bool) {}, nil
	}
	if err != nil {
		return nil, err
	}
	return func(yield func(Pos) bool) {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				for x := lo[0]; x <= hi[0]; x++ {
					if !yield(Pos{x, y, z}) {
						return
					}
				}
			}
		}
	}, nil
}

// maxBlockCoord bounds block coordinates to integers float64 holds exactly.
const maxBlockCoord = 1 << 53

// blockRange returns the inclusive block bounds of c. A block overlaps c when
// its interior does, so max corners on a block boundary are exclusive.
func (c Cuboid) blockRange() (lo, hi Pos, err error) {
	if !c.IsFinite() {
		return Pos{}, Pos{}, ErrNotFinite
	}
	for i := range 3 {
		l, h := math.Floor(c.min[i]), math.Ceil(c.max[i])
		if l < -maxBlockCoord || h > maxBlockCoord {
			return Pos{}, Pos{}, fmt.Errorf("%w: %v", ErrOutOfRange, c)
		}
		lo[i] = int(l)
		hi[i] = int(h) - 1
	}
	lo[1] = max(lo[1], 0)
	hi[1] = min(hi[1], BuildHeight-1)
	for i := range 3 {
		if lo[i] > hi[i] {
			return Pos{}, Pos{}, ErrEmpty
		}
	}
	return lo, hi, nil
}

// RandomPoint returns a uniformly distributed point of c.
func (c Cuboid) RandomPoint(r *rand.Rand) (Vec, error) {
	if !c.IsFinite() {
		return Vec{}, ErrNotFinite
	}
	s := c.Size()
	return Vec{
		c.min[0] + r.Float64()*s[0],
		c.min[1] + r.Float64()*s[1],
		c.min[2] + r.Float64()*s[2],
	}, nil
}

// BBox converts c to a Dragonfly bounding box.
func (c Cuboid) BBox() (cube.BBox, error) {
	if !c.IsFinite() {
		return cube.BBox{}, ErrNotFinite
	}
	return cube.Box(c.min[0], c.min[1], c.min[2], c.max[0], c.max[1], c.max[2]), nil
}

func (c Cuboid) String() string {
	switch {
	case c.empty:
		return "Cuboid(empty)"
	case c == unbounded:
		return "Cuboid(unbounded)"
	}
	return fmt.Sprintf("Cuboid(%s, %s)", c.min, c.max)
}
